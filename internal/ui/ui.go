package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bz888/medirag/internal/logger"
	"github.com/bz888/medirag/internal/model"
	"github.com/bz888/medirag/internal/session"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type UI struct {
	app     *tview.Application
	session *session.Session
	log     *logger.Logger

	header       *tview.TextView
	toggle       *tview.TextView
	textView     *tview.TextView
	textArea     *tview.TextArea
	debugConsole *tview.TextView
	mainFlex     *tview.Flex

	ctx    context.Context
	debug  bool
	notice string

	// queueUpdate hands work from query goroutines back to the event loop.
	queueUpdate func(func())
}

// New builds every widget but does not start the event loop, so the debug
// console can be handed to the logger first.
func New(sess *session.Session, debug bool) *UI {
	u := &UI{
		app:     tview.NewApplication(),
		session: sess,
		log:     logger.NewLogger("views"),
		debug:   debug,
	}
	u.app.EnablePaste(true)
	u.app.EnableMouse(true)
	u.queueUpdate = func(f func()) {
		u.app.QueueUpdateDraw(f)
	}

	u.debugConsole = u.initDebugConsole()
	u.header = u.initHeader()
	u.toggle = tview.NewTextView().SetDynamicColors(true)
	u.textView = u.initChatViewer()
	u.textArea = u.initChatInput()
	return u
}

func (u *UI) initHeader() *tview.TextView {
	header := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	header.SetText(renderHeader())
	return header
}

func (u *UI) initChatViewer() *tview.TextView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetTitle("Conversation").SetBorder(true)
	textView.SetScrollable(true)
	return textView
}

func (u *UI) initChatInput() *tview.TextArea {
	textArea := tview.NewTextArea().
		SetPlaceholder(Placeholder)
	textArea.SetTitle("Question").SetBorder(true)
	return textArea
}

func (u *UI) initDebugConsole() *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			u.app.Draw()
		}).
		SetDynamicColors(true).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

// DebugConsole is the log sink shown next to the conversation in dev mode.
func (u *UI) DebugConsole() *tview.TextView {
	return u.debugConsole
}

// Run blocks until the user quits or ctx is cancelled.
func (u *UI) Run(ctx context.Context) error {
	u.ctx = ctx

	subFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(u.header, 2, 0, false).
		AddItem(u.toggle, 1, 0, false).
		AddItem(u.textView, 0, 1, false).
		AddItem(u.textArea, 5, 0, true)
	u.mainFlex = tview.NewFlex().
		AddItem(subFlex, 0, 2, true)
	if u.debug {
		u.mainFlex.AddItem(u.debugConsole, 0, 1, false)
	}

	u.setInputCapture()
	u.refresh()

	stop := context.AfterFunc(ctx, u.app.Stop)
	defer stop()

	u.log.Info("MediRAG started")
	if err := u.app.SetRoot(u.mainFlex, true).SetFocus(u.textArea).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func (u *UI) setInputCapture() {
	u.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyESC:
			u.app.SetFocus(u.textArea)
			return nil
		case tcell.KeyCtrlT:
			u.cycleModel()
			return nil
		}
		return event
	})

	u.textArea.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyESC:
			if u.textView.GetText(false) != "" {
				u.app.SetFocus(u.textView)
			}
			return nil
		case tcell.KeyCtrlT:
			u.cycleModel()
			return nil
		case tcell.KeyEnter:
			content := u.textArea.GetText()
			if strings.TrimSpace(content) == "" {
				return nil
			}
			u.textArea.SetText("", true)
			u.handleInput(content)
			return nil
		}
		return event
	})
}

// handleInput runs on the event loop.
func (u *UI) handleInput(content string) {
	u.notice = ""

	if cmd, ok := parseCommand(content); ok {
		u.runCommand(cmd)
		u.refresh()
		return
	}

	req, ok := u.session.Begin(content)
	if !ok {
		return
	}
	u.log.Infow("Query submitted", "model", req.Model)
	u.refresh()

	go func() {
		u.session.Send(u.ctx, req)
		u.queueUpdate(u.refresh)
	}()
}

func (u *UI) runCommand(cmd command) {
	switch cmd.name {
	case cmdHelp:
		u.notice = renderHelp()
	case cmdBye:
		u.quitApp()
	case cmdDebug:
		u.toggleDebugConsole()
	case cmdClear:
		if err := u.session.Reset(); err != nil {
			u.notice = noticeFor(err)
		}
	case cmdModel:
		u.selectModel(cmd.arg)
	default:
		u.notice = fmt.Sprintf("[yellow]Unknown command %s. Type /help for the list.[-]", tview.Escape(cmd.name))
	}
}

func (u *UI) selectModel(arg string) {
	if arg == "" {
		u.cycleModel()
		return
	}
	m, err := model.Parse(arg)
	if err == nil {
		err = u.session.SelectModel(m)
	}
	if err != nil {
		u.notice = noticeFor(err)
		return
	}
	u.refresh()
}

func (u *UI) cycleModel() {
	u.notice = ""
	if err := u.session.CycleModel(); err != nil {
		u.log.Warn("Model not changed: ", err)
		u.notice = noticeFor(err)
	}
	u.refresh()
}

func (u *UI) toggleDebugConsole() {
	if u.debug {
		u.mainFlex.RemoveItem(u.debugConsole)
		u.notice = "[gray]Debug console disabled[-]"
	} else {
		u.mainFlex.AddItem(u.debugConsole, 0, 1, false)
		u.notice = "[gray]Debug console enabled[-]"
	}
	u.debug = !u.debug
}

func (u *UI) quitApp() {
	u.log.Info("Shutting down")
	u.app.Stop()
}

// refresh redraws everything that depends on the session. It must run on
// the event loop.
func (u *UI) refresh() {
	v := u.session.Snapshot()

	u.toggle.SetText(renderToggle(v.Options, v.Loading()))
	u.textArea.SetDisabled(v.Loading())

	text := renderPanel(v)
	if u.notice != "" {
		if text != "" {
			text += "\n"
		}
		text += u.notice
	}
	if text == "" {
		text = "[gray]Ask a question to get started. Type /help for commands.[-]"
	}
	u.textView.SetText(text)
	u.textView.ScrollToEnd()
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, session.ErrBusy):
		return "[yellow]Please wait for the current answer.[-]"
	case errors.Is(err, session.ErrUnavailable):
		return "[yellow]That model is unavailable in this deployment.[-]"
	case errors.Is(err, model.ErrUnknownModel):
		return "[yellow]Unknown model. Use ollama or gemini.[-]"
	default:
		return fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error()))
	}
}
