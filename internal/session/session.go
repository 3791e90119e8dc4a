// Package session holds the state of one MediRAG conversation: the selected
// model, the current question and the outcome of its single request.
//
// A session moves through Idle -> Loading -> Answered|Failed and back to
// Loading on every new question. Only one request is ever in flight.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bz888/medirag/internal/api"
	"github.com/bz888/medirag/internal/logger"
	"github.com/bz888/medirag/internal/model"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Failed
	Answered
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Answered:
		return "answered"
	default:
		return "idle"
	}
}

var (
	ErrBusy        = errors.New("a query is in progress")
	ErrUnavailable = errors.New("model is unavailable in this deployment")
)

// View is a read-only copy of the session for rendering. Response holds the
// answer when Answered and the user-facing error message when Failed.
type View struct {
	Phase     Phase
	Model     model.Model
	Options   []model.Option
	Query     string
	Response  string
	ModelUsed string
}

func (v View) Loading() bool {
	return v.Phase == Loading
}

func (v View) Failed() bool {
	return v.Phase == Failed
}

type Session struct {
	mu sync.Mutex

	client api.Querier
	toggle model.Toggle
	log    *logger.Logger

	phase     Phase
	model     model.Model
	query     string
	response  string
	modelUsed string
}

// New starts an idle session. The initial model is the deployment default.
func New(client api.Querier, production bool) *Session {
	return &Session{
		client: client,
		toggle: model.NewToggle(production),
		log:    logger.NewLogger("session"),
		model:  model.Default(production),
	}
}

// SelectModel changes the model used by the next question.
func (s *Session) SelectModel(m model.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == Loading {
		return ErrBusy
	}
	if !m.Valid() {
		return model.ErrUnknownModel
	}
	if !s.toggle.Available(m) {
		return ErrUnavailable
	}
	if s.model != m {
		s.log.Info("Model selected: ", m)
	}
	s.model = m
	return nil
}

// CycleModel selects the next available model.
func (s *Session) CycleModel() error {
	s.mu.Lock()
	next := s.toggle.Next(s.model)
	s.mu.Unlock()

	return s.SelectModel(next)
}

// Begin validates text and, when accepted, moves the session to Loading and
// returns the request to send. Blank text or a request already in flight
// leaves the session untouched.
func (s *Session) Begin(text string) (api.QueryRequest, bool) {
	question := strings.TrimSpace(text)
	if question == "" {
		return api.QueryRequest{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == Loading {
		s.log.Warn("Query ignored, another one is in progress")
		return api.QueryRequest{}, false
	}

	s.phase = Loading
	s.query = question
	s.response = ""
	s.modelUsed = ""

	return api.QueryRequest{Question: question, Model: s.model}, true
}

// Complete records the outcome of the request started by Begin. It is a
// no-op unless the session is Loading.
func (s *Session) Complete(resp *api.QueryResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != Loading {
		return
	}

	if err == nil && resp == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		s.log.Error("Query failed: ", err)
		s.phase = Failed
		s.response = api.UserMessage(err)
		s.modelUsed = ""
		return
	}

	s.phase = Answered
	s.response = resp.Answer
	s.modelUsed = resp.ModelUsed
}

// Send performs the request returned by Begin and records its outcome.
// There is no retry; the user resubmits after a failure.
func (s *Session) Send(ctx context.Context, req api.QueryRequest) {
	resp, err := s.client.Query(ctx, req)
	s.Complete(resp, err)
}

// Submit runs Begin and Send. It reports whether a request was sent.
func (s *Session) Submit(ctx context.Context, text string) bool {
	req, ok := s.Begin(text)
	if !ok {
		return false
	}
	s.Send(ctx, req)
	return true
}

// Reset clears the conversation but keeps the selected model.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == Loading {
		return ErrBusy
	}
	s.phase = Idle
	s.query = ""
	s.response = ""
	s.modelUsed = ""
	return nil
}

func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		Phase:     s.phase,
		Model:     s.model,
		Options:   s.toggle.Options(s.model),
		Query:     s.query,
		Response:  s.response,
		ModelUsed: s.modelUsed,
	}
}
