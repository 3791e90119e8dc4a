package ui

import "strings"

const (
	cmdHelp  = "/help"
	cmdModel = "/model"
	cmdDebug = "/debug"
	cmdClear = "/clear"
	cmdBye   = "/bye"
)

type command struct {
	name string
	arg  string
}

var commands = []struct {
	usage string
	help  string
}{
	{cmdHelp, "Display this help message"},
	{cmdModel + " [ollama|gemini]", "Select a model, or switch to the other one"},
	{cmdDebug, "Toggle the debug console"},
	{cmdClear, "Clear the conversation"},
	{cmdBye, "Exit the application (also exit, quit)"},
}

// parseCommand recognises slash commands and the bare exit words. Anything
// else is a question.
func parseCommand(content string) (command, bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return command{}, false
	}

	name := strings.ToLower(fields[0])
	switch name {
	case "exit", "quit":
		if len(fields) == 1 {
			return command{name: cmdBye}, true
		}
		return command{}, false
	}
	if !strings.HasPrefix(name, "/") || len(name) == 1 {
		return command{}, false
	}
	return command{name: name, arg: strings.Join(fields[1:], " ")}, true
}
