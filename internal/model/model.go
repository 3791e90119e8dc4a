package model

import (
	"errors"
	"fmt"
	"strings"
)

// Model identifies the backend that generates an answer.
type Model string

const (
	Ollama Model = "ollama" // local
	Gemini Model = "gemini" // cloud
)

var ErrUnknownModel = errors.New("unknown model")

// All lists the models in display order.
var All = []Model{Ollama, Gemini}

func (m Model) String() string {
	return string(m)
}

// Label is the text shown on the toggle.
func (m Model) Label() string {
	switch m {
	case Ollama:
		return "Local (Ollama)"
	case Gemini:
		return "Cloud (Gemini)"
	default:
		return string(m)
	}
}

func (m Model) IsLocal() bool {
	return m == Ollama
}

func (m Model) Valid() bool {
	return m == Ollama || m == Gemini
}

// Parse accepts the wire identifier in any case, plus "local" and "cloud".
func Parse(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ollama", "local":
		return Ollama, nil
	case "gemini", "cloud":
		return Gemini, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// Default picks the model a fresh session starts with.
func Default(production bool) Model {
	if production {
		return Gemini
	}
	return Ollama
}
