package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]Model{
		"ollama":   Ollama,
		" Gemini ": Gemini,
		"local":    Ollama,
		"CLOUD":    Gemini,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("gpt-4")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, Gemini, Default(true))
	assert.Equal(t, Ollama, Default(false))
}

func TestToggleProductionDisablesLocal(t *testing.T) {
	toggle := NewToggle(true)

	assert.False(t, toggle.Available(Ollama))
	assert.True(t, toggle.Available(Gemini))

	options := toggle.Options(Gemini)
	require.Len(t, options, 2)
	assert.Equal(t, Option{Model: Ollama, Label: "Local (Ollama)", Selected: false, Available: false}, options[0])
	assert.Equal(t, Option{Model: Gemini, Label: "Cloud (Gemini)", Selected: true, Available: true}, options[1])
}

func TestToggleNext(t *testing.T) {
	dev := NewToggle(false)
	assert.Equal(t, Gemini, dev.Next(Ollama))
	assert.Equal(t, Ollama, dev.Next(Gemini))

	prod := NewToggle(true)
	assert.Equal(t, Gemini, prod.Next(Gemini))
	assert.Equal(t, Gemini, prod.Next(Ollama))
}

func TestToggleRejectsUnknown(t *testing.T) {
	assert.False(t, NewToggle(false).Available(Model("mistral")))
}
