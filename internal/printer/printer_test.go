package printer

import (
	"bytes"
	"testing"

	"github.com/bz888/medirag/internal/format"
	"github.com/bz888/medirag/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainAnswer(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)

	require.NoError(t, p.Question("Ibuprofen dosage?"))
	require.NoError(t, p.View(session.View{
		Phase:     session.Answered,
		Response:  "Dosage\n\n- 10mg\n- 20mg\n\nTake with food.",
		ModelUsed: "gemini",
	}))

	want := "You: Ibuprofen dosage?\n\n" +
		"Dosage\n\n" +
		"  • 10mg\n" +
		"  • 20mg\n\n" +
		"Take with food.\n\n" +
		"Source: MediRAG System · Model: gemini\n"
	assert.Equal(t, want, buf.String())
}

func TestPlainAnswerWithoutModel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, true).View(session.View{Phase: session.Answered, Response: "Take with food."}))

	assert.Equal(t, "Take with food.\n", buf.String())
}

func TestPlainFailure(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)

	require.NoError(t, p.View(session.View{Phase: session.Failed, Response: "backend down"}))
	assert.Equal(t, "Error: backend down\n", buf.String())

	buf.Reset()
	require.NoError(t, p.View(session.View{Phase: session.Failed}))
	assert.Equal(t, "Error: An unexpected error occurred.\n", buf.String())
}

func TestIdleAndLoadingPrintNothing(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	require.NoError(t, p.View(session.View{Phase: session.Idle}))
	require.NoError(t, p.View(session.View{Phase: session.Loading, Query: "q"}))
	assert.Empty(t, buf.String())
}

func TestStyledKeepsText(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	out := p.Blocks(format.Format("Warnings:\n\n1. Avoid alcohol\n2. Not for children"))
	assert.Contains(t, out, "Warnings")
	assert.NotContains(t, out, "Warnings:")
	assert.Contains(t, out, "Avoid alcohol")
	assert.Contains(t, out, "Not for children")
}

func TestControlSequencesAreStripped(t *testing.T) {
	for _, plain := range []bool{true, false} {
		var buf bytes.Buffer
		p := New(&buf, plain)

		require.NoError(t, p.Question("dose\x1b[2J?"))
		require.NoError(t, p.View(session.View{
			Phase:     session.Answered,
			Response:  "Take\x1b]0;pwned\x07 with food.\r\n\r\n- one\x1b[31m\n- two",
			ModelUsed: "gem\x1bini",
		}))
		require.NoError(t, p.View(session.View{Phase: session.Failed, Response: "down\x1b[5m"}))

		out := buf.String()
		assert.NotContains(t, out, "\x1b[2J", "plain=%v", plain)
		assert.NotContains(t, out, "\x1b]0;", "plain=%v", plain)
		assert.NotContains(t, out, "\x07", "plain=%v", plain)
		assert.NotContains(t, out, "\x1b[5m", "plain=%v", plain)
		assert.Contains(t, out, "Take]0;pwned with food.", "plain=%v", plain)
		assert.Contains(t, out, "Model: gemini", "plain=%v", plain)
	}
}

func TestSanitizeKeepsLayout(t *testing.T) {
	assert.Equal(t, "a\n\tb", sanitize("a\n\tb"))
	assert.Equal(t, "[31mred", sanitize("\x1b[31mred"))
	assert.Equal(t, "crlf\n", sanitize("crlf\r\n"))
}
