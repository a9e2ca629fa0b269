package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt_ReadsLines(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("1\n\r\n 2 \nlast"), &out)

	tests := []string{"1", "", " 2 ", "last"}
	for i, want := range tests {
		got, err := c.Prompt("> ")
		require.NoError(t, err, "prompt %d", i)
		assert.Equal(t, want, got, "prompt %d", i)
	}

	_, err := c.Prompt("> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > > > ", out.String())
}

func TestPrompt_EmptyInput(t *testing.T) {
	c := New(strings.NewReader(""), io.Discard)

	_, err := c.Prompt("Keep which file? ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestOutput(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	c.Output("Size: 9 bytes")
	c.Output("")
	assert.Equal(t, "Size: 9 bytes\n\n", out.String())
}

func TestStd(t *testing.T) {
	assert.NotNil(t, Std())
}
