package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := g.GenerateString()
		require.False(t, seen[s], "duplicate ULID %s", s)
		seen[s] = true
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	g := NewGenerator()
	s := g.GenerateWithPrefix("con")

	assert.True(t, strings.HasPrefix(s, "con_"))
	assert.True(t, IsValid(strings.TrimPrefix(s, "con_")))
}

func TestTypedIDs(t *testing.T) {
	con := NewConsoleID()
	stream := NewStreamID()

	assert.True(t, strings.HasPrefix(con.String(), ConsolePrefix+"_"))
	assert.True(t, strings.HasPrefix(stream.String(), StreamPrefix+"_"))
	assert.NotEqual(t, con.String(), stream.String())
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(NewGenerator().GenerateString()))
	assert.False(t, IsValid("not-a-ulid"))
	assert.False(t, IsValid(""))
}
