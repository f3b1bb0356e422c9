package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCensor_MasksForbiddenWords(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"idiot", "scum"}, '*')
	req.NoError(err)

	req.Equal("you *****", m.Censor("you idiot"))
	req.Equal("what a ****bag", m.Censor("what a scumbag"))
	req.Equal("hello there", m.Censor("hello there"))
}

func TestCensor_IgnoresCaseAndPunctuation(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"idiot"}, '*')
	req.NoError(err)

	req.Equal("*****", m.Censor("IdIoT"))
	// The whole span is masked, separators included.
	req.Equal("*********", m.Censor("i.d.i.o.t"))
}

func TestCensor_EmptyInput(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"idiot"}, '*')
	req.NoError(err)

	req.Equal("", m.Censor(""))
	req.Equal("...", m.Censor("..."))
}

func TestLoadCensoredWords(t *testing.T) {
	req := require.New(t)
	words, err := LoadCensoredWords()
	req.NoError(err)
	req.NotEmpty(words)
	req.Contains(words, "idiot")
	req.NotContains(words, "")
}
