package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charlie0129/linkman/pkg/linker"
)

func TestConfirm(t *testing.T) {
	p := linker.Pair{Source: "/s/a", Target: "/t/a"}

	for _, tc := range []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	} {
		var out bytes.Buffer
		c := NewConfirmer(strings.NewReader(tc.input), &out)
		assert.Equal(t, tc.want, c.Confirm(p, linker.IsFile), "input %q", tc.input)
		assert.Contains(t, out.String(), "/t/a exists (is-file)")
	}
}

func TestConfirm_ReadsSequentialAnswers(t *testing.T) {
	c := NewConfirmer(strings.NewReader("y\nn\n"), &bytes.Buffer{})
	assert.True(t, c.Confirm(linker.Pair{}, linker.IsFile))
	assert.False(t, c.Confirm(linker.Pair{}, linker.IsFile))
}

func TestHook(t *testing.T) {
	c := NewConfirmer(strings.NewReader(""), &bytes.Buffer{})
	assert.False(t, c.Interactive, "a string reader is never a terminal")
	assert.Nil(t, c.Hook(true, false))

	c.Interactive = true
	assert.NotNil(t, c.Hook(true, false))
	assert.Nil(t, c.Hook(true, true), "--no-confirm disables prompting")
	assert.Nil(t, c.Hook(false, false), "nothing is replaced without overwrite")
}
