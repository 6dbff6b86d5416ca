package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_Blank(t *testing.T) {
	result := Parse(" \t ")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("attack")
	assert.Equal(t, "attack", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_Lowercase(t *testing.T) {
	result := Parse("ATTACK")
	assert.Equal(t, "attack", result.Command)
}

func TestParse_ArgsKeepCase(t *testing.T) {
	result := Parse("duel Alice")
	assert.Equal(t, "duel", result.Command)
	assert.Equal(t, []string{"Alice"}, result.Args)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  skill   first_aid   bob  ")
	assert.Equal(t, "skill", result.Command)
	assert.Equal(t, []string{"first_aid", "bob"}, result.Args)
}

func TestPropertyParseAlwaysLowercasesCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,20}`).Draw(t, "word")
		result := Parse(word)
		for _, c := range result.Command {
			if c >= 'A' && c <= 'Z' {
				t.Fatalf("command %q contains uppercase char in Parse result %q", word, result.Command)
			}
		}
	})
}

func TestPropertyParseArgCountMatchesWords(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 1, 6).Draw(t, "words")
		line := ""
		for i, w := range words {
			if i > 0 {
				line += "  "
			}
			line += w
		}
		result := Parse(line)
		if result.Command != words[0] {
			t.Fatalf("command %q, want %q", result.Command, words[0])
		}
		if len(result.Args) != len(words)-1 {
			t.Fatalf("got %d args for %q", len(result.Args), line)
		}
	})
}
