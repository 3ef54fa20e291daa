package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadIdent(t *testing.T) {
	ident, next, ok := ReadIdent("gaps_in-px.2 = 5", 0)
	assert.True(t, ok)
	assert.Equal(t, "gaps_in-px.2", ident)
	assert.Equal(t, 12, next)
}

func TestReadIdentRejectsDigitStart(t *testing.T) {
	_, _, ok := ReadIdent("5abc", 0)
	assert.False(t, ok)
}

func TestSplitSegments(t *testing.T) {
	assert.Equal(t, []string{"decoration", "rounding"}, SplitSegments("decoration.rounding"))
}

func TestTrimCommentIgnoresHashInQuotes(t *testing.T) {
	assert.Equal(t, `name = "a#b" `, TrimComment(`name = "a#b" # trailing note`))
}

func TestTrimCommentNoComment(t *testing.T) {
	assert.Equal(t, "x = 1", TrimComment("x = 1"))
}

func TestReadQuotedStringEscapes(t *testing.T) {
	text, next, ok := ReadQuotedString(`"a\"b\\c\nd" rest`, 0)
	assert.True(t, ok)
	assert.Equal(t, "a\"b\\c\nd", text)
	assert.Equal(t, 12, next)
}

func TestReadQuotedStringUnterminated(t *testing.T) {
	_, _, ok := ReadQuotedString(`"unterminated`, 0)
	assert.False(t, ok)
}

func TestIsNumberStart(t *testing.T) {
	assert.True(t, IsNumberStart("123", 0))
	assert.True(t, IsNumberStart("-5", 0))
	assert.True(t, IsNumberStart(".5", 0))
	assert.True(t, IsNumberStart("+.5", 0))
	assert.False(t, IsNumberStart("-", 0))
	assert.False(t, IsNumberStart("abc", 0))
}
