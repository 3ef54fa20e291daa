package grammar

import (
	"testing"

	"github.com/hyprlang-go/hyprlang/pkg/herr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariableAndExpressionAssignment(t *testing.T) {
	// S1
	items, err := Parse("$base = 10\ndouble = {{$base * 2}}\n", "<input>")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, ItemAssignVar, items[0].Kind)
	assert.Equal(t, "base", items[0].Name)
	assert.Equal(t, "10", items[0].RHS)

	assert.Equal(t, ItemAssign, items[1].Kind)
	assert.Equal(t, []string{"double"}, items[1].Segs)
	assert.Equal(t, "{{$base * 2}}", items[1].RHS)
}

func TestParseNestedCategories(t *testing.T) {
	// S2
	text := "general {\nborder_size = 2\ngaps {\ninner = 5\n}\n}\n"
	items, err := Parse(text, "<input>")
	require.NoError(t, err)

	kinds := make([]ItemKind, len(items))
	for i, it := range items {
		kinds[i] = it.Kind
	}
	assert.Equal(t, []ItemKind{
		ItemOpenCat, ItemAssign, ItemOpenCat, ItemAssign, ItemCloseCat, ItemCloseCat,
	}, kinds)
}

func TestParseHandlerLinesAreAssignAtGrammarLevel(t *testing.T) {
	// S3: grammar doesn't know "bind" is a handler; the binder reclassifies.
	items, err := Parse("bind = A\nbind = B\nbind = C\n", "<input>")
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, want := range []string{"A", "B", "C"} {
		assert.Equal(t, ItemAssign, items[i].Kind)
		assert.Equal(t, []string{"bind"}, items[i].Segs)
		assert.Equal(t, want, items[i].RHS)
	}
}

func TestParseSpecialCategoryOpen(t *testing.T) {
	// S5
	text := "device[mouse] {\nsensitivity = 0.5\n}\ndevice[kb] {\nrepeat_rate = 50\n}\n"
	items, err := Parse(text, "<input>")
	require.NoError(t, err)
	require.Len(t, items, 6)
	assert.Equal(t, ItemOpenSpecial, items[0].Kind)
	assert.Equal(t, "device", items[0].Name)
	assert.Equal(t, "mouse", items[0].Key)
	assert.Equal(t, ItemOpenSpecial, items[3].Kind)
	assert.Equal(t, "kb", items[3].Key)
}

func TestParseSourceDirective(t *testing.T) {
	items, err := Parse(`source = "other.conf"`+"\n", "<input>")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ItemSource, items[0].Kind)
	assert.Equal(t, "other.conf", items[0].Name)
}

func TestParseSourceDirectiveBarePath(t *testing.T) {
	items, err := Parse("source = ./other.conf\n", "<input>")
	require.NoError(t, err)
	require.Equal(t, "./other.conf", items[0].Name)
}

func TestParseConditionalDirectives(t *testing.T) {
	text := "# hyprlang if $flag == 1\nx = 1\n# hyprlang endif\n"
	items, err := Parse(text, "<input>")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, ItemIfDirective, items[0].Kind)
	assert.Equal(t, "$flag == 1", items[0].Cond)
	assert.Equal(t, ItemAssign, items[1].Kind)
	assert.Equal(t, ItemEndIf, items[2].Kind)
}

func TestParseNoErrorDirective(t *testing.T) {
	items, err := Parse("# hyprlang noerror\nx = $undefined\n", "<input>")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ItemNoError, items[0].Kind)
}

func TestParsePlainAndDocCommentsIgnored(t *testing.T) {
	items, err := Parse("# a plain comment\n## a doc comment\nx = 1\n", "<input>")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ItemAssign, items[0].Kind)
}

func TestParseTrailingCommentOnCodeLine(t *testing.T) {
	items, err := Parse("x = 1 # trailing\n", "<input>")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].RHS)
}

func TestParseEmptyInputProducesNoItems(t *testing.T) {
	items, err := Parse("", "<input>")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParseUnmatchedCloseIsStillEmittedAsItem(t *testing.T) {
	// Unmatched-close detection is the binder's job (it tracks the stack);
	// the grammar just emits the CloseCat item.
	items, err := Parse("}\n", "<input>")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ItemCloseCat, items[0].Kind)
}

func TestParseDottedKeySegments(t *testing.T) {
	items, err := Parse("decoration.rounding = 10\n", "<input>")
	require.NoError(t, err)
	assert.Equal(t, []string{"decoration", "rounding"}, items[0].Segs)
}

func TestParseRejectsMissingEquals(t *testing.T) {
	_, err := Parse("not_an_assignment\n", "<input>")
	require.Error(t, err)
	assert.True(t, errorIsParse(err))
}

func TestParseLocationsAreOneIndexed(t *testing.T) {
	items, err := Parse("\n\nx = 1\n", "<input>")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, herr.Location{Source: "<input>", Line: 3}, items[0].Loc)
}

func errorIsParse(err error) bool {
	e, ok := err.(*herr.Error)
	return ok && e.Kind == herr.KindParse
}
