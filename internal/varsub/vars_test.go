package varsub

import (
	"errors"
	"os"
	"testing"

	"github.com/hyprlang-go/hyprlang/pkg/herr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSimple(t *testing.T) {
	tbl := New()
	tbl.Set("base", "10")
	got, err := tbl.Expand("$base * 2", herr.Location{Line: 1})
	require.NoError(t, err)
	assert.Equal(t, "10 * 2", got)
}

func TestExpandChained(t *testing.T) {
	tbl := New()
	tbl.Set("a", "$b")
	tbl.Set("b", "5")
	got, err := tbl.Expand("$a", herr.Location{Line: 1})
	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

func TestExpandCycleDetected(t *testing.T) {
	// S6: $a = $b; $b = $a; x = $a.
	tbl := New()
	tbl.Set("a", "$b")
	tbl.Set("b", "$a")
	_, err := tbl.Expand("$a", herr.Location{Line: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, herr.KindSentinel(herr.KindVarCycle)))
}

func TestExpandUnknownVarFallsBackToEnv(t *testing.T) {
	os.Setenv("HYPRLANG_TEST_VAR", "envval")
	defer os.Unsetenv("HYPRLANG_TEST_VAR")

	tbl := New()
	got, err := tbl.Expand("$HYPRLANG_TEST_VAR", herr.Location{Line: 1})
	require.NoError(t, err)
	assert.Equal(t, "envval", got)
}

func TestExpandUnknownVarErrors(t *testing.T) {
	tbl := New()
	_, err := tbl.Expand("$nope_not_defined_anywhere", herr.Location{Line: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, herr.KindSentinel(herr.KindUnknownVar)))
}

func TestUserDefinedTakesPrecedenceOverEnv(t *testing.T) {
	os.Setenv("HYPRLANG_TEST_PRECEDENCE", "fromenv")
	defer os.Unsetenv("HYPRLANG_TEST_PRECEDENCE")

	tbl := New()
	tbl.Set("HYPRLANG_TEST_PRECEDENCE", "fromtable")
	got, err := tbl.Expand("$HYPRLANG_TEST_PRECEDENCE", herr.Location{Line: 1})
	require.NoError(t, err)
	assert.Equal(t, "fromtable", got)
}

func TestExpandProbeToleratesUnknownVar(t *testing.T) {
	tbl := New()
	got := tbl.ExpandProbe("prefix-$missing-suffix", herr.Location{Line: 1})
	// '-' is an identifier byte, so the reference is $missing-suffix.
	assert.Equal(t, "prefix-", got)
}

func TestVariablesInsertionOrder(t *testing.T) {
	tbl := New()
	tbl.Set("z", "1")
	tbl.Set("a", "2")
	assert.Equal(t, []string{"z", "a"}, tbl.Names())

	vars, err := tbl.Variables()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"z": "1", "a": "2"}, vars)
}

func TestLoneDollarIsLiteral(t *testing.T) {
	tbl := New()
	got, err := tbl.Expand("price: $5", herr.Location{Line: 1})
	require.NoError(t, err)
	assert.Equal(t, "price: $5", got)
}
