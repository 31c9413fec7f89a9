package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinling9/stacompare/internal/filter"
)

func TestCompile_SimpleComparison(t *testing.T) {
	t.Parallel()

	prog, err := filter.Compile("x > 0")
	require.NoError(t, err)

	assert.True(t, filter.Eval(prog, 1))
	assert.False(t, filter.Eval(prog, 0))
	assert.False(t, filter.Eval(prog, -1))
}

func TestCompile_AndOrPrecedence(t *testing.T) {
	t.Parallel()

	// x > 0 && x < 10 || x == 100
	prog, err := filter.Compile("x > 0 && x < 10 || x == 100")
	require.NoError(t, err)

	assert.True(t, filter.Eval(prog, 5))
	assert.True(t, filter.Eval(prog, 100))
	assert.False(t, filter.Eval(prog, 50))
	assert.False(t, filter.Eval(prog, -5))
}

func TestCompile_Negation(t *testing.T) {
	t.Parallel()

	prog, err := filter.Compile("!(x > 0 && x < 10)")
	require.NoError(t, err)

	assert.False(t, filter.Eval(prog, 5))
	assert.True(t, filter.Eval(prog, 50))
	assert.True(t, filter.Eval(prog, -5))
}

func TestCompile_ChainedComparison(t *testing.T) {
	t.Parallel()

	prog, err := filter.Compile("0 <= x <= 10")
	require.NoError(t, err)

	assert.True(t, filter.Eval(prog, 0))
	assert.True(t, filter.Eval(prog, 10))
	assert.True(t, filter.Eval(prog, 5))
	assert.False(t, filter.Eval(prog, 11))
	assert.False(t, filter.Eval(prog, -1))
}

func TestCompile_Negative(t *testing.T) {
	t.Parallel()

	prog, err := filter.Compile("x > -5.5")
	require.NoError(t, err)

	assert.True(t, filter.Eval(prog, -1))
	assert.False(t, filter.Eval(prog, -10))
}

func TestCompile_InvalidExpression(t *testing.T) {
	t.Parallel()

	_, err := filter.Compile("x >")

	var parseErr *filter.FilterParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestCompile_UnbalancedParens(t *testing.T) {
	t.Parallel()

	_, err := filter.Compile("(x > 0")
	require.Error(t, err)
}

func TestMachine_ReusedAcrossCalls(t *testing.T) {
	t.Parallel()

	prog := filter.MustCompile("x == 42")

	var m filter.Machine
	assert.True(t, m.Run(prog, 42))
	assert.False(t, m.Run(prog, 43))
	assert.True(t, m.Run(prog, 42))
}
