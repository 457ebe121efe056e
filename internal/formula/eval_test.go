package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariables(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"a*b-a-c", []string{"a", "b", "c"}},
		{"(x + y) / z", []string{"x", "y", "z"}},
		{"a + A", []string{"A", "a"}},
		{"1 + 2", nil},
		{"ab + c", []string{"c"}}, // multi-letter identifiers are not variables
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Variables(tt.expr), "expr %q", tt.expr)
	}
}

func TestSubstitute(t *testing.T) {
	got := Substitute("a*b-a-c", map[string]float64{"a": 10, "b": 5, "c": 3})
	assert.Equal(t, "10*5-10-3", got)
}

func TestEvaluateReference(t *testing.T) {
	// The canonical round-trip: a*b-a-c with a=10 b=5 c=3 is 37.
	got, err := Evaluate("a*b-a-c", map[string]float64{"a": 10, "b": 5, "c": 3})
	require.NoError(t, err)
	assert.Equal(t, 37.0, got)
}

func TestEvaluatePrecedence(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10-4-3", 3},   // left associative
		{"20/4/5", 1},   // left associative
		{"2*3+4*5", 26},
		{"-3+5", 2},
		{"2*-3", -6},
		{"1.5*2", 3},
		{"10/3", 3.33}, // rounded to two decimals
		{"((1))", 1},
	}
	for _, tt := range tests {
		got, err := Evaluate(tt.expr, nil)
		require.NoError(t, err, "expr %q", tt.expr)
		assert.Equal(t, tt.want, got, "expr %q", tt.expr)
	}
}

func TestEvaluateRejectsInvalidChars(t *testing.T) {
	_, err := Evaluate("a; DROP TABLE x", map[string]float64{"a": 1})
	assert.ErrorIs(t, err, ErrInvalidChars)

	// An unbound variable survives substitution as a letter and fails the
	// same check.
	_, err = Evaluate("a+b", map[string]float64{"a": 1})
	assert.ErrorIs(t, err, ErrInvalidChars)

	_, err = Evaluate("2^3", nil)
	assert.ErrorIs(t, err, ErrInvalidChars)
}

func TestEvaluateDroppedNonNumericBinding(t *testing.T) {
	values := CoerceValues(map[string]any{"a": "10", "b": "oops"})
	assert.Equal(t, map[string]float64{"a": 10}, values)

	_, err := Evaluate("a+b", values)
	assert.ErrorIs(t, err, ErrInvalidChars)
}

func TestEvaluateDivisionByZero(t *testing.T) {
	_, err := Evaluate("1/0", nil)
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = Evaluate("0/0", nil)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestEvaluateMalformed(t *testing.T) {
	for _, expr := range []string{"", "   ", "1+", "(1+2", "1 2", "..", "*3"} {
		_, err := Evaluate(expr, nil)
		assert.Error(t, err, "expr %q", expr)
	}
}

func TestEvaluateNegativeSubstitution(t *testing.T) {
	got, err := Evaluate("a*b", map[string]float64{"a": 10, "b": -1.5})
	require.NoError(t, err)
	assert.Equal(t, -15.0, got)
}

func TestCoerceValues(t *testing.T) {
	got := CoerceValues(map[string]any{
		"a": 10.0,
		"b": "2.5",
		"c": true,
		"d": nil,
		"e": " 7 ",
	})
	assert.Equal(t, map[string]float64{"a": 10, "b": 2.5, "e": 7}, got)
}
