// Package formula evaluates user-authored arithmetic expressions over
// single-letter variables.  The expression text is persisted and user
// controlled, so evaluation goes through a dedicated tokenizer and
// recursive-descent parser restricted to numbers, + - * /, unary minus
// and parentheses.  Nothing in this package ever executes the input as
// code.
package formula

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gridbook/gridbook/internal/utils"
)

var (
	// ErrInvalidChars is returned when the substituted expression contains
	// anything beyond digits, arithmetic operators, parentheses, decimal
	// points and whitespace.
	ErrInvalidChars = errors.New("invalid characters in formula")
	// ErrNonFinite is returned when evaluation produces Inf or NaN, e.g.
	// on division by zero.  Non-finite values are reported as an error
	// rather than passed through to the client.
	ErrNonFinite = errors.New("formula result is not a finite number")
	// ErrEmpty is returned for a blank expression.
	ErrEmpty = errors.New("formula is empty")
)

// variableRe matches a single letter bounded by word boundaries.  Only
// one-letter identifiers are supported; stored formulas depend on this
// restriction, so multi-letter names intentionally fail the character
// check after substitution instead of being treated as variables.
var variableRe = regexp.MustCompile(`\b[a-zA-Z]\b`)

// validRe is the post-substitution whitelist: the expression must reduce
// to pure arithmetic before the parser sees it.
var validRe = regexp.MustCompile(`^[0-9+\-*/().\s]+$`)

// Variables returns the distinct single-letter variable symbols found in
// expr, sorted.
func Variables(expr string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range variableRe.FindAllString(expr, -1) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// CoerceValues converts raw variable bindings (as decoded from JSON) into
// numeric values.  Non-numeric bindings are dropped, not rejected: an
// expression that still references a dropped variable fails the character
// check during Evaluate.
func CoerceValues(raw map[string]any) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		switch n := v.(type) {
		case float64:
			out[k] = n
		case int:
			out[k] = float64(n)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				out[k] = f
			}
		}
	}
	return out
}

// Substitute replaces every whole-word occurrence of each bound variable
// with the decimal form of its value.
func Substitute(expr string, values map[string]float64) string {
	for k, v := range values {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(k) + `\b`)
		if err != nil {
			continue
		}
		expr = re.ReplaceAllString(expr, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return expr
}

// Evaluate substitutes the bindings into expr, checks the result against
// the arithmetic whitelist and evaluates it.  The returned value is
// rounded to two decimals, half away from zero.
func Evaluate(expr string, values map[string]float64) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, ErrEmpty
	}
	sub := Substitute(expr, values)
	if !validRe.MatchString(sub) {
		return 0, ErrInvalidChars
	}
	p := parser{input: sub}
	v, err := p.parse()
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNonFinite
	}
	return utils.Round2(v), nil
}
