package formula

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/af-corp/mathforge/internal/apperr"
)

// Operation is a binary arithmetic operation.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
)

// Operations lists the supported operations in display order.
var Operations = []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide}

// ParseOperation validates an operation tag.
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == s {
			return op, nil
		}
	}
	names := make([]string, len(Operations))
	for i, op := range Operations {
		names[i] = string(op)
	}
	return "", apperr.Domain(ErrInvalidOperation.Code,
		fmt.Sprintf("Invalid operation %q. Choose from: %s", s, strings.Join(names, ", ")))
}

// Operand is either an Exact rational or an Approx float. A single
// computation never mixes the two.
type Operand interface {
	String() string
	isOperand()
}

// Exact is an exact rational operand.
type Exact struct{ R *big.Rat }

// Approx is a double-precision operand.
type Approx float64

func (Exact) isOperand()  {}
func (Approx) isOperand() {}

// String renders integers without a denominator and other values as p/q.
func (e Exact) String() string {
	return e.rat().RatString()
}

func (a Approx) String() string { return FormatNumber(float64(a)) }

func (e Exact) rat() *big.Rat {
	if e.R == nil {
		return new(big.Rat)
	}
	return e.R
}

// ParseExact parses an integer, decimal or p/q literal into an exact operand.
func ParseExact(s string) (Exact, error) {
	s = strings.TrimSpace(s)
	if basePrefixed(s) {
		return Exact{}, apperr.Validation(ErrInvalidOperand.Code,
			fmt.Sprintf("%q is not a valid rational number", s))
	}
	if strings.ContainsAny(s, "eEpP") {
		// Keep exponents within float64 range; big.Rat would happily
		// materialise 1e999999999.
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return Exact{}, apperr.Validation(ErrInvalidOperand.Code,
				fmt.Sprintf("%q is not a valid rational number", s))
		}
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		// big.Rat reads a leading 0 in either side as octal.
		p, okP := new(big.Int).SetString(num, 10)
		q, okQ := new(big.Int).SetString(den, 10)
		if !okP || !okQ || q.Sign() == 0 {
			return Exact{}, apperr.Validation(ErrInvalidOperand.Code,
				fmt.Sprintf("%q is not a valid rational number", s))
		}
		return Exact{R: new(big.Rat).SetFrac(p, q)}, nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || s == "" {
		return Exact{}, apperr.Validation(ErrInvalidOperand.Code,
			fmt.Sprintf("%q is not a valid rational number", s))
	}
	return Exact{R: r}, nil
}

// basePrefixed reports whether either side of a p/q literal starts with a
// 0x, 0b or 0o prefix. big.Rat accepts those; decimal input does not.
func basePrefixed(s string) bool {
	for _, part := range strings.Split(s, "/") {
		part = strings.TrimLeft(part, "+-")
		if len(part) > 1 && part[0] == '0' && strings.ContainsRune("xXbBoO", rune(part[1])) {
			return true
		}
	}
	return false
}

// Compute applies op to a and b. Both operands must have the same
// representation; the result has that representation too.
func Compute(op Operation, a, b Operand) (Operand, error) {
	switch x := a.(type) {
	case Exact:
		y, ok := b.(Exact)
		if !ok {
			return nil, ErrMixedOperands
		}
		return computeExact(op, x, y)
	case Approx:
		y, ok := b.(Approx)
		if !ok {
			return nil, ErrMixedOperands
		}
		return computeApprox(op, x, y)
	default:
		return nil, apperr.Validation(ErrInvalidOperand.Code, fmt.Sprintf("unsupported operand %T", a))
	}
}

func computeExact(op Operation, a, b Exact) (Operand, error) {
	x, y, r := a.rat(), b.rat(), new(big.Rat)
	switch op {
	case OpAdd:
		r.Add(x, y)
	case OpSubtract:
		r.Sub(x, y)
	case OpMultiply:
		r.Mul(x, y)
	case OpDivide:
		if y.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		r.Quo(x, y)
	default:
		_, err := ParseOperation(string(op))
		return nil, err
	}
	return Exact{R: r}, nil
}

func computeApprox(op Operation, a, b Approx) (Operand, error) {
	var r float64
	switch op {
	case OpAdd:
		r = float64(a) + float64(b)
	case OpSubtract:
		r = float64(a) - float64(b)
	case OpMultiply:
		r = float64(a) * float64(b)
	case OpDivide:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		r = float64(a) / float64(b)
	default:
		_, err := ParseOperation(string(op))
		return nil, err
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return nil, apperr.Domain(ErrNonFiniteResult.Code,
			fmt.Sprintf("%s of %s and %s overflows float64", op, a, b))
	}
	return Approx(r), nil
}
