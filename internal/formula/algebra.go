package formula

import (
	"fmt"
	"math"

	"github.com/af-corp/mathforge/internal/apperr"
)

// Linear is the solution of a·x + b = 0.
type Linear struct {
	Equation string
	X        float64
	Steps    []string
}

// SolveLinear solves a·x + b = 0. a must be nonzero.
func SolveLinear(a, b float64) (Linear, error) {
	if a == 0 {
		return Linear{}, apperr.Domain(ErrInvalidCoefficient.Code, "Coefficient 'a' cannot be zero")
	}
	x := round6(-b / a)
	if err := finite("solution", x); err != nil {
		return Linear{}, err
	}
	eq := fmt.Sprintf("%sx + %s = 0", FormatNumber(a), FormatNumber(b))
	return Linear{
		Equation: eq,
		X:        x,
		Steps: []string{
			"Given: " + eq,
			fmt.Sprintf("Step 1: %sx = %s", FormatNumber(a), FormatNumber(-b)),
			fmt.Sprintf("Step 2: x = %s / %s", FormatNumber(-b), FormatNumber(a)),
			fmt.Sprintf("Solution: x = %s", FormatNumber(x)),
		},
	}, nil
}

// RootKind tags the shape of a quadratic's solution set.
type RootKind string

const (
	TwoReal RootKind = "two_real"
	OneReal RootKind = "one_real"
	Complex RootKind = "complex"
)

// Quadratic is the solution of a·x² + b·x + c = 0. Roots holds x1, x2 for
// TwoReal and the single root for OneReal. For Complex, Real and Imaginary
// describe the conjugate pair Real ± Imaginary·i.
type Quadratic struct {
	Equation     string
	Discriminant float64
	Kind         RootKind
	Roots        []float64
	Real         float64
	Imaginary    float64
	Steps        []string
}

// SolveQuadratic solves a·x² + b·x + c = 0. a must be nonzero. The branch is
// chosen on the unrounded discriminant; every reported value is rounded.
func SolveQuadratic(a, b, c float64) (Quadratic, error) {
	if a == 0 {
		return Quadratic{}, apperr.Domain(ErrInvalidCoefficient.Code, "Coefficient 'a' cannot be zero")
	}

	d := b*b - 4*a*c
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return Quadratic{}, apperr.Domain(ErrNonFiniteResult.Code, "Discriminant overflows float64")
	}

	eq := fmt.Sprintf("%sx² + %sx + %s = 0", FormatNumber(a), FormatNumber(b), FormatNumber(c))
	q := Quadratic{
		Equation:     eq,
		Discriminant: round6(d),
	}
	given := "Given: " + eq
	twoA := 2 * a

	switch {
	case d > 0:
		sq := math.Sqrt(d)
		x1 := round6((-b + sq) / twoA)
		x2 := round6((-b - sq) / twoA)
		q.Kind = TwoReal
		q.Roots = []float64{x1, x2}
		q.Steps = []string{
			given,
			fmt.Sprintf("Discriminant: Δ = b² - 4ac = %s", FormatNumber(q.Discriminant)),
			"x = (-b ± √Δ) / 2a",
			fmt.Sprintf("x₁ = (%s + √%s) / %s = %s", FormatNumber(-b), FormatNumber(q.Discriminant), FormatNumber(twoA), FormatNumber(x1)),
			fmt.Sprintf("x₂ = (%s - √%s) / %s = %s", FormatNumber(-b), FormatNumber(q.Discriminant), FormatNumber(twoA), FormatNumber(x2)),
		}
	case d == 0:
		x := round6(-b / twoA)
		q.Kind = OneReal
		q.Roots = []float64{x}
		q.Steps = []string{
			given,
			"Discriminant: Δ = 0 (one solution)",
			fmt.Sprintf("x = -b / 2a = %s / %s = %s", FormatNumber(-b), FormatNumber(twoA), FormatNumber(x)),
		}
	default:
		q.Kind = Complex
		q.Real = round6(-b / twoA)
		q.Imaginary = round6(math.Sqrt(-d) / twoA)
		q.Steps = []string{
			given,
			fmt.Sprintf("Discriminant: Δ = %s (complex roots)", FormatNumber(q.Discriminant)),
			"x = (-b ± i√|Δ|) / 2a",
			"x₁ = " + ComplexString(q.Real, q.Imaginary),
			"x₂ = " + ComplexString(q.Real, -q.Imaginary),
		}
	}
	if err := finite("solution", append([]float64{q.Real, q.Imaginary}, q.Roots...)...); err != nil {
		return Quadratic{}, err
	}
	return q, nil
}

// ComplexString renders re + im·i, folding a negative imaginary part into
// the operator.
func ComplexString(re, im float64) string {
	if im < 0 {
		return fmt.Sprintf("%s - %si", FormatNumber(re), FormatNumber(-im))
	}
	return fmt.Sprintf("%s + %si", FormatNumber(re), FormatNumber(im))
}
