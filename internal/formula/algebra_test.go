package formula

import (
	"errors"
	"math"
	"testing"
)

func TestSolveLinear(t *testing.T) {
	tests := []struct {
		a, b float64
		want float64
	}{
		{2, 4, -2},
		{3, -9, 3},
		{-4, 2, 0.5},
		{7, 0, 0},
		{3, 1, -0.333333},
	}

	for _, tt := range tests {
		got, err := SolveLinear(tt.a, tt.b)
		if err != nil {
			t.Fatalf("SolveLinear(%v, %v): %v", tt.a, tt.b, err)
		}
		if got.X != tt.want {
			t.Errorf("SolveLinear(%v, %v).X = %v, want %v", tt.a, tt.b, got.X, tt.want)
		}
		if math.Signbit(got.X) && got.X == 0 {
			t.Errorf("SolveLinear(%v, %v) returned negative zero", tt.a, tt.b)
		}
	}
}

func TestSolveLinear_Residual(t *testing.T) {
	for a := -5.0; a <= 5; a += 0.5 {
		if a == 0 {
			continue
		}
		for b := -10.0; b <= 10; b += 1.25 {
			got, err := SolveLinear(a, b)
			if err != nil {
				t.Fatalf("SolveLinear(%v, %v): %v", a, b, err)
			}
			// Rounding to 6 places perturbs x by at most 5e-7.
			if r := math.Abs(a*got.X + b); r > 1e-6*math.Max(1, math.Abs(a)) {
				t.Errorf("SolveLinear(%v, %v): residual %v too large", a, b, r)
			}
		}
	}
}

func TestSolveLinear_Steps(t *testing.T) {
	got, err := SolveLinear(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"Given: 2x + 4 = 0",
		"Step 1: 2x = -4",
		"Step 2: x = -4 / 2",
		"Solution: x = -2",
	}
	if got.Equation != "2x + 4 = 0" {
		t.Errorf("unexpected equation %q", got.Equation)
	}
	if len(got.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(got.Steps))
	}
	for i := range want {
		if got.Steps[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, got.Steps[i], want[i])
		}
	}
}

func TestSolveLinear_ZeroCoefficient(t *testing.T) {
	if _, err := SolveLinear(0, 5); !errors.Is(err, ErrInvalidCoefficient) {
		t.Errorf("expected ErrInvalidCoefficient, got %v", err)
	}
}

func TestSolveQuadratic_Branches(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		kind    RootKind
		roots   []float64
		re, im  float64
		disc    float64
	}{
		{"two real", 1, -3, 2, TwoReal, []float64{2, 1}, 0, 0, 1},
		{"one real", 1, 2, 1, OneReal, []float64{-1}, 0, 0, 0},
		{"complex", 1, 2, 5, Complex, nil, -1, 2, -16},
		{"negative leading", -1, 0, 4, TwoReal, []float64{-2, 2}, 0, 0, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := SolveQuadratic(tt.a, tt.b, tt.c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", q.Kind, tt.kind)
			}
			if q.Discriminant != tt.disc {
				t.Errorf("discriminant = %v, want %v", q.Discriminant, tt.disc)
			}
			if len(q.Roots) != len(tt.roots) {
				t.Fatalf("roots = %v, want %v", q.Roots, tt.roots)
			}
			for i := range tt.roots {
				if q.Roots[i] != tt.roots[i] {
					t.Errorf("root %d = %v, want %v", i, q.Roots[i], tt.roots[i])
				}
			}
			if q.Real != tt.re || q.Imaginary != tt.im {
				t.Errorf("complex parts = (%v, %v), want (%v, %v)", q.Real, q.Imaginary, tt.re, tt.im)
			}
		})
	}
}

func TestSolveQuadratic_ResidualAndBranch(t *testing.T) {
	for a := -3.0; a <= 3; a += 1.5 {
		if a == 0 {
			continue
		}
		for b := -4.0; b <= 4; b++ {
			for c := -4.0; c <= 4; c++ {
				q, err := SolveQuadratic(a, b, c)
				if err != nil {
					t.Fatalf("SolveQuadratic(%v, %v, %v): %v", a, b, c, err)
				}
				d := b*b - 4*a*c
				var want RootKind
				switch {
				case d > 0:
					want = TwoReal
				case d == 0:
					want = OneReal
				default:
					want = Complex
				}
				if q.Kind != want {
					t.Errorf("SolveQuadratic(%v, %v, %v) kind %s, want %s", a, b, c, q.Kind, want)
				}
				for _, x := range q.Roots {
					if r := math.Abs(a*x*x + b*x + c); r > 1e-4 {
						t.Errorf("SolveQuadratic(%v, %v, %v): root %v residual %v", a, b, c, x, r)
					}
				}
				if q.Kind == Complex {
					// Real part of a·z² + b·z + c for z = re + im·i.
					re, im := q.Real, q.Imaginary
					realPart := a*(re*re-im*im) + b*re + c
					imagPart := 2*a*re*im + b*im
					if math.Abs(realPart) > 1e-4 || math.Abs(imagPart) > 1e-4 {
						t.Errorf("SolveQuadratic(%v, %v, %v): complex residual (%v, %v)", a, b, c, realPart, imagPart)
					}
				}
			}
		}
	}
}

func TestSolveQuadratic_StepsUseRoundedValues(t *testing.T) {
	q, err := SolveQuadratic(3, 1, -1)
	if err != nil {
		t.Fatal(err)
	}
	if q.Discriminant != 13 {
		t.Fatalf("discriminant = %v, want 13", q.Discriminant)
	}
	want := "x₁ = (-1 + √13) / 6 = " + FormatNumber(q.Roots[0])
	if q.Steps[3] != want {
		t.Errorf("step = %q, want %q", q.Steps[3], want)
	}
}

func TestSolveQuadratic_ComplexSteps(t *testing.T) {
	q, err := SolveQuadratic(1, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	if q.Steps[3] != "x₁ = -1 + 2i" || q.Steps[4] != "x₂ = -1 - 2i" {
		t.Errorf("unexpected complex steps: %q, %q", q.Steps[3], q.Steps[4])
	}
}

func TestSolveQuadratic_ZeroCoefficient(t *testing.T) {
	if _, err := SolveQuadratic(0, 2, 1); !errors.Is(err, ErrInvalidCoefficient) {
		t.Errorf("expected ErrInvalidCoefficient, got %v", err)
	}
}

func TestComplexString(t *testing.T) {
	if got := ComplexString(1.5, -0.5); got != "1.5 - 0.5i" {
		t.Errorf("ComplexString(1.5, -0.5) = %q", got)
	}
	if got := ComplexString(0, 2); got != "0 + 2i" {
		t.Errorf("ComplexString(0, 2) = %q", got)
	}
}

func TestSolvers_RootOverflow(t *testing.T) {
	if _, err := SolveLinear(1e-300, 1e10); !errors.Is(err, ErrNonFiniteResult) {
		t.Errorf("SolveLinear: expected ErrNonFiniteResult, got %v", err)
	}
	// x1 is 0 but x2 = -b/a overflows.
	if _, err := SolveQuadratic(1e-300, 1e10, 0); !errors.Is(err, ErrNonFiniteResult) {
		t.Errorf("SolveQuadratic: expected ErrNonFiniteResult, got %v", err)
	}
	if _, err := SolveQuadratic(-1e-300, 1e10, 0); !errors.Is(err, ErrNonFiniteResult) {
		t.Errorf("SolveQuadratic negative a: expected ErrNonFiniteResult, got %v", err)
	}
}
