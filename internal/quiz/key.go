package quiz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/af-corp/mathforge/internal/apperr"
	"github.com/af-corp/mathforge/internal/formula"
)

// Family is a quiz question family.
type Family string

const (
	FamilyArithmetic Family = "arithmetic"
	FamilyAlgebra    Family = "algebra"
	FamilyGeometry   Family = "geometry"
)

// Families lists every family in the order used for random selection.
var Families = []Family{FamilyArithmetic, FamilyAlgebra, FamilyGeometry}

var (
	ErrInvalidQuizType  = apperr.Domain("invalid_quiz_type", "Invalid quiz type")
	ErrInvalidAnswerKey = apperr.Domain("invalid_answer_key", "Invalid answer_id")
)

// ParseFamily validates a family name.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if string(f) == s {
			return f, nil
		}
	}
	return "", apperr.Domain(ErrInvalidQuizType.Code,
		fmt.Sprintf("Invalid quiz type %q. Choose from: arithmetic, algebra, geometry", s))
}

const (
	keyVersion   = "v1"
	keySeparator = ":"

	// Keys issued before versioning joined fields with '_' and named the
	// geometry family after its only shape.
	legacySeparator = "_"
	legacyCircle    = "circle"

	// maxParam bounds decoded parameters so products stay exact.
	maxParam = 1_000_000
)

// Key carries everything needed to recompute a question's answer. Only the
// fields relevant to Family are meaningful: Arithmetic uses A, B and Op;
// Algebra uses A (coefficient) and B (constant); Geometry uses Radius.
type Key struct {
	Family Family
	A      int
	B      int
	Op     formula.Operation
	Radius int
}

// Encode renders the key in the v1 format, e.g. "v1:arithmetic:12:7:add".
func (k Key) Encode() string {
	parts := []string{keyVersion, string(k.Family)}
	switch k.Family {
	case FamilyArithmetic:
		parts = append(parts, strconv.Itoa(k.A), strconv.Itoa(k.B), string(k.Op))
	case FamilyAlgebra:
		parts = append(parts, strconv.Itoa(k.A), strconv.Itoa(k.B))
	case FamilyGeometry:
		parts = append(parts, strconv.Itoa(k.Radius))
	}
	return strings.Join(parts, keySeparator)
}

// DecodeKey parses a v1 key or a legacy unversioned key.
func DecodeKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, invalidKey(s, "empty")
	}

	var family string
	var params []string
	if strings.Contains(s, keySeparator) {
		parts := strings.Split(s, keySeparator)
		if parts[0] != keyVersion {
			return Key{}, invalidKey(s, "unsupported version "+strconv.Quote(parts[0]))
		}
		if len(parts) < 2 {
			return Key{}, invalidKey(s, "missing family")
		}
		family, params = parts[1], parts[2:]
	} else {
		parts := strings.Split(s, legacySeparator)
		family, params = parts[0], parts[1:]
		if family == legacyCircle {
			family = string(FamilyGeometry)
		}
	}

	k := Key{Family: Family(family)}
	switch k.Family {
	case FamilyArithmetic:
		if len(params) != 3 {
			return Key{}, invalidKey(s, "arithmetic keys take 3 parameters")
		}
		a, b, err := parseInts(params[0], params[1])
		if err != nil {
			return Key{}, invalidKey(s, err.Error())
		}
		op := formula.Operation(params[2])
		if !quizOperation(op) {
			return Key{}, invalidKey(s, "unsupported operation "+strconv.Quote(params[2]))
		}
		k.A, k.B, k.Op = a, b, op
	case FamilyAlgebra:
		if len(params) != 2 {
			return Key{}, invalidKey(s, "algebra keys take 2 parameters")
		}
		a, b, err := parseInts(params[0], params[1])
		if err != nil {
			return Key{}, invalidKey(s, err.Error())
		}
		if a == 0 {
			return Key{}, invalidKey(s, "coefficient cannot be zero")
		}
		k.A, k.B = a, b
	case FamilyGeometry:
		if len(params) != 1 {
			return Key{}, invalidKey(s, "geometry keys take 1 parameter")
		}
		r, err := parseInt(params[0])
		if err != nil {
			return Key{}, invalidKey(s, err.Error())
		}
		if r <= 0 {
			return Key{}, invalidKey(s, "radius must be positive")
		}
		k.Radius = r
	default:
		return Key{}, invalidKey(s, "unknown family "+strconv.Quote(family))
	}
	return k, nil
}

// Answer recomputes the correct answer for the key.
func (k Key) Answer() float64 {
	switch k.Family {
	case FamilyArithmetic:
		switch k.Op {
		case formula.OpAdd:
			return float64(k.A + k.B)
		case formula.OpSubtract:
			return float64(k.A - k.B)
		case formula.OpMultiply:
			return float64(k.A * k.B)
		}
	case FamilyAlgebra:
		return -float64(k.B) / float64(k.A)
	case FamilyGeometry:
		r := float64(k.Radius)
		return formula.Round(math.Pi*r*r, 2)
	}
	return 0
}

func quizOperation(op formula.Operation) bool {
	return op == formula.OpAdd || op == formula.OpSubtract || op == formula.OpMultiply
}

func parseInts(a, b string) (int, int, error) {
	x, err := parseInt(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := parseInt(b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parameter %q is not an integer", s)
	}
	if n > maxParam || n < -maxParam {
		return 0, fmt.Errorf("parameter %q is out of range", s)
	}
	return n, nil
}

func invalidKey(key, reason string) error {
	return apperr.Domain(ErrInvalidAnswerKey.Code, fmt.Sprintf("Invalid answer_id %q: %s", key, reason))
}
