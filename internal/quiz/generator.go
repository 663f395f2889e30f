package quiz

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/af-corp/mathforge/internal/formula"
)

// Parameter ranges, inclusive.
const (
	arithmeticMin, arithmeticMax     = 1, 100
	algebraCoefMin, algebraCoefMax   = 1, 10
	algebraConstMin, algebraConstMax = -20, 20
	radiusMin, radiusMax             = 1, 20
)

var quizOperations = []formula.Operation{formula.OpAdd, formula.OpSubtract, formula.OpMultiply}

var operatorSymbols = map[formula.Operation]string{
	formula.OpAdd:      "+",
	formula.OpSubtract: "-",
	formula.OpMultiply: "×",
}

// Question is a generated quiz question as returned to clients.
type Question struct {
	Type       string `json:"type"`
	Question   string `json:"question"`
	AnswerID   string `json:"answer_id"`
	Difficulty string `json:"difficulty"`
	Unit       string `json:"unit,omitempty"`
}

// Generator draws random questions. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator. A zero seed draws from the runtime's
// random source; any other seed makes the sequence reproducible.
func NewGenerator(seed uint64) *Generator {
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
	return &Generator{rng: rand.New(src)}
}

// intn returns a uniform integer in [lo, hi]. Must be called with mu held.
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// RandomFamily picks a family uniformly.
func (g *Generator) RandomFamily() Family {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Families[g.rng.IntN(len(Families))]
}

// Generate draws a question of the given family along with its key.
func (g *Generator) Generate(family Family) (Question, Key, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var k Key
	switch family {
	case FamilyArithmetic:
		k = Key{
			Family: family,
			A:      g.intn(arithmeticMin, arithmeticMax),
			B:      g.intn(arithmeticMin, arithmeticMax),
			Op:     quizOperations[g.rng.IntN(len(quizOperations))],
		}
	case FamilyAlgebra:
		k = Key{
			Family: family,
			A:      g.intn(algebraCoefMin, algebraCoefMax),
			B:      g.intn(algebraConstMin, algebraConstMax),
		}
	case FamilyGeometry:
		k = Key{Family: family, Radius: g.intn(radiusMin, radiusMax)}
	default:
		_, err := ParseFamily(string(family))
		return Question{}, Key{}, err
	}
	return k.Question(), k, nil
}

// Question renders the client-facing question for the key.
func (k Key) Question() Question {
	q := Question{AnswerID: k.Encode()}
	switch k.Family {
	case FamilyArithmetic:
		q.Type = "arithmetic"
		q.Question = fmt.Sprintf("What is %d %s %d?", k.A, operatorSymbols[k.Op], k.B)
		q.Difficulty = "easy"
	case FamilyAlgebra:
		q.Type = "linear_equation"
		q.Question = fmt.Sprintf("Solve for x: %s = 0", linearExpr(k.A, k.B))
		q.Difficulty = "medium"
	case FamilyGeometry:
		q.Type = "geometry"
		q.Question = fmt.Sprintf("What is the area of a circle with radius %d?", k.Radius)
		q.Difficulty = "medium"
		q.Unit = "square units"
	}
	return q
}

func linearExpr(a, b int) string {
	switch {
	case b > 0:
		return fmt.Sprintf("%dx + %d", a, b)
	case b < 0:
		return fmt.Sprintf("%dx - %d", a, -b)
	default:
		return fmt.Sprintf("%dx", a)
	}
}
