package quiz

import (
	"math"

	"github.com/af-corp/mathforge/internal/formula"
)

// Tolerance is the absolute error accepted for a submitted answer.
const Tolerance = 0.01

const (
	msgCorrect   = "Correct! Well done!"
	msgIncorrect = "Incorrect. Try again!"
)

// Verdict is the outcome of checking a submitted answer.
type Verdict struct {
	Correct       bool    `json:"correct"`
	UserAnswer    float64 `json:"user_answer"`
	CorrectAnswer float64 `json:"correct_answer"`
	Message       string  `json:"message"`
	Family        Family  `json:"-"`
}

// Check recomputes the answer from the key alone and compares the user's
// answer to it.
func Check(answerID string, answer float64) (Verdict, error) {
	k, err := DecodeKey(answerID)
	if err != nil {
		return Verdict{}, err
	}
	correct := k.Answer()
	ok := math.Abs(answer-correct) < Tolerance

	v := Verdict{
		Correct:       ok,
		UserAnswer:    answer,
		CorrectAnswer: formula.Round(correct, formula.DisplayPlaces),
		Message:       msgIncorrect,
		Family:        k.Family,
	}
	if ok {
		v.Message = msgCorrect
	}
	return v, nil
}
