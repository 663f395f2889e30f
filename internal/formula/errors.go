package formula

import "github.com/af-corp/mathforge/internal/apperr"

// Sentinels for errors.Is. Functions return fresh errors carrying the same
// code with a more specific message.
var (
	ErrInvalidOperation   = apperr.Domain("invalid_operation", "Invalid operation")
	ErrDivisionByZero     = apperr.Domain("division_by_zero", "Division by zero")
	ErrMixedOperands      = apperr.Domain("mixed_operands", "Operands must share one representation")
	ErrNonFiniteResult    = apperr.Domain("non_finite_result", "Result is not a finite number")
	ErrInvalidOperand     = apperr.Validation("invalid_operand", "Invalid operand")
	ErrInvalidCoefficient = apperr.Domain("invalid_coefficient", "Invalid coefficient")
	ErrInvalidDimension   = apperr.Domain("invalid_dimension", "Invalid dimension")
	ErrInvalidDataset     = apperr.Domain("invalid_dataset", "Invalid dataset")
)
