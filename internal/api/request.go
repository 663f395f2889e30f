package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/af-corp/mathforge/internal/apperr"
	"github.com/af-corp/mathforge/internal/formula"
)

var (
	ErrInvalidBody   = apperr.Validation("invalid_body", "Request body must be a JSON object")
	ErrBodyTooLarge  = apperr.Validation("body_too_large", "Request body is too large")
	ErrMissingField  = apperr.Validation("missing_field", "Missing required fields")
	ErrInvalidField  = apperr.Validation("invalid_field", "Invalid field")
	ErrInvalidParam  = apperr.Validation("invalid_parameter", "Invalid query parameter")
	errEmptyDataset  = apperr.Domain(formula.ErrInvalidDataset.Code, "Invalid dataset. Provide a non-empty array of numbers.")
	errNestedDataset = apperr.Domain(formula.ErrInvalidDataset.Code, "Invalid dataset. Provide a flat array of numbers.")
)

// validator is implemented by every request body.
type validator interface {
	Validate() error
}

// decodeBody reads at most limit bytes, decodes them into dst and runs its
// validation. The raw body is returned for the audit log.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, dst validator) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.Validation(ErrBodyTooLarge.Code,
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		}
		return nil, apperr.Validation(ErrInvalidBody.Code, "Failed to read request body")
	}
	defer r.Body.Close()

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, apperr.Validation(ErrInvalidBody.Code, "Request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, decodeError(err)
	}
	if err := dst.Validate(); err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return ErrInvalidBody
		}
		return apperr.Validation(ErrInvalidField.Code,
			fmt.Sprintf("Field '%s' must be %s", typeErr.Field, describe(typeErr.Type)))
	}
	return apperr.Validation(ErrInvalidBody.Code, "Invalid JSON: "+err.Error())
}

func describe(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == numberType {
		return "a number"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "a valid value"
	}
}

func missing(fields ...string) error {
	return apperr.Validation(ErrMissingField.Code,
		"Missing required fields: "+strings.Join(fields, ", "))
}

// require reports every absent field by name, in declaration order.
func require(fields ...namedField) error {
	var absent []string
	for _, f := range fields {
		if f.n == nil {
			absent = append(absent, f.name)
		}
	}
	if len(absent) > 0 {
		return missing(absent...)
	}
	return nil
}

type namedField struct {
	name string
	n    *Number
}

func field(name string, n *Number) namedField { return namedField{name, n} }

// optionalFloat parses an optional field, defaulting to 0 when absent.
func optionalFloat(name string, n *Number) (float64, error) {
	if n == nil {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, apperr.Validation(ErrInvalidField.Code, fmt.Sprintf("Field '%s': %v", name, err))
	}
	return f, nil
}

type arithmeticRequest struct {
	Operation *string `json:"operation"`
	A         *Number `json:"a"`
	B         *Number `json:"b"`
	Fractions bool    `json:"fractions"`

	a, b formula.Operand
}

func (req *arithmeticRequest) Validate() error {
	var absent []string
	if req.Operation == nil {
		absent = append(absent, "operation")
	}
	if req.A == nil {
		absent = append(absent, "a")
	}
	if req.B == nil {
		absent = append(absent, "b")
	}
	if len(absent) > 0 {
		return missing(absent...)
	}

	var err error
	if req.a, err = req.operand("a", req.A); err != nil {
		return err
	}
	req.b, err = req.operand("b", req.B)
	return err
}

// operand parses n in the representation selected by Fractions.
func (req *arithmeticRequest) operand(name string, n *Number) (formula.Operand, error) {
	if req.Fractions {
		e, err := formula.ParseExact(n.Raw())
		if err != nil {
			var ae *apperr.Error
			if errors.As(err, &ae) {
				return nil, apperr.Validation(ae.Code, fmt.Sprintf("Field '%s': %s", name, ae.Message))
			}
			return nil, err
		}
		return e, nil
	}
	f, err := optionalFloat(name, n)
	if err != nil {
		return nil, err
	}
	return formula.Approx(f), nil
}

type linearRequest struct {
	A     *Number `json:"a"`
	B     *Number `json:"b"`
	Steps bool    `json:"steps"`

	a, b float64
}

func (req *linearRequest) Validate() error {
	if err := require(field("a", req.A)); err != nil {
		return err
	}
	var err error
	if req.a, err = optionalFloat("a", req.A); err != nil {
		return err
	}
	req.b, err = optionalFloat("b", req.B)
	return err
}

type quadraticRequest struct {
	A     *Number `json:"a"`
	B     *Number `json:"b"`
	C     *Number `json:"c"`
	Steps bool    `json:"steps"`

	a, b, c float64
}

func (req *quadraticRequest) Validate() error {
	if err := require(field("a", req.A)); err != nil {
		return err
	}
	var err error
	if req.a, err = optionalFloat("a", req.A); err != nil {
		return err
	}
	if req.b, err = optionalFloat("b", req.B); err != nil {
		return err
	}
	req.c, err = optionalFloat("c", req.C)
	return err
}

// geometryRequest carries the dimensions of every shape; which ones are
// required depends on the shape in the route.
type geometryRequest struct {
	Radius *Number `json:"radius"`
	Length *Number `json:"length"`
	Width  *Number `json:"width"`
	Base   *Number `json:"base"`
	Height *Number `json:"height"`
	SideA  *Number `json:"side_a"`
	SideB  *Number `json:"side_b"`
	Side   *Number `json:"side"`

	shape formula.Shape
	dims  map[string]float64
}

func (req *geometryRequest) fields() []namedField {
	switch req.shape {
	case formula.ShapeCircle, formula.ShapeSphere:
		return []namedField{field("radius", req.Radius)}
	case formula.ShapeRectangle:
		return []namedField{field("length", req.Length), field("width", req.Width)}
	case formula.ShapeTriangle:
		return []namedField{field("base", req.Base), field("height", req.Height)}
	case formula.ShapeCube:
		return []namedField{field("side", req.Side)}
	}
	return nil
}

func (req *geometryRequest) Validate() error {
	required := req.fields()
	if err := require(required...); err != nil {
		return err
	}
	if req.shape == formula.ShapeTriangle {
		required = append(required, field("side_a", req.SideA), field("side_b", req.SideB))
	}

	req.dims = make(map[string]float64, len(required))
	for _, f := range required {
		if f.n == nil {
			continue
		}
		v, err := optionalFloat(f.name, f.n)
		if err != nil {
			return err
		}
		req.dims[f.name] = v
	}
	return nil
}

// optional returns a pointer to the named dimension when it was supplied.
func (req *geometryRequest) optional(name string) *float64 {
	if v, ok := req.dims[name]; ok {
		return &v
	}
	return nil
}

type statisticsRequest struct {
	Data json.RawMessage `json:"data"`

	values []float64
}

func (req *statisticsRequest) Validate() error {
	if len(req.Data) == 0 || string(req.Data) == "null" {
		return missing("data")
	}
	var nums []Number
	if err := json.Unmarshal(req.Data, &nums); err != nil {
		return errNestedDataset
	}
	if len(nums) == 0 {
		return errEmptyDataset
	}
	req.values = make([]float64, len(nums))
	for i, n := range nums {
		f, err := n.Float64()
		if err != nil {
			return apperr.Domain(formula.ErrInvalidDataset.Code,
				fmt.Sprintf("Invalid dataset value at index %d: %v", i, err))
		}
		req.values[i] = f
	}
	return nil
}

type quizValidateRequest struct {
	AnswerID *string `json:"answer_id"`
	Answer   *Number `json:"answer"`

	answer float64
}

func (req *quizValidateRequest) Validate() error {
	var absent []string
	if req.AnswerID == nil {
		absent = append(absent, "answer_id")
	}
	if req.Answer == nil {
		absent = append(absent, "answer")
	}
	if len(absent) > 0 {
		return missing(absent...)
	}
	var err error
	req.answer, err = optionalFloat("answer", req.Answer)
	return err
}
