package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var numberType = reflect.TypeFor[Number]()

// Number is a request field holding either a JSON number or a numeric
// string. The literal text is kept so exact arithmetic can parse "0.1" as
// 1/10 instead of the nearest float64.
type Number struct {
	raw string
}

// Num builds a Number from a literal, mostly for tests.
func Num(raw string) Number { return Number{raw: raw} }

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0:
		return &json.UnmarshalTypeError{Value: "empty", Type: numberType}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return &json.UnmarshalTypeError{Value: "empty string", Type: numberType}
		}
		n.raw = s
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		n.raw = string(b)
	default:
		return &json.UnmarshalTypeError{Value: jsonKind(b[0]), Type: numberType}
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if f, err := n.Float64(); err == nil {
		return json.Marshal(f)
	}
	return json.Marshal(n.raw)
}

// Raw returns the literal as received.
func (n Number) Raw() string { return n.raw }

// Float64 parses the literal as a finite float64.
func (n Number) Float64() (float64, error) {
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid number", n.raw)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%q is not a finite number", n.raw)
	}
	return f, nil
}

func jsonKind(c byte) string {
	switch c {
	case 't', 'f':
		return "boolean"
	case '[':
		return "array"
	case '{':
		return "object"
	default:
		return "value"
	}
}
