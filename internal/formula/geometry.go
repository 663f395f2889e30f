package formula

import (
	"fmt"
	"math"

	"github.com/af-corp/mathforge/internal/apperr"
)

// Shape names a supported geometric shape.
type Shape string

const (
	ShapeCircle    Shape = "circle"
	ShapeRectangle Shape = "rectangle"
	ShapeTriangle  Shape = "triangle"
	ShapeCube      Shape = "cube"
	ShapeSphere    Shape = "sphere"
)

type CircleMetrics struct {
	Shape         Shape   `json:"shape"`
	Radius        float64 `json:"radius"`
	Area          float64 `json:"area"`
	Circumference float64 `json:"circumference"`
	Diameter      float64 `json:"diameter"`
}

type RectangleMetrics struct {
	Shape     Shape   `json:"shape"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`
	Diagonal  float64 `json:"diagonal"`
}

type TriangleMetrics struct {
	Shape     Shape   `json:"shape"`
	Base      float64 `json:"base"`
	Height    float64 `json:"height"`
	SideA     float64 `json:"side_a"`
	SideB     float64 `json:"side_b"`
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`
}

type CubeMetrics struct {
	Shape         Shape   `json:"shape"`
	Side          float64 `json:"side"`
	Volume        float64 `json:"volume"`
	SurfaceArea   float64 `json:"surface_area"`
	SpaceDiagonal float64 `json:"space_diagonal"`
}

type SphereMetrics struct {
	Shape       Shape   `json:"shape"`
	Radius      float64 `json:"radius"`
	Volume      float64 `json:"volume"`
	SurfaceArea float64 `json:"surface_area"`
}

// positive fails with ErrInvalidDimension unless v > 0. NaN is rejected too.
func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return apperr.Domain(ErrInvalidDimension.Code,
			fmt.Sprintf("%s must be a positive number, got %s", name, FormatNumber(v)))
	}
	return nil
}

// finite fails with ErrNonFiniteResult when a derived metric overflowed.
func finite(subject string, values ...float64) error {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return apperr.Domain(ErrNonFiniteResult.Code,
				subject+" values are too large to compute")
		}
	}
	return nil
}

func Circle(radius float64) (CircleMetrics, error) {
	if err := positive("radius", radius); err != nil {
		return CircleMetrics{}, err
	}
	m := CircleMetrics{
		Shape:         ShapeCircle,
		Radius:        radius,
		Area:          round6(math.Pi * radius * radius),
		Circumference: round6(2 * math.Pi * radius),
		Diameter:      round6(2 * radius),
	}
	if err := finite(string(m.Shape), m.Area, m.Circumference, m.Diameter); err != nil {
		return CircleMetrics{}, err
	}
	return m, nil
}

func Rectangle(length, width float64) (RectangleMetrics, error) {
	if err := positive("length", length); err != nil {
		return RectangleMetrics{}, err
	}
	if err := positive("width", width); err != nil {
		return RectangleMetrics{}, err
	}
	m := RectangleMetrics{
		Shape:     ShapeRectangle,
		Length:    length,
		Width:     width,
		Area:      round6(length * width),
		Perimeter: round6(2 * (length + width)),
		Diagonal:  round6(math.Hypot(length, width)),
	}
	if err := finite(string(m.Shape), m.Area, m.Perimeter, m.Diagonal); err != nil {
		return RectangleMetrics{}, err
	}
	return m, nil
}

// Triangle computes area from base and height, and perimeter from base and
// the two remaining sides. A nil side defaults to the base.
func Triangle(base, height float64, sideA, sideB *float64) (TriangleMetrics, error) {
	if err := positive("base", base); err != nil {
		return TriangleMetrics{}, err
	}
	if err := positive("height", height); err != nil {
		return TriangleMetrics{}, err
	}
	a, b := base, base
	if sideA != nil {
		a = *sideA
	}
	if sideB != nil {
		b = *sideB
	}
	if err := positive("side_a", a); err != nil {
		return TriangleMetrics{}, err
	}
	if err := positive("side_b", b); err != nil {
		return TriangleMetrics{}, err
	}
	m := TriangleMetrics{
		Shape:     ShapeTriangle,
		Base:      base,
		Height:    height,
		SideA:     a,
		SideB:     b,
		Area:      round6(0.5 * base * height),
		Perimeter: round6(base + a + b),
	}
	if err := finite(string(m.Shape), m.Area, m.Perimeter); err != nil {
		return TriangleMetrics{}, err
	}
	return m, nil
}

func Cube(side float64) (CubeMetrics, error) {
	if err := positive("side", side); err != nil {
		return CubeMetrics{}, err
	}
	m := CubeMetrics{
		Shape:         ShapeCube,
		Side:          side,
		Volume:        round6(side * side * side),
		SurfaceArea:   round6(6 * side * side),
		SpaceDiagonal: round6(side * math.Sqrt(3)),
	}
	if err := finite(string(m.Shape), m.Volume, m.SurfaceArea, m.SpaceDiagonal); err != nil {
		return CubeMetrics{}, err
	}
	return m, nil
}

func Sphere(radius float64) (SphereMetrics, error) {
	if err := positive("radius", radius); err != nil {
		return SphereMetrics{}, err
	}
	m := SphereMetrics{
		Shape:       ShapeSphere,
		Radius:      radius,
		Volume:      round6(4.0 / 3.0 * math.Pi * radius * radius * radius),
		SurfaceArea: round6(4 * math.Pi * radius * radius),
	}
	if err := finite(string(m.Shape), m.Volume, m.SurfaceArea); err != nil {
		return SphereMetrics{}, err
	}
	return m, nil
}
