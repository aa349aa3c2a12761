package calculator

import "math"

const (
	Circle    = "circle"
	Rectangle = "rectangle"
	Triangle  = "triangle"
	Pentagon  = "pentagon"
	Cube      = "cube"
	Sphere    = "sphere"
	Cylinder  = "cylinder"
)

// Geometry formulas let IEEE arithmetic run its course: solving for a side
// with a zero divisor yields Inf or NaN instead of a message. An unknown
// operation yields NaN.
func geometryDefinitions() []*Definition {
	return []*Definition{
		{
			ID: Circle,
			Inputs: []Field{
				num("radius", "area", "circumference", "diameter"),
				choice(modeField),
				num("area", "radius_from_area"),
				num("circumference", "radius_from_circumference"),
			},
			Compute: computeCircle,
		},
		{
			ID: Rectangle,
			Inputs: []Field{
				num("width", "area", "perimeter", "height"),
				num("height", "area", "perimeter", "width"),
				choice(modeField),
				num("area", "width", "height"),
			},
			Compute: computeRectangle,
		},
		{
			ID: Triangle,
			Inputs: []Field{
				num("base", "area", "height"),
				num("height", "area", "base"),
				choice(modeField),
				num("area", "height", "base"),
			},
			Compute: computeTriangle,
		},
		{
			ID:      Pentagon,
			Inputs:  []Field{num("side")},
			Compute: computePentagon,
		},
		{
			ID: Cube,
			Inputs: []Field{
				num("side", "volume"),
				choice(modeField),
				num("volume", "side"),
			},
			Compute: computeCube,
		},
		{
			ID: Sphere,
			Inputs: []Field{
				num("radius", "volume"),
				choice(modeField),
				num("volume", "radius"),
			},
			Compute: computeSphere,
		},
		{
			ID:      Cylinder,
			Inputs:  []Field{num("radius"), num("height")},
			Compute: computeCylinder,
		},
	}
}

func computeCircle(v Values) Result {
	r := v.Number("radius")
	switch v.Text(modeField) {
	case "area":
		return Scalar(Number(math.Pi * r * r))
	case "circumference":
		return Scalar(Number(2 * math.Pi * r))
	case "diameter":
		return Scalar(Number(2 * r))
	case "radius_from_area":
		return Scalar(Number(math.Sqrt(v.Number("area") / math.Pi)))
	case "radius_from_circumference":
		return Scalar(Number(v.Number("circumference") / (2 * math.Pi)))
	default:
		return Scalar(Number(math.NaN()))
	}
}

func computeRectangle(v Values) Result {
	w, h := v.Number("width"), v.Number("height")
	switch v.Text(modeField) {
	case "area":
		return Scalar(Number(w * h))
	case "perimeter":
		return Scalar(Number(2 * (w + h)))
	case "width":
		return Scalar(Number(v.Number("area") / h))
	case "height":
		return Scalar(Number(v.Number("area") / w))
	default:
		return Scalar(Number(math.NaN()))
	}
}

func computeTriangle(v Values) Result {
	b, h := v.Number("base"), v.Number("height")
	switch v.Text(modeField) {
	case "area":
		return Scalar(Number(0.5 * b * h))
	case "height":
		return Scalar(Number(2 * v.Number("area") / b))
	case "base":
		return Scalar(Number(2 * v.Number("area") / h))
	default:
		return Scalar(Number(math.NaN()))
	}
}

// pentagonFactor is ¼·√(5(5+2√5)), the area of a regular pentagon with unit side.
var pentagonFactor = 0.25 * math.Sqrt(5*(5+2*math.Sqrt(5)))

func computePentagon(v Values) Result {
	s := v.Number("side")
	return Scalar(Number(pentagonFactor * s * s))
}

func computeCube(v Values) Result {
	switch v.Text(modeField) {
	case "volume":
		return Scalar(Number(math.Pow(v.Number("side"), 3)))
	case "side":
		return Scalar(Number(math.Cbrt(v.Number("volume"))))
	default:
		return Scalar(Number(math.NaN()))
	}
}

func computeSphere(v Values) Result {
	switch v.Text(modeField) {
	case "volume":
		return Scalar(Number(4.0 / 3.0 * math.Pi * math.Pow(v.Number("radius"), 3)))
	case "radius":
		return Scalar(Number(math.Cbrt(3 * v.Number("volume") / (4 * math.Pi))))
	default:
		return Scalar(Number(math.NaN()))
	}
}

func computeCylinder(v Values) Result {
	r := v.Number("radius")
	return Scalar(Number(math.Pi * r * r * v.Number("height")))
}
