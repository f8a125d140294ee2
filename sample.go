package calculus

import (
	"errors"
	"fmt"
)

// ErrInvalidRange indicates a sampling interval that is empty, has no steps
// or has more than MaxSampleSteps.
var ErrInvalidRange = errors.New("invalid sampling range")

// MaxSampleSteps bounds the number of intervals one Sample call may request.
const MaxSampleSteps = 10000

// Point is f and f' at one x. Defined is false when either could not be
// evaluated there; Err holds the reason.
type Point struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Slope   float64 `json:"slope"`
	Defined bool    `json:"defined"`
	Err     string  `json:"error,omitempty"`
}

type Samples struct {
	Derivative string  `json:"derivative"`
	Points     []Point `json:"points"`
}

// Sample evaluates e and its simplified derivative at steps+1 evenly spaced
// points of [from, to]. Domain errors mark a point undefined instead of
// aborting, so a plotter can lift the pen over gaps.
func Sample(e *Expression, from, to float64, steps int) (Samples, error) {
	if steps <= 0 || steps > MaxSampleSteps || !(from < to) || !isFinite(from) || !isFinite(to) {
		return Samples{}, fmt.Errorf("%w: [%v, %v] in %d steps", ErrInvalidRange, from, to, steps)
	}
	d, err := e.Derivative()
	if err != nil {
		return Samples{}, err
	}

	width := (to - from) / float64(steps)
	out := Samples{Derivative: d.String(), Points: make([]Point, 0, steps+1)}
	for i := 0; i <= steps; i++ {
		x := from + float64(i)*width
		if i == steps {
			x = to
		}
		p := Point{X: x}
		y, err := e.Evaluate(x)
		if err == nil {
			p.Y = y
			p.Slope, err = d.Evaluate(x)
		}
		if err != nil {
			if !errors.Is(err, ErrEvaluation) && !errors.Is(err, ErrUnknownConstant) {
				return Samples{}, err
			}
			p.Y, p.Slope, p.Err = 0, 0, err.Error()
		} else {
			p.Defined = true
		}
		out.Points = append(out.Points, p)
	}
	return out, nil
}

// FirstWithin returns the first defined point whose y lies strictly between
// lo and hi.
func (s Samples) FirstWithin(lo, hi float64) (Point, bool) {
	for _, p := range s.Points {
		if p.Defined && lo < p.Y && p.Y < hi {
			return p, true
		}
	}
	return Point{}, false
}
