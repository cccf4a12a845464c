// Package aim searches for a launch angle and power whose predicted path
// passes closest to a target point.
package aim

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/optimize"
)

// DefaultEvaluations bounds the number of previews a single Solve runs.
const DefaultEvaluations = 200

// Previewer predicts the path of a cat launched with the given aim.
type Previewer interface {
	PreviewAt(angle, power float64) []r2.Point
}

// Solution is a launch aim and how far its predicted path misses the target.
type Solution struct {
	Angle float64
	Power float64
	Miss  float64
}

// Solver runs a Nelder–Mead search over (angle, power).
type Solver struct {
	MinPower    float64
	MaxPower    float64
	Evaluations int
}

// Miss returns the closest approach of path to target.
func Miss(path []r2.Point, target r2.Point) float64 {
	best := math.Inf(1)
	for _, p := range path {
		if d := p.Sub(target).Norm(); d < best {
			best = d
		}
	}
	return best
}

// Solve returns the best aim found for target. The search starts from a shot
// aimed straight at the target at mid power.
func (s Solver) Solve(p Previewer, target, origin r2.Point) Solution {
	d := target.Sub(origin)
	return s.SolveFrom(p, target, math.Atan2(d.Y, d.X), (s.MinPower+s.MaxPower)/2)
}

// SolveFrom is Solve with an explicit starting aim.
func (s Solver) SolveFrom(p Previewer, target r2.Point, angle, power float64) Solution {
	evals := s.Evaluations
	if evals <= 0 {
		evals = DefaultEvaluations
	}

	best := s.evaluate(p, target, angle, power)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			sol := s.evaluate(p, target, x[0], x[1])
			if sol.Miss < best.Miss {
				best = sol
			}
			// Steer the simplex back inside the power range.
			return sol.Miss + s.powerPenalty(x[1])
		},
	}
	settings := &optimize.Settings{FuncEvaluations: evals}

	// The evaluation limit ends the search with an error status; best already
	// holds everything seen so far.
	_, _ = optimize.Minimize(problem, []float64{angle, power}, settings, &optimize.NelderMead{})

	best.Angle = normalizeAngle(best.Angle)
	return best
}

func (s Solver) evaluate(p Previewer, target r2.Point, angle, power float64) Solution {
	power = s.clampPower(power)
	return Solution{
		Angle: angle,
		Power: power,
		Miss:  Miss(p.PreviewAt(angle, power), target),
	}
}

func (s Solver) clampPower(power float64) float64 {
	return math.Max(s.MinPower, math.Min(power, s.MaxPower))
}

func (s Solver) powerPenalty(power float64) float64 {
	excess := power - s.clampPower(power)
	return math.Abs(excess)
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
