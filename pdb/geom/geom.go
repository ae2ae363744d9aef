// Distances and the box test used before them.

package geom

import (
	"fmt"
	"math"

	"github.com/andrew-torda/pocketprob/pdb/cmmn"
)

// BoxSlack is how much a search box is inflated over the radius.
// Points sitting exactly on the sphere should not fall out of the box
// through rounding.
const BoxSlack = 1.01

type Error string

func (e Error) Error() string { return string(e) }

const ErrNotFinite = Error("coordinate is not finite")

// CoordError says which coordinate broke a calculation.
type CoordError struct {
	Xyz cmmn.Xyz
}

func (e *CoordError) Error() string {
	return fmt.Sprintf("%v: (%g, %g, %g)", ErrNotFinite, e.Xyz.X, e.Xyz.Y, e.Xyz.Z)
}

func (e *CoordError) Unwrap() error { return ErrNotFinite }

// Check returns a *CoordError if any component of x is NaN or infinite.
func Check(x cmmn.Xyz) error {
	if !x.Ok() {
		return &CoordError{Xyz: x}
	}
	return nil
}

// Dist2 is the squared distance. No checking.
func Dist2(x1, x2 cmmn.Xyz) float64 {
	dx, dy, dz := x1.X-x2.X, x1.Y-x2.Y, x1.Z-x2.Z
	return dx*dx + dy*dy + dz*dz
}

// Dist gets the distance between two points. If either is broken, the
// distance is meaningless and we return an error instead.
func Dist(x1, x2 cmmn.Xyz) (float64, error) {
	if err := Check(x1); err != nil {
		return math.NaN(), err
	}
	if err := Check(x2); err != nil {
		return math.NaN(), err
	}
	return math.Sqrt(Dist2(x1, x2)), nil
}

// InBox is true if p is within half on every axis of centre.
func InBox(centre, p cmmn.Xyz, half float64) bool {
	return math.Abs(p.X-centre.X) <= half &&
		math.Abs(p.Y-centre.Y) <= half &&
		math.Abs(p.Z-centre.Z) <= half
}

// HalfBox is the half width of the box which surely holds every point
// closer than radius.
func HalfBox(radius float64) float64 { return radius * BoxSlack }
