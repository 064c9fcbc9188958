package hex

import "math"

// Rotation is a tile rotation in 60° clockwise steps. Valid values are
// 0 through 5; the zero value means unrotated.
type Rotation int

const (
	RotationNone Rotation = iota
	RotationClockwise60
	RotationClockwise120
	RotationClockwise180
	RotationCounterClockwise120
	RotationCounterClockwise60

	rotationSteps = 6
)

// Valid reports whether r is within the six-fold symmetry range.
func (r Rotation) Valid() bool {
	return r >= 0 && r < rotationSteps
}

// Clockwise returns the next rotation step clockwise.
func (r Rotation) Clockwise() Rotation {
	return (r + 1) % rotationSteps
}

// CounterClockwise returns the next rotation step counter-clockwise.
func (r Rotation) CounterClockwise() Rotation {
	return (r + rotationSteps - 1) % rotationSteps
}

// Radians returns the rotation angle in radians, clockwise positive.
func (r Rotation) Radians() float64 {
	return 2 * math.Pi * float64(r) / rotationSteps
}
