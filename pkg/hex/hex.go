// Package hex provides axial hex-grid coordinates and the six-fold
// rotation used for tile placement. Values here are engine-agnostic and
// appear unchanged in save files.
package hex

// Hex is an axial coordinate on a hex grid.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate (q + r + s == 0).
func (h Hex) S() int {
	return -h.Q - h.R
}

// Add returns the component-wise sum of two coordinates.
func (h Hex) Add(o Hex) Hex {
	return Hex{Q: h.Q + o.Q, R: h.R + o.R}
}

// Sub returns the component-wise difference of two coordinates.
func (h Hex) Sub(o Hex) Hex {
	return Hex{Q: h.Q - o.Q, R: h.R - o.R}
}

// directions lists the six neighbor offsets starting east, counter-clockwise.
var directions = [6]Hex{
	{Q: 1, R: 0}, {Q: 1, R: -1}, {Q: 0, R: -1},
	{Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1},
}

// Neighbors returns the six adjacent coordinates.
func (h Hex) Neighbors() [6]Hex {
	var out [6]Hex
	for i, d := range directions {
		out[i] = h.Add(d)
	}
	return out
}

// Distance returns the hex-grid distance between two coordinates.
func (h Hex) Distance(to Hex) int {
	dq := h.Q - to.Q
	dr := h.R - to.R
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// Less orders coordinates row-major (by R, then Q). Save files emit
// placements in this order so re-saves are byte-stable.
func (h Hex) Less(o Hex) bool {
	if h.R != o.R {
		return h.R < o.R
	}
	return h.Q < o.Q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
