package format

import "fmt"

// Violation describes one structural invariant broken by a format
// value. Validation returns a list so callers decide severity; a
// violation is not an error by itself.
type Violation struct {
	Field string
	Msg   string
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Msg
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Msg)
}
