package iso

import "fmt"

// LookupError reports that a path query required to match an element matched
// nothing.
type LookupError struct {
	Path string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no element matches %q", e.Path)
}
