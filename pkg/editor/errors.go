package editor

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration reports options that cannot be translated, such as
// a collection with both flat values and choices, or an option value of the
// wrong type in a decoded map.
var ErrInvalidConfiguration = errors.New("editor: invalid configuration")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
