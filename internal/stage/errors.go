package stage

import "errors"

// ErrInvalidArgument is returned before any filesystem change when a required
// path or stream is missing.
var ErrInvalidArgument = errors.New("invalid argument")
