package apperr

import "errors"

var ErrUnavailable = errors.New("backend unavailable")
