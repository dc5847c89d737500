package application

import "errors"

// ErrUnknownComponent is returned when a component name is not managed by the application.
var ErrUnknownComponent = errors.New("unknown component")
