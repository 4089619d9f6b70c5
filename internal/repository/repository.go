package repository

import "errors"

// ErrRunNotFound is returned when no run has the requested ID
var ErrRunNotFound = errors.New("run not found")

// DefaultListLimit caps ListRuns when no positive limit is given
const DefaultListLimit = 50
