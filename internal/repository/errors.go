package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Callers test with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrCorrupt is returned when a persisted record cannot be decoded.
// The engine treats a corrupt record as absent rather than failing
// startup.
var ErrCorrupt = errors.New("corrupt record")
