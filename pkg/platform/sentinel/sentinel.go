package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and clients return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: row does not exist, or is soft-deleted where the query
//     excludes deleted rows
//   - ErrConflict: a uniqueness rule over active rows was violated
//   - ErrUnavailable: a dependency (user directory, broker) cannot be reached
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
