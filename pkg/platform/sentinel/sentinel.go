package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Sources and the controller return
// these (optionally wrapped) so transport layers can translate them into
// status codes with errors.Is.
//
// These represent factual states about the catalog, not validation failures:
// - ErrNotFound: no record can satisfy the request
// - ErrUnavailable: the controller or a backing source cannot serve
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
