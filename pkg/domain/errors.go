package domain

import "errors"

// Sentinel errors shared across services, repositories and the HTTP layer.
// Handlers map these to status codes in webapi/common.
var (
	// ErrInvalidRequest indicates malformed or missing input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates a missing Authorization header.
	ErrUnauthorized = errors.New("authorization required")
	// ErrForbidden indicates a present but mismatched admin token.
	ErrForbidden = errors.New("invalid admin token")
	// ErrNotFound indicates the requested record or object does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDecode indicates a document payload that is not valid base64.
	ErrDecode = errors.New("document decode failed")
	// ErrPayloadTooLarge indicates a decoded document above the size limit.
	ErrPayloadTooLarge = errors.New("document exceeds size limit")
	// ErrStorageUnavailable indicates the object storage backend could not
	// be reached or refused the operation. The upload pipeline converts it
	// into a degraded result unless running in strict mode.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
