package remote

import "errors"

var (
	// ErrUnauthorized is returned on 401/403 responses (expired or revoked token).
	ErrUnauthorized = errors.New("cart api: unauthorized")

	// ErrRejected is returned when the API answers 2xx but success:false.
	ErrRejected = errors.New("cart api: request rejected")
)
