package testutil

import (
	"net/http"

	"taskboard/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithUserID(req *http.Request, userID string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	return req.WithContext(ctx)
}
