package testutil

import (
	"net/http"
	"time"

	"donorlink/pkg/requestcontext"
)

// WithRequestTime pins the request clock, as the requesttime middleware does.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
