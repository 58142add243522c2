package httpapi

import (
	"context"
	"net/http"
	"strings"
)

// viewer is the caller identity forwarded by the front end. Tokens are issued and
// checked upstream, so the API only trusts what the gateway passes along.
type viewer struct {
	UserID   string
	Username string
	Email    string
}

type contextKey string

const viewerContextKey contextKey = "viewer"

const (
	headerUserID   = "X-User-Id"
	headerUsername = "X-User-Name"
	headerEmail    = "X-User-Email"
)

func withViewer(ctx context.Context, v viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey, v)
}

func viewerFromContext(ctx context.Context) viewer {
	v, _ := ctx.Value(viewerContextKey).(viewer)
	return v
}

// viewerFromRequest prefers the userId query parameter, then the forwarded headers.
func viewerFromRequest(r *http.Request) viewer {
	v := viewer{
		UserID:   strings.TrimSpace(r.URL.Query().Get("userId")),
		Username: strings.TrimSpace(r.Header.Get(headerUsername)),
		Email:    strings.TrimSpace(r.Header.Get(headerEmail)),
	}
	if v.UserID == "" {
		v.UserID = strings.TrimSpace(r.Header.Get(headerUserID))
	}
	return v
}
