package transport

import (
	"context"
	"net/http"
	"strings"
)

// Headers naming the counting session a request acts on. KnitcountSessionHeader
// carries an id returned by open_session; MCPSessionHeader is the transport
// session of MCP clients and is used when no counting session is named.
const (
	KnitcountSessionHeader = "Knitcount-Session-Id"
	MCPSessionHeader       = "Mcp-Session-Id"
)

type sessionKey struct{}

// SessionIDFromContext returns the counting session id stored by
// SessionMiddleware, if any.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionKey{}).(string)
	return sessionID, ok
}

// SessionMiddleware stores the session id from the request headers in the
// context. Tools that take a session_id argument fall back to it.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(KnitcountSessionHeader))
		if sessionID == "" {
			sessionID = strings.TrimSpace(r.Header.Get(MCPSessionHeader))
		}
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
