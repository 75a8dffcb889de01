// Package testserver runs the full HTTP stack against an in-memory
// database for functional tests.
package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/knitcount/internal/mcp"
	"github.com/rpggio/knitcount/internal/session"
	"github.com/rpggio/knitcount/internal/sqlite"
	"github.com/rpggio/knitcount/internal/tracker"
	"github.com/rpggio/knitcount/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Tracker  *tracker.Service
	Sessions *session.Manager
	Token    string
}

// New starts a server that requires token as bearer token. Options are
// passed to the tracker service.
func New(t *testing.T, token string, opts ...tracker.Option) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	svc := tracker.NewService(db.Stores(), db, nil, opts...)
	sessions := session.NewManager(svc, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Tracker:       svc,
		Sessions:      sessions,
		AuthToken:     token,
		TransportMode: "http",
		Version:       "test",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(
		mcp.NewHandler(svc, sessions, nil),
		mcpHandler,
		transport.AuthMiddleware(token),
	))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Tracker:  svc,
		Sessions: sessions,
		Token:    token,
	}
}
