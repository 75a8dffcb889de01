package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method    string
	sessionID string
	err       error
}

func (h *testHandler) Handle(_ context.Context, sessionID, method string, _ json.RawMessage) (any, error) {
	h.method = method
	h.sessionID = sessionID
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"session": sessionID}, nil
}

type testCodedError struct {
	code string
}

func (e testCodedError) Error() string             { return e.code + ": failed" }
func (e testCodedError) CodeValue() string         { return e.code }
func (e testCodedError) RecoveryHintValue() string { return "try again" }

func postRPC(t *testing.T, url, token, sessionID, body string) (*http.Response, Response) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if sessionID != "" {
		req.Header.Set(KnitcountSessionHeader, sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out Response
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, nil, AuthMiddleware("token")))
	t.Cleanup(server.Close)

	resp, out := postRPC(t, server.URL, "token", "sess1", `{"jsonrpc":"2.0","method":"list_projects","id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, out.Error)
	require.Equal(t, "list_projects", handler.method)
	require.Equal(t, "sess1", handler.sessionID)
	require.Equal(t, map[string]any{"session": "sess1"}, out.Result)
}

func TestHTTPServer_RPCRequiresToken(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, nil, AuthMiddleware("token")))
	t.Cleanup(server.Close)

	resp, _ := postRPC(t, server.URL, "", "", `{"jsonrpc":"2.0","method":"list_projects","id":1}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = postRPC(t, server.URL, "wrong", "", `{"jsonrpc":"2.0","method":"list_projects","id":1}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, handler.method)
}

func TestHTTPServer_RPCErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantData bool
	}{
		{"domain", testCodedError{code: "CONFLICT"}, ErrDomain, true},
		{"unknown method", testCodedError{code: "METHOD_NOT_FOUND"}, ErrMethodNotFound, true},
		{"bad params", testCodedError{code: "INVALID_PARAMS"}, ErrInvalidParams, true},
		{"uncoded", errors.New("boom"), ErrInternal, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := &testHandler{err: tc.err}
			server := httptest.NewServer(NewServer(handler, nil, nil))
			t.Cleanup(server.Close)

			_, out := postRPC(t, server.URL, "", "", `{"jsonrpc":"2.0","method":"get_counter","id":7}`)
			require.NotNil(t, out.Error)
			require.Equal(t, tc.wantCode, out.Error.Code)
			require.Equal(t, tc.err.Error(), out.Error.Message)
			if tc.wantData {
				data, ok := out.Error.Data.(map[string]any)
				require.True(t, ok)
				require.Equal(t, "try again", data["recovery_hint"])
			} else {
				require.Nil(t, out.Error.Data)
			}
		})
	}
}

func TestHTTPServer_RPCMalformed(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, nil, nil))
	t.Cleanup(server.Close)

	_, out := postRPC(t, server.URL, "", "", `{not json`)
	require.NotNil(t, out.Error)
	require.Equal(t, ErrParseCode, out.Error.Code)

	_, out = postRPC(t, server.URL, "", "", `{"jsonrpc":"1.0","method":"ping"}`)
	require.NotNil(t, out.Error)
	require.Equal(t, ErrInvalidReq, out.Error.Code)
	require.Empty(t, handler.method)
}

func TestHTTPServer_MountsMCPHandler(t *testing.T) {
	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	server := httptest.NewServer(NewServer(&testHandler{}, mcp, AuthMiddleware("token")))
	t.Cleanup(server.Close)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPost, server.URL+"/mcp", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestHTTPServer_Health(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, nil, AuthMiddleware("token")))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
