package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	method string
	path   string
	query  url.Values
}

func fakeServer(t *testing.T, status int, body string) (*httptest.Server, *seen) {
	t.Helper()
	s := &seen{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.method, s.path, s.query = r.Method, r.URL.Path, r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, s
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGet(t *testing.T) {
	srv, s := fakeServer(t, 200, `{"status":"ok","key":"ABC123","device":"Not bound","expiry":null}`)

	out, err := runCLI(t, srv, "get", "ABC123", "--device", "X")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, s.method)
	assert.Equal(t, "/api/check", s.path)
	assert.Equal(t, "ABC123", s.query.Get("key"))
	assert.Equal(t, "X", s.query.Get("device"))
	assert.Equal(t, "status=ok key=ABC123 device=Not bound\n", out)
}

func TestCreate_OnlySetFlagsAreSent(t *testing.T) {
	srv, s := fakeServer(t, 200, `{"status":"ok","message":"Key created","key":"K"}`)

	_, err := runCLI(t, srv, "create", "K", "--days", "30")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, s.method)
	assert.Equal(t, "30", s.query.Get("days"))
	_, hasDevice := s.query["device"]
	assert.False(t, hasDevice)
}

func TestUpdate_EmptyFlagClears(t *testing.T) {
	srv, s := fakeServer(t, 200, `{"status":"ok","message":"Key updated","key":"K"}`)

	_, err := runCLI(t, srv, "update", "K", "--expiry", "")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, s.method)
	v, ok := s.query["expiry"]
	require.True(t, ok)
	assert.Equal(t, []string{""}, v)
}

func TestUnbindAndDelete(t *testing.T) {
	srv, s := fakeServer(t, 200, `{"status":"ok","message":"Device unbound","key":"K"}`)

	_, err := runCLI(t, srv, "unbind", "K", "D")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, s.method)
	assert.Equal(t, "D", s.query.Get("device"))

	_, err = runCLI(t, srv, "delete", "K")
	require.NoError(t, err)
	_, hasDevice := s.query["device"]
	assert.False(t, hasDevice)
}

func TestDump_JSON(t *testing.T) {
	srv, _ := fakeServer(t, 200, `{"status":"ok","keys":[{"key":"A","device":null,"expiry":null}]}`)

	out, err := runCLI(t, srv, "--out", "json", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, `"key": "A"`)
}

func TestDump_Text(t *testing.T) {
	srv, _ := fakeServer(t, 200, `{"status":"ok","keys":[{"key":"A","device":"d","expiry":"2027-01-01"},{"key":"B","device":null,"expiry":null}]}`)

	out, err := runCLI(t, srv, "dump")
	require.NoError(t, err)
	assert.Equal(t, "status=ok\nA\td\t2027-01-01\nB\t-\t-\n", out)
}

func TestHTTPErrorFails(t *testing.T) {
	srv, _ := fakeServer(t, 500, `{"status":"error","code":"STORE_ERROR"}`)

	_, err := runCLI(t, srv, "get", "K")
	assert.ErrorContains(t, err, "status=500")
}

func TestPing(t *testing.T) {
	srv, s := fakeServer(t, 200, `{"status":"ready"}`)

	out, err := runCLI(t, srv, "ping")
	require.NoError(t, err)
	assert.Equal(t, "/readyz", s.path)
	assert.Equal(t, "ok\n", out)
}

func TestInvalidOutFormat(t *testing.T) {
	srv, _ := fakeServer(t, 200, `{}`)
	_, err := runCLI(t, srv, "--out", "xml", "ping")
	assert.ErrorContains(t, err, "json|text")
}
