package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeBackend поднимает httptest-сервер с минимальным REST-контрактом.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	access, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token/pair", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"No active account"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": access, "refresh": "r"})
	})
	mux.HandleFunc("GET /api/jobs/filter", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.RawQuery; got != "location=Krak%C3%B3w&skills=Go" {
			t.Errorf("unexpected query %q", got)
		}
		_, _ = w.Write([]byte(`{"count":12,"next":"?page=2&location=Krak%C3%B3w&skills=Go","previous":null,
			"results":[{"id":42,"title":"Go developer","company":"ACME","location":"Kraków","operating_mode":"remote"}]}`))
	})
	mux.HandleFunc("GET /api/applications", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, backendURL string) string {
	t.Helper()

	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	data := fmt.Sprintf(`
env: "prod"
backend:
  base_url: %q
  timeout: "2s"
store:
  driver: "file"
  path: %q
`, backendURL, filepath.Join(dir, "store.json"))

	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestJobsCmd_Table(t *testing.T) {
	srv := fakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	out, err := run(t, "", "--config", cfg, "jobs", "--location", "Kraków", "--skill", "Go")
	require.NoError(t, err)

	require.Contains(t, out, "Go developer")
	require.Contains(t, out, "12 offers")
	require.Contains(t, out, "next:     --page '?page=2&location=Krak%C3%B3w&skills=Go'")
	require.NotContains(t, out, "previous:")
}

func TestJobsCmd_JSON(t *testing.T) {
	srv := fakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	out, err := run(t, "", "--config", cfg, "jobs", "--location", "Kraków", "--skill", "Go", "--json")
	require.NoError(t, err)

	var got feedJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "location=Krak%C3%B3w&skills=Go", got.Query)
	require.Equal(t, 12, got.Count)
	require.Len(t, got.Results, 1)
	require.Equal(t, "remote", got.Results[0].Mode)
}

func TestLoginThenStatus(t *testing.T) {
	srv := fakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	out, err := run(t, "secret\n", "--config", cfg, "login", "--username", "ala")
	require.NoError(t, err)
	require.Equal(t, "Logged in as ala\n", out)

	out, err = run(t, "", "--config", cfg, "status")
	require.NoError(t, err)
	require.Contains(t, out, "session: authorized")
	require.Contains(t, out, "access:  expires")

	out, err = run(t, "", "--config", cfg, "logout")
	require.NoError(t, err)
	require.Equal(t, "Logged out\n", out)

	out, err = run(t, "", "--config", cfg, "status")
	require.NoError(t, err)
	require.Contains(t, out, "session: unauthorized")
	require.Contains(t, out, "tokens:  none")
}

func TestLoginCmd_InvalidCredentials(t *testing.T) {
	srv := fakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	_, err := run(t, "", "--config", cfg, "login", "-u", "ala", "-p", "wrong")
	require.EqualError(t, err, "invalid username or password")
}

func TestApplyCmd_InvalidID(t *testing.T) {
	srv := fakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	_, err := run(t, "", "--config", cfg, "jobs", "apply", "abc")
	require.EqualError(t, err, `invalid job id "abc"`)
}

func TestRoot_BadConfig(t *testing.T) {
	_, err := run(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "status")
	require.Error(t, err)
}

func TestSetupLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	require.True(t, setupLogger(envLocal, &buf).Enabled(ctx, slog.LevelDebug))
	require.True(t, setupLogger(envDev, &buf).Enabled(ctx, slog.LevelDebug))
	require.False(t, setupLogger(envProd, &buf).Enabled(ctx, slog.LevelDebug))
	require.True(t, setupLogger(envProd, &buf).Enabled(ctx, slog.LevelInfo))
	require.True(t, setupLogger("unknown", &buf).Enabled(ctx, slog.LevelDebug))
}
