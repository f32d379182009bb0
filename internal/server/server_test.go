package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/ghrecon/internal/findings"
	"github.com/scan-io-git/ghrecon/internal/recon"
	"github.com/scan-io-git/ghrecon/internal/report"
	"github.com/scan-io-git/ghrecon/internal/source"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
	"github.com/scan-io-git/ghrecon/pkg/shared/errors"
)

type fakeRunner struct {
	usernames []string
}

func (r *fakeRunner) Run(_ context.Context, username string) *recon.Result {
	r.usernames = append(r.usernames, username)
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{Repository: "demo", File: "app.py", Severity: findings.SeverityHigh, Text: "[demo] app.py\n- **Issue:** Hardcoded secret"})
	return &recon.Result{
		RunID:        "run-1",
		Username:     username,
		Repositories: []source.RepositoryRef{{Name: "demo"}},
		Findings:     fs,
	}
}

type fakeEmitter struct {
	err error
}

func (e *fakeEmitter) Emit(_ context.Context, result *recon.Result) (*report.Document, []report.Artifact, error) {
	doc := report.NewDocument(result, time.Now())
	if e.err != nil {
		return doc, nil, e.err
	}
	return doc, []report.Artifact{{Format: "json", Path: "osint_report_" + result.Username + ".json"}}, nil
}

func newTestServer(emitter *fakeEmitter, requestsPerMinute int) (*Server, *fakeRunner) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Server.RequestsPerMinute = requestsPerMinute
	config.ApplyDefaults(cfg)

	runner := &fakeRunner{}
	return New(cfg, runner, emitter, "1.2.3", hclog.NewNullLogger()), runner
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHome(t *testing.T) {
	s, _ := newTestServer(&fakeEmitter{}, 30)

	rr := do(s.Router(), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Welcome to OSINT AI Recon Web API"}`, rr.Body.String())
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(&fakeEmitter{}, 30)

	rr := do(s.Router(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"ghrecon","version":"1.2.3"}`, rr.Body.String())
}

func TestLookup(t *testing.T) {
	s, runner := newTestServer(&fakeEmitter{}, 30)

	rr := do(s.Router(), http.MethodPost, "/github_lookup/", `{"username":" alice "}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp LookupResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.GitHubUsername)
	assert.Equal(t, []string{"demo"}, resp.Repositories)
	assert.Equal(t, []string{"[demo] app.py\n- **Issue:** Hardcoded secret"}, resp.AIAnalysis["High"])
	require.NotNil(t, resp.Report)
	assert.Equal(t, "alice", resp.Report.Target)
	require.Len(t, resp.Artifacts, 1)
	assert.Equal(t, []string{"alice"}, runner.usernames)
}

func TestLookupRejectsBadRequests(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "empty username", body: `{"username":""}`},
		{name: "missing username", body: `{}`},
		{name: "invalid username", body: `{"username":"../etc"}`},
		{name: "malformed json", body: `{"username":`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, runner := newTestServer(&fakeEmitter{}, 30)

			rr := do(s.Router(), http.MethodPost, "/github_lookup/", tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
			assert.Empty(t, runner.usernames)
		})
	}
}

func TestLookupReportWriteFailure(t *testing.T) {
	writeErr := errors.NewReportWriteError("osint_report_alice.json", assert.AnError)
	s, _ := newTestServer(&fakeEmitter{err: writeErr}, 30)

	rr := do(s.Router(), http.MethodPost, "/github_lookup/", `{"username":"alice"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to write report")
}

func TestLookupRateLimited(t *testing.T) {
	s, runner := newTestServer(&fakeEmitter{}, 2)
	router := s.Router()

	first := do(router, http.MethodPost, "/github_lookup/", `{"username":"alice"}`)
	second := do(router, http.MethodPost, "/github_lookup/", `{"username":"alice"}`)
	health := do(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Len(t, runner.usernames, 1)
}

func TestRateLimiterIsPerClient(t *testing.T) {
	rl := NewRateLimiter(1)

	assert.True(t, rl.limiter("10.0.0.1").Allow())
	assert.False(t, rl.limiter("10.0.0.1").Allow())
	assert.True(t, rl.limiter("10.0.0.2").Allow())
}
