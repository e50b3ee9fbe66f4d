package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/lexicon"
	"github.com/spigell/lynxhire/internal/screening"
	"github.com/spigell/lynxhire/internal/session"
)

const frontendJob = `Cerchiamo Frontend Developer a Milano
Sviluppo frontend, javascript, react. Richiesta comunicazione e lavoro di squadra.`

const frontendCV = `Frontend developer a Milano con 5 anni di esperienza in javascript e react.
Dal 2018 al 2023 presso agenzia digitale, comunicazione con i clienti e lavoro in team.`

func newTestServer(t *testing.T, cfg Config) (*Server, *session.MemoryStore) {
	t.Helper()
	n := 0
	eng := engine.New(lexicon.Default(), engine.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("cand-%d", n)
	}))
	store := session.NewMemoryStore()
	srv, err := New(Options{
		Config:    cfg,
		Session:   session.New(eng, zap.NewNop()),
		Store:     store,
		Shortlist: screening.Config{MinimumFitScore: 10, ExcludeTags: []string{session.TagNoGo}, ExcludeStale: true},
		Version:   "test",
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	rec := do(t, srv.Handler(), http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestCandidateBeforeJobConflicts(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	rec := do(t, srv.Handler(), http.MethodPost, "/v1/candidates", session.CandidateInput{Name: "Giulia", Text: frontendCV})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestJobAndCandidateFlow(t *testing.T) {
	srv, store := newTestServer(t, Config{})
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/v1/job", session.JobInput{Title: "Frontend developer", Location: "Milano", Description: frontendJob})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	job := decodeBody[engine.JobProfile](t, rec)
	assert.Contains(t, job.Keywords, "react")

	rec = do(t, h, http.MethodPost, "/v1/candidates", session.CandidateInput{Name: "Giulia", Location: "Milano", Text: frontendCV})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[candidateResponse](t, rec)
	assert.Equal(t, "cand-1", created.Candidate.ID)
	assert.Equal(t, 96, created.Candidate.GeoMatch)
	assert.False(t, created.Candidate.Stale)
	assert.NotEmpty(t, created.Insights.Summary)
	assert.Len(t, created.Outlook, 3)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Candidates, 1)
	assert.Equal(t, 1, snap.JobRevision)

	rec = do(t, h, http.MethodGet, "/v1/candidates/cand-1?focus=react", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[candidateResponse](t, rec).Outlook, 4)

	rec = do(t, h, http.MethodGet, "/v1/candidates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]candidateView](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody[map[string]any](t, rec)["total"])
}

func TestPatchCandidate(t *testing.T) {
	srv, store := newTestServer(t, Config{})
	h := srv.Handler()

	do(t, h, http.MethodPost, "/v1/job", session.JobInput{Description: frontendJob})
	do(t, h, http.MethodPost, "/v1/candidates", session.CandidateInput{Name: "Giulia", Text: frontendCV})

	rec := do(t, h, http.MethodPatch, "/v1/candidates/cand-1", map[string]any{"tags": []string{"top-pick"}, "notes": "strong react"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decodeBody[candidateView](t, rec)
	assert.Equal(t, []string{session.TagTopPick}, view.Tags)
	assert.Equal(t, "strong react", view.Notes)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "strong react", snap.Candidates[0].Notes)

	tests := []struct {
		name string
		path string
		body any
		code int
	}{
		{name: "unknown tag", path: "/v1/candidates/cand-1", body: map[string]any{"tags": []string{"maybe"}}, code: http.StatusBadRequest},
		{name: "empty patch", path: "/v1/candidates/cand-1", body: map[string]any{}, code: http.StatusBadRequest},
		{name: "unknown field", path: "/v1/candidates/cand-1", body: map[string]any{"score": 100}, code: http.StatusBadRequest},
		{name: "missing candidate", path: "/v1/candidates/nope", body: map[string]any{"notes": "x"}, code: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, do(t, h, http.MethodPatch, tt.path, tt.body).Code)
		})
	}
}

func TestValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/v1/job", session.JobInput{Title: "Empty"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	do(t, h, http.MethodPost, "/v1/job", session.JobInput{Description: frontendJob})
	rec = do(t, h, http.MethodPost, "/v1/candidates", session.CandidateInput{Text: frontendCV})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[errorResponse](t, rec).Error, "name is required")
}

func TestShortlistDropsStaleAndTagged(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	h := srv.Handler()

	do(t, h, http.MethodPost, "/v1/job", session.JobInput{Description: frontendJob})
	do(t, h, http.MethodPost, "/v1/candidates", session.CandidateInput{Name: "Old", Text: frontendCV})
	do(t, h, http.MethodPost, "/v1/job", session.JobInput{Description: frontendJob})
	do(t, h, http.MethodPost, "/v1/candidates", session.CandidateInput{Name: "Giulia", Text: frontendCV})
	do(t, h, http.MethodPost, "/v1/candidates", session.CandidateInput{Name: "Marco", Text: frontendCV})
	do(t, h, http.MethodPatch, "/v1/candidates/cand-3", map[string]any{"tags": []string{"no-go"}})

	rec := do(t, h, http.MethodGet, "/v1/shortlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[shortlistResponse](t, rec)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "cand-2", resp.Candidates[0].ID)
	assert.Len(t, resp.Filters, 5)

	rec = do(t, h, http.MethodGet, "/v1/candidates/cand-1", nil)
	assert.True(t, decodeBody[candidateResponse](t, rec).Candidate.Stale)
}

func TestRequestSizeLimit(t *testing.T) {
	srv, _ := newTestServer(t, Config{MaxRequestBytes: 64})
	rec := do(t, srv.Handler(), http.MethodPost, "/v1/job", session.JobInput{Description: strings.Repeat("react ", 50)})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Config{RateLimit: RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2}})
	h := srv.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/health", nil).Code)

	other := httptest.NewRequest(http.MethodGet, "/health", nil)
	other.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitConfigValidated(t *testing.T) {
	_, err := New(Options{
		Session: session.New(nil, nil),
		Config:  Config{RateLimit: RateLimitConfig{Enabled: true}},
	})
	assert.Error(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	h := srv.Handler()

	do(t, h, http.MethodPost, "/v1/job", session.JobInput{Description: frontendJob})
	do(t, h, http.MethodPost, "/v1/candidates", session.CandidateInput{Name: "Giulia", Text: frontendCV})
	do(t, h, http.MethodGet, "/nope", nil)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `lynxhire_http_requests_total{code="201",route="POST /v1/candidates"} 1`)
	assert.Contains(t, body, `lynxhire_http_requests_total{code="404",route="unmatched"} 1`)
	assert.Contains(t, body, `lynxhire_candidate_score_count{kind="fit"} 1`)
	assert.Contains(t, body, "lynxhire_session_candidates 1")
}

func TestMetricsReportRestoredCandidates(t *testing.T) {
	sess := session.New(engine.New(lexicon.Default()), zap.NewNop())
	_, err := sess.AnalyzeJob(session.JobInput{Description: frontendJob})
	require.NoError(t, err)
	for _, name := range []string{"Giulia", "Marco"} {
		_, err := sess.AddCandidate(session.CandidateInput{Name: name, Text: frontendCV})
		require.NoError(t, err)
	}

	srv, err := New(Options{Session: sess, Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	rec := do(t, srv.Handler(), http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lynxhire_session_candidates 2")
}

// gateStore holds the first armed Save open until release is closed.
type gateStore struct {
	*session.MemoryStore
	armed   atomic.Bool
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gateStore) Save(ctx context.Context, snap *session.Snapshot) error {
	if g.armed.Load() {
		first := false
		g.once.Do(func() { first = true })
		if first {
			close(g.entered)
			<-g.release
		}
	}
	return g.MemoryStore.Save(ctx, snap)
}

func TestConcurrentSavesKeepLatestSnapshot(t *testing.T) {
	store := &gateStore{
		MemoryStore: session.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	sess := session.New(engine.New(lexicon.Default()), zap.NewNop())
	srv, err := New(Options{Session: sess, Store: store, Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/v1/job", session.JobInput{Description: frontendJob})
	require.Equal(t, http.StatusOK, rec.Code)
	store.armed.Store(true)

	var wg sync.WaitGroup
	post := func(name string) {
		defer wg.Done()
		body := fmt.Sprintf(`{"name":%q,"text":%q}`, name, frontendCV)
		req := httptest.NewRequest(http.MethodPost, "/v1/candidates", strings.NewReader(body))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	wg.Add(1)
	go post("Giulia")
	<-store.entered

	wg.Add(1)
	go post("Marco")
	require.Eventually(t, func() bool { return sess.Candidates().Len() == 2 }, time.Second, 5*time.Millisecond)
	close(store.release)
	wg.Wait()

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Candidates, 2)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", clientIP(r))

	r.Header.Set("X-Forwarded-For", "garbage, 203.0.113.9")
	assert.Equal(t, "203.0.113.9", clientIP(r))
}
