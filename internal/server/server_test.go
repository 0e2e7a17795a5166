package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amityadav/searchagg/internal/config"
	"github.com/amityadav/searchagg/internal/customsearch"
	"github.com/amityadav/searchagg/internal/search"
	"github.com/amityadav/searchagg/internal/serpapi"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	mu      sync.Mutex
	queries []search.Query
	results []search.Result
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query search.Query) ([]search.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSearcher) Providers() int { return 2 }

var sampleResults = []search.Result{
	{Source: search.SourceGoogle, Title: "Go", Snippet: "The Go programming language", URL: "https://go.dev"},
	{Source: search.SourceReddit, Title: "r/golang", Snippet: "", URL: "https://www.reddit.com/r/golang/"},
}

func newTestServer(t *testing.T, searcher Searcher) *httptest.Server {
	cfg := config.Config{
		CORSOrigins: []string{"http://localhost:8000"},
		StaticDir:   filepath.Join(t.TempDir(), "missing"),
	}
	handler := CreateRecoveryHandler(CreateCORSHandler(CreateRESTHandler(Services{Searcher: searcher}, cfg), cfg.CORSOrigins))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSearchEndpoint(t *testing.T) {
	searcher := &fakeSearcher{results: sampleResults}
	srv := newTestServer(t, searcher)

	resp := postJSON(t, srv.URL+"/search", `{"search_term":"golang","facets":["Google","Reddit"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got []search.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, sampleResults, got)

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, search.Query{SearchTerm: "golang", Facets: []string{"Google", "Reddit"}}, searcher.queries[0])
}

func TestSearchEndpoint_Errors(t *testing.T) {
	t.Run("provider failure", func(t *testing.T) {
		searcher := &fakeSearcher{err: &search.ProviderError{Source: search.SourceGoogle, Cause: errors.New("status 503")}}
		srv := newTestServer(t, searcher)

		resp := postJSON(t, srv.URL+"/search", `{"search_term":"golang"}`)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body["error"], "Google")
		assert.Contains(t, body["error"], "status 503")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := newTestServer(t, &fakeSearcher{})
		resp := postJSON(t, srv.URL+"/search", `{"search_term":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty term", func(t *testing.T) {
		srv := newTestServer(t, &fakeSearcher{})
		resp := postJSON(t, srv.URL+"/search", `{"search_term":""}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong method", func(t *testing.T) {
		srv := newTestServer(t, &fakeSearcher{})
		resp, err := http.Get(srv.URL + "/search")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestExportEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})
	body, err := json.Marshal(ExportData{Results: sampleResults})
	require.NoError(t, err)

	cases := []struct {
		path        string
		contentType string
		disposition string
		magic       []byte
	}{
		{"/export_pdf", "application/pdf", "attachment; filename=search_results.pdf", []byte("%PDF-")},
		{"/export_docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "attachment; filename=search_results.docx", []byte("PK")},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp := postJSON(t, srv.URL+tc.path, string(body))
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.contentType, resp.Header.Get("Content-Type"))
			assert.Equal(t, tc.disposition, resp.Header.Get("Content-Disposition"))

			var buf bytes.Buffer
			_, err := buf.ReadFrom(resp.Body)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), tc.magic))
		})
	}

	t.Run("missing results", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/export_pdf", `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/search", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:8000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["providers"])
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>search</h1>"), 0o644))

	cfg := config.Config{StaticDir: dir}
	srv := httptest.NewServer(CreateRESTHandler(Services{Searcher: &fakeSearcher{}}, cfg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), "<h1>search</h1>")
}

func TestRecoveryHandler(t *testing.T) {
	handler := CreateRecoveryHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocket_MessagesInOrder(t *testing.T) {
	searcher := &fakeSearcher{results: sampleResults}
	conn := dialWS(t, newTestServer(t, searcher))

	for _, term := range []string{"first", "second"} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"search_term":"`+term+`"}`)))

		var got []search.Result
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, sampleResults, got)
	}

	require.Len(t, searcher.queries, 2)
	assert.Equal(t, "first", searcher.queries[0].SearchTerm)
	assert.Equal(t, "second", searcher.queries[1].SearchTerm)
}

func TestWebSocket_ClosesOnBadMessage(t *testing.T) {
	conn := dialWS(t, newTestServer(t, &fakeSearcher{results: sampleResults}))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData), "unexpected error: %v", err)
}

func TestWebSocket_ClosesOnProviderFailure(t *testing.T) {
	searcher := &fakeSearcher{err: &search.ProviderError{Source: search.SourceReddit, Cause: errors.New(strings.Repeat("x", 300))}}
	conn := dialWS(t, newTestServer(t, searcher))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"search_term":"golang"}`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseInternalServerErr), "unexpected error: %v", err)
}

func TestWebSocket_RejectsForeignOrigin(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})

	header := http.Header{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNewWebSearchProvider(t *testing.T) {
	_, ok := NewWebSearchProvider(config.Config{WebSearchBackend: config.BackendSerpAPI, SerpAPIKey: "k"}).(*serpapi.Client)
	assert.True(t, ok)

	_, ok = NewWebSearchProvider(config.Config{WebSearchBackend: config.BackendCustomSearch}).(*customsearch.Client)
	assert.True(t, ok)

	_, ok = NewWebSearchProvider(config.Config{WebSearchBackend: "bing"}).(*serpapi.Client)
	assert.True(t, ok)

	registry := NewSearchRegistry(config.Config{WebSearchBackend: config.BackendSerpAPI})
	assert.Equal(t, "Google+Reddit", registry.Names())
}

func TestWebSocket_AcceptsSameOrigin(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{results: sampleResults})

	header := http.Header{"Origin": {srv.URL}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"search_term":"golang"}`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var got []search.Result
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, sampleResults, got)
}

func TestWebSocket_ClosesOnBinaryFrame(t *testing.T) {
	searcher := &fakeSearcher{results: sampleResults}
	conn := dialWS(t, newTestServer(t, searcher))

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte(`{"search_term":"golang"}`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseUnsupportedData), "unexpected error: %v", err)
	assert.Empty(t, searcher.queries)
}

func TestSameOrigin(t *testing.T) {
	assert.True(t, sameOrigin("http://127.0.0.1:9000", "127.0.0.1:9000"))
	assert.True(t, sameOrigin("http://Search.Example", "search.example"))
	assert.False(t, sameOrigin("http://127.0.0.1:9001", "127.0.0.1:9000"))
	assert.False(t, sameOrigin("null", "127.0.0.1:9000"))
}

func TestStaticFiles_PrefixMount(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('search')"), 0o644))

	srv := httptest.NewServer(CreateRESTHandler(Services{Searcher: &fakeSearcher{}}, config.Config{StaticDir: dir}))
	defer srv.Close()

	for _, path := range []string{"/static/app.js", "/app.js"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)

		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, buf.String(), "console.log('search')", path)
	}
}

func TestBodyLimits(t *testing.T) {
	searcher := &fakeSearcher{}

	t.Run("search", func(t *testing.T) {
		body := `{"search_term":"` + strings.Repeat("a", maxQueryBytes) + `"}`
		rec := httptest.NewRecorder()
		handleSearch(rec, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body)), searcher)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Empty(t, searcher.queries)
	})

	t.Run("export", func(t *testing.T) {
		body := `{"results":[{"title":"` + strings.Repeat("a", maxExportBytes) + `"}]}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/export_pdf", strings.NewReader(body))
		handleExport(rec, req, "PDF", "application/pdf", "search_results.pdf", func(io.Writer, []search.Result) error {
			t.Fatal("render must not run for an oversized body")
			return nil
		})

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("within limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handleSearch(rec, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"search_term":"golang"}`)), searcher)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
