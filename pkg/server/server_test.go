package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Jboschlagos/Emmet-Cloude/pkg/emmet"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/snippets"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	exp := emmet.New(emmet.WithMaxMultiplier(5), emmet.WithMaxInputLength(64))
	s := New(cfg, exp, snippets.NewMemoryStore())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Hint string `json:"hint"`
}

func do(t *testing.T, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, r)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeJSON(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, data := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	var got map[string]string
	decodeJSON(t, data, &got)
	if got["status"] != "ok" {
		t.Errorf("status field = %q, want ok", got["status"])
	}
}

func TestExpandBody(t *testing.T) {
	_, ts := newTestServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMarkup string
		wantCode   string
		wantHint   bool
	}{
		{
			name:       "children",
			body:       `{"abbreviation":"ul>li"}`,
			wantStatus: http.StatusOK,
			wantMarkup: "<ul>\n  <li></li>\n</ul>",
		},
		{
			name:       "blank",
			body:       `{"abbreviation":"   "}`,
			wantStatus: http.StatusOK,
			wantMarkup: "",
		},
		{
			name:       "malformed input still expands",
			body:       `{"abbreviation":"div[hidden"}`,
			wantStatus: http.StatusOK,
			wantMarkup: "<div hidden></div>",
		},
		{
			name:       "invalid json",
			body:       `{"abbreviation":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "E061",
		},
		{
			name:       "multiplier over limit",
			body:       `{"abbreviation":"ul>li*6"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "E004",
			wantHint:   true,
		},
		{
			name:       "nested multipliers over limit",
			body:       `{"abbreviation":"ul*3>li*2"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "E004",
			wantHint:   true,
		},
		{
			name:       "placeholder text over limit",
			body:       `{"abbreviation":"p{lorem20000}"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "E005",
			wantHint:   true,
		},
		{
			name:       "input over limit",
			body:       `{"abbreviation":"` + strings.Repeat("p+", 40) + `p"}`,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "E001",
			wantHint:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, ts.URL+"/api/expand", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, data)
			}

			if tt.wantCode != "" {
				var got apiError
				decodeJSON(t, data, &got)
				if got.Error.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", got.Error.Code, tt.wantCode)
				}
				if tt.wantHint && got.Hint != emmet.UnrecognizedHint {
					t.Errorf("hint = %q", got.Hint)
				}
				return
			}

			var got expandResponse
			decodeJSON(t, data, &got)
			if got.Markup != tt.wantMarkup {
				t.Errorf("markup = %q, want %q", got.Markup, tt.wantMarkup)
			}
		})
	}
}

func TestExpandBody_TooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 16
	_, ts := newTestServer(t, cfg)

	resp, data := do(t, http.MethodPost, ts.URL+"/api/expand", `{"abbreviation":"div>p>span"}`)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", resp.StatusCode)
	}
	var got apiError
	decodeJSON(t, data, &got)
	if got.Error.Code != "E061" {
		t.Errorf("code = %q, want E061", got.Error.Code)
	}
}

func TestExpandQuery(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, data := do(t, http.MethodGet, ts.URL+"/api/expand?abbr="+url.QueryEscape("p{lorem5}"), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got expandResponse
	decodeJSON(t, data, &got)
	if want := "<p>Lorem ipsum dolor sit amet.</p>"; got.Markup != want {
		t.Errorf("markup = %q, want %q", got.Markup, want)
	}
}

func TestLorem(t *testing.T) {
	_, ts := newTestServer(t, nil)

	tests := []struct {
		path       string
		wantStatus int
		wantText   string
	}{
		{"/api/lorem/5", http.StatusOK, "Lorem ipsum dolor sit amet."},
		{"/api/lorem/0", http.StatusOK, "."},
		{"/api/lorem/abc", http.StatusBadRequest, ""},
		{"/api/lorem/-1", http.StatusBadRequest, ""},
		{"/api/lorem/10001", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, data := do(t, http.MethodGet, ts.URL+tt.path, "")
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				var got apiError
				decodeJSON(t, data, &got)
				if got.Error.Code != "E142" {
					t.Errorf("code = %q, want E142", got.Error.Code)
				}
				return
			}
			var got loremResponse
			decodeJSON(t, data, &got)
			if got.Text != tt.wantText {
				t.Errorf("text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}

func TestLorem_FollowsExpanderLimit(t *testing.T) {
	s := New(nil, emmet.New(emmet.WithMaxLoremWords(3)), snippets.NewMemoryStore())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	if resp, _ := do(t, http.MethodGet, ts.URL+"/api/lorem/3", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("/api/lorem/3 status = %d, want 200", resp.StatusCode)
	}
	resp, data := do(t, http.MethodGet, ts.URL+"/api/lorem/4", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("/api/lorem/4 status = %d, want 400", resp.StatusCode)
	}
	var got apiError
	decodeJSON(t, data, &got)
	if got.Error.Code != "E142" {
		t.Errorf("code = %q, want E142", got.Error.Code)
	}

	unlimited := New(nil, emmet.New(emmet.WithMaxLoremWords(0)), snippets.NewMemoryStore())
	uts := httptest.NewServer(unlimited.Handler())
	t.Cleanup(uts.Close)
	if resp, _ := do(t, http.MethodGet, uts.URL+"/api/lorem/20000", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("unlimited /api/lorem/20000 status = %d, want 200", resp.StatusCode)
	}
}

func TestSnippetLifecycle(t *testing.T) {
	_, ts := newTestServer(t, nil)
	base := ts.URL + "/api/snippets"

	resp, data := do(t, http.MethodPost, base, `{"abbreviation":" ul>li "}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", resp.StatusCode, data)
	}
	var created snippets.Snippet
	decodeJSON(t, data, &created)
	if created.ID == "" {
		t.Fatal("created snippet has no id")
	}
	if created.Abbreviation != "ul>li" {
		t.Errorf("abbreviation = %q, want trimmed ul>li", created.Abbreviation)
	}
	if created.Markup != "<ul>\n  <li></li>\n</ul>" {
		t.Errorf("markup = %q", created.Markup)
	}

	resp, data = do(t, http.MethodGet, base, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list snippetList
	decodeJSON(t, data, &list)
	if len(list.Snippets) != 1 || list.Snippets[0].ID != created.ID {
		t.Fatalf("list = %+v, want the created snippet", list.Snippets)
	}

	resp, data = do(t, http.MethodGet, base+"/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var got snippets.Snippet
	decodeJSON(t, data, &got)
	if got.Markup != created.Markup {
		t.Errorf("get markup = %q, want %q", got.Markup, created.Markup)
	}

	resp, _ = do(t, http.MethodDelete, base+"/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp, data = do(t, method, base+"/"+created.ID, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s after delete status = %d, want 404", method, resp.StatusCode)
		}
		var apiErr apiError
		decodeJSON(t, data, &apiErr)
		if apiErr.Error.Code != "E080" {
			t.Errorf("%s after delete code = %q, want E080", method, apiErr.Error.Code)
		}
	}
}

func TestSnippetList_Empty(t *testing.T) {
	_, ts := newTestServer(t, nil)

	_, data := do(t, http.MethodGet, ts.URL+"/api/snippets", "")
	if !strings.Contains(string(data), `"snippets":[]`) {
		t.Errorf("body = %s, want an empty array", data)
	}
}

func TestSnippetCreate_Rejected(t *testing.T) {
	_, ts := newTestServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"blank", `{"abbreviation":"  "}`, http.StatusBadRequest, "E061"},
		{"invalid json", `not json`, http.StatusBadRequest, "E061"},
		{"over limit", `{"abbreviation":"li*9"}`, http.StatusUnprocessableEntity, "E004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, ts.URL+"/api/snippets", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var got apiError
			decodeJSON(t, data, &got)
			if got.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Error.Code, tt.wantCode)
			}
		})
	}

	_, data := do(t, http.MethodGet, ts.URL+"/api/snippets", "")
	var list snippetList
	decodeJSON(t, data, &list)
	if len(list.Snippets) != 0 {
		t.Errorf("rejected requests stored %d snippets", len(list.Snippets))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsPath = "/metrics"
	cfg.Registry = prometheus.NewRegistry()
	_, ts := newTestServer(t, cfg)

	resp, _ := do(t, http.MethodGet, ts.URL+"/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	_, ts2 := newTestServer(t, nil)
	resp, _ = do(t, http.MethodGet, ts2.URL+"/metrics", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("metrics without MetricsPath: status = %d, want 404", resp.StatusCode)
	}
}

func TestTracingEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing = true
	_, ts := newTestServer(t, cfg)

	resp, _ := do(t, http.MethodGet, ts.URL+"/api/expand?abbr=p", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cfg := DefaultConfig()
	cfg.Address = ln.Addr().String()
	if err := New(cfg, nil, nil).Run(context.Background()); err == nil {
		t.Error("Run on a busy address should fail")
	}
}

func TestShutdown_WithoutServe(t *testing.T) {
	if err := New(nil, nil, nil).Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown = %v, want nil", err)
	}
}
