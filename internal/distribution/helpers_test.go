package distribution

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/automarketer/internal/security"
)

// capturedRequest はテストサーバーが受け取ったリクエストを保持する。
type capturedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]any
}

// newCaptureServer は受け取ったリクエストを記録し、指定のステータスとボディを返すテストサーバーを起動する。
func newCaptureServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = r.URL.Query()
		captured.Header = r.Header.Clone()

		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &captured.Body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

// passthroughSanitizer は入力をそのまま返すHTMLSanitizer。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(s string) string { return s }

var _ security.HTMLSanitizer = passthroughSanitizer{}

// recordingCollector は配信メトリクスの記録内容を保持する。
type recordingCollector struct {
	distributions []string
}

func (r *recordingCollector) RecordGeneration(string, bool)         {}
func (r *recordingCollector) RecordGenerationLatency(time.Duration) {}
func (r *recordingCollector) RecordDraftPersistFailure()            {}
func (r *recordingCollector) RecordHTTPStatus(int)                  {}

func (r *recordingCollector) RecordDistribution(target string, statusCode int) {
	r.distributions = append(r.distributions, fmt.Sprintf("%s/%d", target, statusCode))
}
