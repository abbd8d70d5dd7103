package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/nutritrack/pkg/reqid"
)

func serve(t *testing.T, header string) (seen string, rec *httptest.ResponseRecorder) {
	t.Helper()
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(reqid.Header, header)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestMiddlewareGeneratesID(t *testing.T) {
	seen, rec := serve(t, "")

	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("expected a uuid, got %q", seen)
	}
	if rec.Header().Get(reqid.Header) != seen {
		t.Errorf("response header %q does not match context %q", rec.Header().Get(reqid.Header), seen)
	}
}

func TestMiddlewareHonoursUpstreamID(t *testing.T) {
	seen, _ := serve(t, "gateway-42")
	if seen != "gateway-42" {
		t.Errorf("expected upstream id, got %q", seen)
	}
}

func TestMiddlewareReplacesOversizedID(t *testing.T) {
	seen, _ := serve(t, strings.Repeat("x", 500))
	if len(seen) > 128 {
		t.Errorf("oversized id was accepted: %d chars", len(seen))
	}
}
