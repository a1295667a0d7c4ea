package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(zerolog.Nop()))
	r.GET("/open", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDHeader)) })
	r.GET("/admin", AdminKey("secret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRequestIDGeneratesULID(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

	rid := w.Header().Get(RequestIDHeader)
	if _, err := ulid.Parse(rid); err != nil {
		t.Fatalf("expected ULID request id, got %q (%v)", rid, err)
	}
	if w.Body.String() != rid {
		t.Fatalf("expected request id in context, got %q", w.Body.String())
	}
}

func TestRequestIDKeepsCallerValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}

func TestAdminKey(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestAdminKeyDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminKey(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}
