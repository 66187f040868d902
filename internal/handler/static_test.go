package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newTestStaticDir はindex.htmlと1つのアセットを持つ一時ディレクトリを作る。
func newTestStaticDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte("console.log('app')"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestSPAHandler_ServesExistingFile(t *testing.T) {
	h := NewSPAHandler(newTestStaticDir(t))

	req := httptest.NewRequest(http.MethodGet, "/main.js", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "console.log") {
		t.Error("expected asset content to be served")
	}
}

func TestSPAHandler_UnknownPathFallsBackToIndex(t *testing.T) {
	h := NewSPAHandler(newTestStaticDir(t))

	req := httptest.NewRequest(http.MethodGet, "/recipes/42", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "<html>app</html>") {
		t.Error("expected index.html fallback")
	}
}

func TestSPAHandler_APIPathDoesNotFallBack(t *testing.T) {
	h := NewSPAHandler(newTestStaticDir(t))

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

func TestSPAHandler_PostMethod_Returns405(t *testing.T) {
	h := NewSPAHandler(newTestStaticDir(t))

	req := httptest.NewRequest(http.MethodPost, "/recipes/42", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusMethodNotAllowed)
	}
}
