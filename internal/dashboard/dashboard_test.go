package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazz-dev/svcdeck/internal/dashboard"
)

func get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	dashboard.Handler().ServeHTTP(w, req)
	return w
}

func TestHandler_ServesIndexHTML(t *testing.T) {
	w := get(t, "/")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if !strings.Contains(ct, "text/html") {
		t.Errorf("expected Content-Type text/html, got %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "svcdeck") {
		t.Error("expected index.html to contain 'svcdeck'")
	}
	for _, id := range []string{"online-count", "offline-count", "health-pct", "search", "preview-frame"} {
		if !strings.Contains(body, `id="`+id+`"`) {
			t.Errorf("expected index.html to contain element %q", id)
		}
	}
}

func TestHandler_IndexWithThemeQuery(t *testing.T) {
	w := get(t, "/?theme=dos")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestHandler_ServesCSS(t *testing.T) {
	w := get(t, "/style.css")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for style.css, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if !strings.Contains(ct, "text/css") {
		t.Errorf("expected Content-Type text/css, got %q", ct)
	}
}

func TestHandler_ServesJS(t *testing.T) {
	w := get(t, "/app.js")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for app.js, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/ws") {
		t.Error("expected app.js to connect to /api/ws")
	}
	if !strings.Contains(w.Body.String(), "/api/themes") {
		t.Error("expected app.js to load the theme list from /api/themes")
	}
}

func TestHandler_ServesThemes(t *testing.T) {
	for _, name := range []string{"lcars", "dos", "truenas", "c64"} {
		w := get(t, "/themes/"+name+".css")
		if w.Code != http.StatusOK {
			t.Errorf("expected 200 for theme %s, got %d", name, w.Code)
		}
	}
}

func TestHandler_NotFound(t *testing.T) {
	w := get(t, "/does-not-exist.xyz")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing asset, got %d", w.Code)
	}
}

func TestThemes(t *testing.T) {
	got := dashboard.Themes()
	want := []string{"c64", "dos", "lcars", "truenas"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected theme %q at %d, got %q", want[i], i, got[i])
		}
	}
}
