package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/catalog"
	"github.com/hazz-dev/svcdeck/internal/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	categories := s.board.Catalog().Categories()
	if categories == nil {
		categories = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	key, err := board.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sort parameter")
		return
	}

	entries := board.Filter(s.board.Snapshot(), r.URL.Query().Get("q"))
	entries = board.Sort(entries, key)
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Summary is a tally plus the health percentage. Sweeping is true while a
// sweep is in flight.
type Summary struct {
	board.Tally
	Health   float64 `json:"health"`
	Sweeping bool    `json:"sweeping"`
}

func (s *Server) summary(t board.Tally) Summary {
	sum := Summary{Tally: t, Health: t.Health()}
	if s.refresher != nil {
		sum.Sweeping = s.refresher.Running()
	}
	return sum
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.summary(s.board.Tally()))
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	themes := s.themes
	if themes == nil {
		themes = []string{}
	}
	writeJSON(w, http.StatusOK, themes)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refresher == nil {
		writeError(w, http.StatusServiceUnavailable, "refresh unavailable")
		return
	}
	queued := s.refresher.Refresh()
	writeJSON(w, http.StatusAccepted, map[string]bool{"queued": queued})
}

func (s *Server) handleOpenService(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookupOpenable(w, r)
	if !ok {
		return
	}
	http.Redirect(w, r, entry.URL, http.StatusFound)
}

var previewTmpl = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}} · svcdeck</title>
<style>
html, body { margin: 0; height: 100%; background: #000; }
header { font: 14px monospace; color: #ccc; padding: 6px 10px; }
header a { color: #9cf; }
iframe { border: 0; width: 100%; height: calc(100% - 30px); background: #fff; }
</style>
</head>
<body>
<header>{{.Name}} · <a href="{{.URL}}" target="_blank" rel="noopener">{{.URL}}</a></header>
<iframe src="{{.URL}}" title="{{.Name}}" sandbox="allow-same-origin allow-scripts allow-forms allow-popups"></iframe>
</body>
</html>
`))

func (s *Server) handlePreviewService(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookupOpenable(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTmpl.Execute(w, entry); err != nil {
		s.logger.Error("rendering preview", logger.Int("index", entry.Index), logger.Error(err))
	}
}

// lookup resolves the {index} URL parameter, writing the error response
// itself when it fails.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (board.FlatService, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service index")
		return board.FlatService{}, false
	}
	entry, ok := s.board.Entry(i)
	if !ok {
		writeError(w, http.StatusNotFound, "service not found")
		return board.FlatService{}, false
	}
	return entry, true
}

// lookupOpenable is lookup plus a check that the service has a URL to open.
// Probe status does not matter.
func (s *Server) lookupOpenable(w http.ResponseWriter, r *http.Request) (board.FlatService, bool) {
	entry, ok := s.lookup(w, r)
	if !ok {
		return entry, false
	}
	if entry.URL == "" {
		writeError(w, http.StatusUnprocessableEntity, "service has no url")
		return entry, false
	}
	return entry, true
}
