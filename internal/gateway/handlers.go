package gateway

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"coinfixi/internal/admin"
	"coinfixi/internal/api"
	"coinfixi/internal/session"
	"coinfixi/internal/table"
)

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":   Version,
		"resources": admin.Names(),
		"timestamp": s.opts.Now().UTC().Format(time.RFC3339),
		"build_id":  s.opts.BuildID,
		"deployed":  true,
	})
}

func (s *Server) handleDebug(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Gateway Debug",
		"api_base":    s.opts.Client.BaseURL(),
		"build_time":  s.opts.BuildID,
		"timestamp":   s.opts.Now().UTC().Format(time.RFC3339),
		"environment": s.opts.Environment,
	})
}

// handleTestBackend probes the upstream /__version__ endpoint. It always
// answers 200; reachability is in the body.
func (s *Server) handleTestBackend(w http.ResponseWriter, r *http.Request) {
	var data any
	err := s.opts.Client.Do(r.Context(), http.MethodGet, "/__version__", nil, nil, &data)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":           false,
			"backend_reachable": false,
			"error":             err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"backend_reachable": true,
		"backend_data":      data,
	})
}

func (s *Server) handleTableIndex(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		Name  string   `json:"name"`
		Title string   `json:"title"`
		Keys  []string `json:"keys"`
	}
	var out []entry
	for _, name := range admin.Names() {
		t, _ := admin.Lookup(name)
		out = append(out, entry{Name: name, Title: t.ResourceTitle(), Keys: t.Keys()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleTable loads a resource with the caller's bearer token and returns
// the rendered, filtered and sorted table.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	t, err := admin.Lookup(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	q := r.URL.Query()
	query := admin.Query{
		Search: q.Get("q"),
		Sort:   q.Get("sort"),
		Dir:    table.ParseDirection(q.Get("dir")),
		Params: api.ListParams{
			Page:    atoi(q.Get("page")),
			Limit:   atoi(q.Get("limit")),
			Filters: filters(q),
		},
	}

	snap, err := t.Load(r.Context(), s.opts.Client.WithSession(callerSession(r)), query)
	if err != nil {
		s.metrics.TableLoads.WithLabelValues(t.ResourceName(), "error").Inc()
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, admin.ErrUnsortableColumn):
			status = http.StatusBadRequest
		case api.StatusOf(err) >= 400 && api.StatusOf(err) < 500:
			status = api.StatusOf(err)
		}
		writeError(w, status, err.Error())
		return
	}
	s.metrics.TableLoads.WithLabelValues(t.ResourceName(), snap.Phase).Inc()
	writeJSON(w, http.StatusOK, snap)
}

// callerSession forwards the caller's Authorization header upstream.
func callerSession(r *http.Request) *session.Session {
	sess := session.New()
	scheme, tok, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "bearer") && tok != "" {
		sess.Set(tok, "bearer", session.User{})
	}
	return sess
}

var reservedParams = map[string]bool{"q": true, "sort": true, "dir": true, "page": true, "limit": true}

// filters passes every other query parameter to the list endpoint.
func filters(q map[string][]string) map[string]string {
	out := map[string]string{}
	for k, v := range q {
		if reservedParams[k] || len(v) == 0 {
			continue
		}
		out[k] = v[0]
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
