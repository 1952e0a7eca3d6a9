package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	j "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni"

	"github.com/siegeai/shapeinfer/apispec"
	"github.com/siegeai/shapeinfer/infer"
	"github.com/siegeai/shapeinfer/jsonschema"
	"github.com/siegeai/shapeinfer/shape"
)

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/infer", s.handleInfer()).Methods("POST")
	s.router.HandleFunc("/collections", s.handleCreateCollection()).Methods("POST")
	s.router.HandleFunc("/collections/{id}/samples", s.handleAddSamples()).Methods("POST")
	s.router.HandleFunc("/collections/{id}/schema", s.handleGetSchema()).Methods("GET")
	s.router.HandleFunc("/collections/{id}", s.handleDeleteCollection()).Methods("DELETE")
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods("GET")
	s.router.Use(s.logMiddleware)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := negroni.NewResponseWriter(w)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		slog.Debug("request", "method", r.Method, "uri", r.RequestURI, "status", ww.Status(), "size", ww.Size(), "elapsed", time.Since(start))
	})
}

type collectionResponse struct {
	ID      string `json:"id"`
	Samples int    `json:"samples"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleInfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, n, ok := s.readSamples(w, r)
		if !ok {
			return
		}
		if n == 0 {
			writeError(w, http.StatusBadRequest, "no samples in request body")
			return
		}
		writeSchema(w, r, sh)
	}
}

func (s *Server) handleCreateCollection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := s.store.create()
		s.metrics.collections.Set(float64(s.store.len()))
		writeJSON(w, http.StatusCreated, collectionResponse{ID: id.String()})
	}
}

func (s *Server) handleAddSamples() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := collectionID(w, r)
		if !ok {
			return
		}
		sh, n, ok := s.readSamples(w, r)
		if !ok {
			return
		}

		total, err := s.store.add(id, sh, n)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, collectionResponse{ID: id.String(), Samples: total})
	}
}

func (s *Server) handleGetSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := collectionID(w, r)
		if !ok {
			return
		}
		sh, _, err := s.store.get(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeSchema(w, r, sh)
	}
}

func (s *Server) handleDeleteCollection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := collectionID(w, r)
		if !ok {
			return
		}
		if err := s.store.delete(id); err != nil {
			writeStoreError(w, err)
			return
		}
		s.metrics.collections.Set(float64(s.store.len()))
		w.WriteHeader(http.StatusNoContent)
	}
}

// readSamples decodes, classifies and folds the samples in the request body and
// returns the folded shape with the sample count. It writes an error response and
// returns false when that fails.
func (s *Server) readSamples(w http.ResponseWriter, r *http.Request) (shape.Shape, int, bool) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	bs, err := readAllEncoded(r.Header.Get("Content-Encoding"), body, s.maxBody)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, ErrUnsupportedEncoding):
			writeError(w, http.StatusUnsupportedMediaType, err.Error())
		case errors.As(err, &tooLarge), errors.Is(err, ErrBodyTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return nil, 0, false
	}

	start := time.Now()
	ss, err := infer.ParseSamples(bs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, 0, false
	}
	folded := infer.Fold(ss)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	s.metrics.samples.Add(float64(len(ss)))
	return folded, len(ss), true
}

func collectionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, ErrCollectionNotFound.Error())
		return uuid.Nil, false
	}
	return id, true
}

func writeSchema(w http.ResponseWriter, r *http.Request, sh shape.Shape) {
	switch r.URL.Query().Get("format") {
	case "", "jsonschema":
		writeJSON(w, http.StatusOK, jsonschema.Render(sh))
	case "openapi":
		writeJSON(w, http.StatusOK, apispec.Schema(sh))
	default:
		writeError(w, http.StatusBadRequest, "unknown format")
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrCollectionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := j.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("could not write response", "err", err)
	}
}
