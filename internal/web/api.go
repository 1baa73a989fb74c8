package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mtstandards/mtmeta/codec"
	"github.com/mtstandards/mtmeta/model"
	"github.com/mtstandards/mtmeta/schema"
	"github.com/mtstandards/mtmeta/standards"
)

// API answers schema inspection, validation and conversion requests.
// Schemas come from the user registry first (possibly hot-reloaded by the
// watcher) and fall back to the built-in standard library.
type API struct {
	registry *schema.Registry
	library  *standards.Library
	log      *zap.Logger
}

// NewAPI creates the API over a user schema registry.
func NewAPI(registry *schema.Registry, library *standards.Library, log *zap.Logger) *API {
	return &API{
		registry: registry,
		library:  library,
		log:      log,
	}
}

// Router builds the chi route tree.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(a.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/schemas", a.listSchemas)
		r.Get("/schemas/{name}", a.getSchema)
		r.Post("/schemas/{name}/validate", a.validateDocument)
		r.Post("/schemas/{name}/convert", a.convertDocument)
	})
	return r
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		a.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (a *API) listSchemas(w http.ResponseWriter, r *http.Request) {
	names := a.registry.Names()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	if a.library != nil {
		for name := range a.library.Types() {
			if !seen[name] {
				names = append(names, name)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemas": names})
}

func (a *API) getSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s, ok := a.lookupSchema(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("schema %s not found", name))
		return
	}

	document, err := s.SpecJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

func (a *API) validateDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	t, ok := a.lookupType(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("schema %s not found", name))
		return
	}

	var record map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	errs := t.Check(record)
	if errs.HasErrors() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		payload, _ := json.Marshal(errs)
		w.Write(payload)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "schema": name})
}

func (a *API) convertDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	t, ok := a.lookupType(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("schema %s not found", name))
		return
	}

	body := json.NewDecoder(r.Body)
	body.UseNumber()
	var record map[string]any
	if err := body.Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	inst, err := t.New(record)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	switch to := r.URL.Query().Get("to"); to {
	case "", "json":
		out, err := codec.ToJSONIndent(inst)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(out)

	case "flat":
		writeJSON(w, http.StatusOK, codec.ToFlatMap(inst))

	case "xml":
		out, err := codec.EncodeXML(inst, standards.XMLPlan(name))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		w.Write(out)

	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown target representation %q", to))
	}
}

// lookupType resolves an entity type by name, preferring user schemas over
// the standard library.
func (a *API) lookupType(name string) (*model.EntityType, bool) {
	if s, ok := a.registry.Get(name); ok {
		t, err := model.Compile(s)
		if err != nil {
			a.log.Warn("failed to compile registered schema",
				zap.String("schema", name), zap.Error(err))
			return nil, false
		}
		return t, true
	}
	if a.library != nil {
		return a.library.Type(name)
	}
	return nil, false
}

func (a *API) lookupSchema(name string) (*schema.EntitySchema, bool) {
	if s, ok := a.registry.Get(name); ok {
		return s, true
	}
	if a.library != nil {
		if t, ok := a.library.Type(name); ok {
			return t.Schema(), true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
