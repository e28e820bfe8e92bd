package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/omarluq/twcfg/internal/descriptor"
	"github.com/omarluq/twcfg/internal/pages"
	"github.com/omarluq/twcfg/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the pages site and the descriptor API.
type Handler struct {
	store       pages.Store
	renderer    *render.Renderer
	descriptors descriptor.Source
	metrics     *Metrics
	templates   *template.Template
}

// NewHandler parses the embedded templates and returns a Handler.
// metrics may be nil.
func NewHandler(
	store pages.Store,
	renderer *render.Renderer,
	descriptors descriptor.Source,
	metrics *Metrics,
) (*Handler, error) {
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		"date": func(t time.Time) string { return t.Format(pages.DateOnly) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handler{
		store:       store,
		renderer:    renderer,
		descriptors: descriptors,
		metrics:     metrics,
		templates:   tmpl,
	}, nil
}

// site is the data shared by every HTML template.
type site struct {
	DarkMode string
	Plugins  []string
}

type indexView struct {
	Query string
	Pages []pages.Page
	Site  site
}

type pageView struct {
	Body template.HTML
	Page pages.Page
	Site site
}

func (h *Handler) site() site {
	d := h.descriptors.Get()
	if d == nil {
		return site{DarkMode: string(descriptor.DefaultDarkMode)}
	}
	return site{DarkMode: string(d.EffectiveDarkMode()), Plugins: d.PluginNames()}
}

// Index lists pages, filtered by ?q= when present.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	list, err := h.store.SearchPages(r.Context(), query)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.renderHTML(w, r, "index.html", indexView{Query: query, Pages: list, Site: h.site()})
}

// Page renders a single page body.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := h.store.GetPage(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			http.NotFound(w, r)
			return
		}
		h.writeStoreError(w, r, err)
		return
	}

	body, err := h.renderer.Page(r.Context(), &page)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("hash", page.Hash).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.renderHTML(w, r, "page.html", pageView{Body: body, Page: page, Site: h.site()})
}

func (h *Handler) renderHTML(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("failed to execute template")
	}
}

// ListPages returns all pages as JSON, filtered by ?q= when present.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.SearchPages(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetPage returns one page as JSON.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.store.GetPage(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CreatePage stores a new page and answers 201 with its location.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	page, err := h.store.CreatePage(r.Context(), req)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("hash", page.Hash).Msg("page created")
	h.refreshPageCount(r.Context())

	w.Header().Set("Location", "/api/pages/"+url.PathEscape(page.Hash))
	writeJSON(w, http.StatusCreated, page)
}

// UpdatePage replaces the fields present in the body. The hash comes from the URL.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	req.Hash = chi.URLParam(r, "hash")

	page, err := h.store.UpdatePage(r.Context(), req)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("hash", page.Hash).Msg("page updated")
	writeJSON(w, http.StatusOK, page)
}

// DeletePage removes a page and answers 204.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if err := h.store.DeletePage(r.Context(), hash); err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("hash", hash).Msg("page deleted")
	h.refreshPageCount(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (pages.Request, bool) {
	var req pages.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if IsBodyTooLargeError(err) {
			WriteBodyTooLargeError(w)
			return req, false
		}
		WriteError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "invalid JSON body: "+err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pages.ErrPageNotFound):
		WriteError(w, http.StatusNotFound, ErrTypeNotFound, err.Error())
	case errors.Is(err, pages.ErrPageExists):
		WriteError(w, http.StatusConflict, ErrTypeConflict, err.Error())
	case errors.Is(err, pages.ErrInvalidRequest):
		WriteError(w, http.StatusBadRequest, ErrTypeInvalidRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("page store failed")
		WriteError(w, http.StatusInternalServerError, ErrTypeInternal, "internal error")
	}
}

// refreshPageCount keeps the pages gauge in step with the store.
func (h *Handler) refreshPageCount(ctx context.Context) {
	if h.metrics == nil {
		return
	}
	list, err := h.store.GetPages(ctx)
	if err != nil {
		return
	}
	h.metrics.SetPages(len(list))
}

// FieldResponse is the body of GET /api/descriptor?field=.
type FieldResponse struct {
	Value any    `json:"value"`
	Field string `json:"field"`
}

// MatchResponse is the body of GET /api/descriptor/match.
type MatchResponse struct {
	Path     string   `json:"path"`
	Patterns []string `json:"patterns"`
	Matched  bool     `json:"matched"`
}

// Descriptor returns the live descriptor, or the value at ?field= when given.
func (h *Handler) Descriptor(w http.ResponseWriter, r *http.Request) {
	d, ok := h.currentDescriptor(w)
	if !ok {
		return
	}

	field := r.URL.Query().Get("field")
	if field == "" {
		writeJSON(w, http.StatusOK, d.Tree())
		return
	}

	value, found := d.Lookup(field).Get()
	if !found {
		WriteError(w, http.StatusNotFound, ErrTypeNotFound, fmt.Sprintf("field %q not found", field))
		return
	}
	writeJSON(w, http.StatusOK, FieldResponse{Field: field, Value: value})
}

// Match reports which content patterns cover ?path=.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		WriteError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "path query parameter is required")
		return
	}

	d, ok := h.currentDescriptor(w)
	if !ok {
		return
	}

	matcher, err := d.Matcher()
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to compile content patterns")
		WriteError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}

	patterns := matcher.MatchingPatterns(path)
	writeJSON(w, http.StatusOK, MatchResponse{
		Path:     path,
		Patterns: patterns,
		Matched:  len(patterns) > 0,
	})
}

func (h *Handler) currentDescriptor(w http.ResponseWriter) (*descriptor.Descriptor, bool) {
	d := h.descriptors.Get()
	if d == nil {
		WriteError(w, http.StatusServiceUnavailable, ErrTypeInternal, "descriptor not loaded")
		return nil, false
	}
	return d, true
}

// Health reports liveness and the page count.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.GetPages(r.Context())
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, ErrTypeInternal, "page store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "pages": len(list)})
}
