package http

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sagarc03/appshelf"
)

type Service interface {
	RenderPage(ctx context.Context, page appshelf.Page) ([]byte, error)
	Sections(ctx context.Context, appType string) ([]appshelf.Section, error)
	GetApp(ctx context.Context, path string) (appshelf.ObjectEntry, io.ReadSeekCloser, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" validate:"gte=0"`
}

type HandlerConfig struct {
	// Pages are the rendered routes. Defaults to appshelf.DefaultPages().
	Pages []appshelf.Page
	CORS  CORSConfig
	// Static is served for every path not matched by a page or the apps
	// route. Nil disables static serving.
	Static fs.FS
}

// Handler provides the HTTP handlers of the catalog server.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if len(cfg.Pages) == 0 {
		cfg.Pages = appshelf.DefaultPages()
	}
	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns an http.Handler serving the configured pages, package
// downloads under /apps/, the sections API and static files.
// HEAD requests are answered by the GET handlers.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	for _, page := range h.config.Pages {
		r.Get(page.Route, h.handlePage(page))
	}

	r.Get(appshelf.AppsRoute+"*", h.handleApp)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sections", h.handleSections)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, http.StatusNotFound, "not_found", "Unknown API route")
		})
	})

	if h.config.Static != nil {
		r.Get("/*", h.handleStatic(h.config.Static))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorPage(w, http.StatusNotFound, "File not found")
	})

	return r
}

func (h *Handler) handlePage(page appshelf.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := h.service.RenderPage(r.Context(), page)
		if err != nil {
			HandlePageError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func (h *Handler) handleApp(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, appshelf.AppsRoute)

	if path == "" {
		writeErrorPage(w, http.StatusNotFound, "File not found")
		return
	}

	if !appshelf.IsValidPath(path) {
		writeErrorPage(w, http.StatusBadRequest, "Invalid path")
		return
	}

	entry, content, err := h.service.GetApp(r.Context(), path)
	if err != nil {
		HandlePageError(w, err)
		return
	}
	defer func() { _ = content.Close() }()

	w.Header().Set("Content-Type", entry.ContentType)

	http.ServeContent(w, r, path, entry.ModTime, content)
}

// SectionsResponse is the body of GET /api/sections.
type SectionsResponse struct {
	Sections []appshelf.Section `json:"sections"`
}

func (h *Handler) handleSections(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()["appType"]
	if len(values) > 1 {
		WriteError(w, http.StatusBadRequest, "invalid_input", "appType given more than once")
		return
	}

	var appType string
	if len(values) == 1 {
		appType = values[0]
	}

	sections, err := h.service.Sections(r.Context(), appType)
	if err != nil {
		HandleError(w, err)
		return
	}

	if sections == nil {
		sections = []appshelf.Section{}
	}

	_ = WriteJSON(w, http.StatusOK, SectionsResponse{Sections: sections})
}

func (h *Handler) handleStatic(fsys fs.FS) http.HandlerFunc {
	fileServer := http.FileServerFS(fsys)

	return func(w http.ResponseWriter, r *http.Request) {
		if hasHiddenSegment(r.URL.Path) {
			writeErrorPage(w, http.StatusNotFound, "File not found")
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

// hasHiddenSegment reports whether any segment of p starts with a dot, which
// keeps files such as .env out of static serving.
func hasHiddenSegment(p string) bool {
	for segment := range strings.SplitSeq(p, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
