// Package api serves the dataset, projections and embed codes over HTTP.
//
// The dataset is read-only. View state is not kept between requests:
// each /api/view request rebuilds it from its query parameters.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/anrid/japan-co2/pkg/co2"
	"github.com/anrid/japan-co2/pkg/embed"
	"github.com/anrid/japan-co2/pkg/view"
)

// maxImportSize bounds POST /api/co2-data/import bodies.
const maxImportSize = 8 << 20

type Handler struct {
	ds     *co2.Dataset
	embeds *embed.Generator
	log    *zap.Logger
}

func NewHandler(ds *co2.Dataset, embeds *embed.Generator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{ds: ds, embeds: embeds, log: log}
}

// Routes returns the router for every endpoint.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/co2-data", func(r chi.Router) {
			r.Get("/", h.handleGetDataset)
			r.Get("/prefecture/{id}", h.handleGetPrefecture)
			r.Get("/city/{prefId}/{cityId}", h.handleGetCity)
			r.Get("/export.xlsx", h.handleExportXLSX)
			r.Post("/import", h.handleImport)
		})
		r.Get("/view", h.handleGetView)
		r.Get("/embed", h.handleGetEmbed)
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"prefectures": len(h.ds.Prefectures),
		"cities":      h.ds.CityCount(),
	})
}

func (h *Handler) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ds)
}

// regionResponse is a region with its id inlined.
type regionResponse struct {
	ID string `json:"id"`
	co2.Region
	Cities map[string]co2.Region `json:"cities,omitempty"`
}

func (h *Handler) handleGetPrefecture(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, found := h.ds.Prefecture(id)
	if !found {
		h.writeError(w, http.StatusNotFound, "not_found", "prefecture not found", map[string]any{"id": id})
		return
	}
	h.writeJSON(w, http.StatusOK, regionResponse{ID: id, Region: p.Region, Cities: p.Cities})
}

func (h *Handler) handleGetCity(w http.ResponseWriter, r *http.Request) {
	prefID := chi.URLParam(r, "prefId")
	cityID := chi.URLParam(r, "cityId")
	c, found := h.ds.City(prefID, cityID)
	if !found {
		h.writeError(w, http.StatusNotFound, "not_found", "city not found", map[string]any{"prefId": prefID, "cityId": cityID})
		return
	}
	h.writeJSON(w, http.StatusOK, regionResponse{ID: cityID, Region: c})
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := co2.ExportXLSX(h.ds, &buf); err != nil {
		h.log.Error("xlsx export failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "export_failed", "could not build workbook", nil)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="co2-reduction-data.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// importResponse reports what an import would contain. Nothing is
// merged into the served dataset.
type importResponse struct {
	Prefectures  int      `json:"prefectures"`
	Cities       int      `json:"cities"`
	Inconsistent []string `json:"inconsistent,omitempty"`
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "read_failed", "could not read request body", nil)
		return
	}

	ds, err := co2.ImportJSON(data)
	if err != nil {
		h.log.Warn("import rejected", zap.Error(err))
		code := "parse_failed"
		if errors.Is(err, co2.ErrInvalidDataset) {
			code = "validation_failed"
		}
		h.writeError(w, http.StatusBadRequest, code, err.Error(), nil)
		return
	}

	h.log.Info("import parsed",
		zap.Int("prefectures", len(ds.Prefectures)),
		zap.Int("cities", ds.CityCount()),
	)
	h.writeJSON(w, http.StatusOK, importResponse{
		Prefectures:  len(ds.Prefectures),
		Cities:       ds.CityCount(),
		Inconsistent: ds.Inconsistent(),
	})
}

func (h *Handler) handleGetView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	level := view.Level(q.Get("level"))
	if level != "" && !level.Valid() {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid level", map[string]any{"level": level})
		return
	}

	s := view.New()
	if selected := q.Get("selected"); selected != "" {
		s.SelectRegion(selected)
	}
	if level != "" {
		s.SetViewLevel(level)
	}

	h.writeJSON(w, http.StatusOK, s.Project(h.ds))
}

func (h *Handler) handleGetEmbed(w http.ResponseWriter, r *http.Request) {
	cfg, err := parseEmbedConfig(r)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", err.Error(), nil)
		return
	}

	snippets, err := h.embeds.Snippets(cfg)
	if err != nil {
		h.log.Error("embed generation failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "embed_failed", "could not generate embed code", nil)
		return
	}
	h.writeJSON(w, http.StatusOK, snippets)
}

// parseEmbedConfig overlays query parameters on the default widget
// configuration.
func parseEmbedConfig(r *http.Request) (embed.Config, error) {
	cfg := embed.DefaultConfig()
	q := r.URL.Query()

	ints := map[string]*int{"width": &cfg.Width, "height": &cfg.Height}
	for name, dst := range ints {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return cfg, errors.New("invalid " + name)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"showLegend":       &cfg.ShowLegend,
		"showTooltips":     &cfg.ShowTooltips,
		"allowLevelSwitch": &cfg.AllowLevelSwitch,
	}
	for name, dst := range bools {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return cfg, errors.New("invalid " + name)
			}
			*dst = b
		}
	}

	if v := q.Get("theme"); v != "" {
		cfg.Theme = embed.Theme(v)
	}
	if v := q.Get("defaultView"); v != "" {
		cfg.DefaultView = view.Level(v)
	}
	return cfg, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	h.writeJSON(w, status, errorResponse{Error: code, Message: message, Details: details})
}
