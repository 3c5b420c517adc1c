package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/menuscore/menuscore/dashboard/internal/charts"
	"github.com/menuscore/menuscore/dashboard/internal/store"
	"github.com/menuscore/menuscore/pkg/dataset"
	"github.com/menuscore/menuscore/pkg/jobmetrics"
)

// Settings are the tunable parts of the API. They can be replaced at runtime
// with SetSettings when the config file changes.
type Settings struct {
	Thresholds store.Thresholds
	// TopN is the default length of top lists and the top chart.
	TopN int
	// PipelineMetricsPath is the job metrics textfile. Empty disables
	// /api/v1/pipeline.
	PipelineMetricsPath string
}

// Handler serves the dashboard HTTP routes.
type Handler struct {
	store   *store.Store
	router  *httprouter.Router
	handler http.Handler
	now     func() time.Time

	mu       sync.RWMutex
	settings Settings
}

// New creates a Handler reading from st and registers all routes.
func New(st *store.Store, s Settings) *Handler {
	h := &Handler{
		store:    st,
		router:   httprouter.New(),
		now:      time.Now,
		settings: s,
	}

	h.router.HandlerFunc(http.MethodGet, "/api/v1/health", h.health)
	h.router.HandlerFunc(http.MethodGet, "/api/v1/items", h.listItems)
	h.router.HandlerFunc(http.MethodGet, "/api/v1/items/top", h.topItems)
	h.router.HandlerFunc(http.MethodGet, "/api/v1/categories", h.categories)
	h.router.HandlerFunc(http.MethodGet, "/api/v1/categories/:name/profile", h.profile)
	h.router.HandlerFunc(http.MethodGet, "/api/v1/snapshot", h.snapshot)
	h.router.HandlerFunc(http.MethodGet, "/api/v1/pipeline", h.pipeline)
	h.router.HandlerFunc(http.MethodGet, "/charts/top.png", h.topChart)
	h.router.HandlerFunc(http.MethodGet, "/charts/categories/:file", h.profileChart)
	h.router.HandlerFunc(http.MethodGet, "/metrics", h.metrics)

	h.router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	h.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusNotFound, "not found")
	})

	h.handler = NewRequestLoggingMiddleware(slog.Default())(h.router)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

// Mount registers handler for GET requests on path, e.g. the WebSocket hub.
func (h *Handler) Mount(path string, handler http.Handler) {
	h.router.Handler(http.MethodGet, path, handler)
}

// Settings returns the current settings.
func (h *Handler) Settings() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings
}

// SetSettings replaces the settings used by subsequent requests.
func (h *Handler) SetSettings(s Settings) {
	h.mu.Lock()
	h.settings = s
	h.mu.Unlock()
}

// Snapshot builds the unfiltered dashboard snapshot. The WebSocket hub pushes
// the same payload.
func (h *Handler) Snapshot() SnapshotResponse {
	s := h.Settings()
	resp := SnapshotResponse{
		DatasetPath: h.store.Path(),
		GeneratedAt: h.now().UTC().Format(time.RFC3339),
		TopItems:    []ItemResponse{},
	}

	snap := h.store.Snapshot()
	if snap == nil {
		resp.Health = toHealth(nil, false, s.Thresholds)
		return resp
	}
	resp.Health = toHealth(snap.Items, true, s.Thresholds)
	resp.TopItems = toItems(store.Rank(snap.Items, s.TopN))
	resp.LoadedAt = snap.LoadedAt.UTC().Format(time.RFC3339)
	return resp
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health: KPIs of the filtered items.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	s := h.Settings()

	snap := h.store.Snapshot()
	if snap == nil {
		jsonResp(w, http.StatusOK, toHealth(nil, false, s.Thresholds))
		return
	}
	jsonResp(w, http.StatusOK, toHealth(store.Select(snap.Items, f, s.Thresholds), true, s.Thresholds))
}

// listItems returns GET /api/v1/items: filtered items, best first.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, ok := h.filtered(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, toItems(store.Rank(items, 0)))
}

// topItems returns GET /api/v1/items/top?n=: the n best filtered items.
func (h *Handler) topItems(w http.ResponseWriter, r *http.Request) {
	n, err := h.parseTopN(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	items, ok := h.filtered(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, toItems(store.Rank(items, n)))
}

// categories returns GET /api/v1/categories: every category in the dataset.
func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	items, ok := h.loaded(w)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, store.Categories(items))
}

// profile returns GET /api/v1/categories/:name/profile.
func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	items, ok := h.filtered(w, r)
	if !ok {
		return
	}
	name := httprouter.ParamsFromContext(r.Context()).ByName("name")
	prof, found := store.CategoryProfile(items, name)
	if !found {
		jsonErr(w, http.StatusNotFound, "category not found")
		return
	}
	jsonResp(w, http.StatusOK, toProfile(prof))
}

// snapshot returns GET /api/v1/snapshot.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, h.Snapshot())
}

// pipeline returns GET /api/v1/pipeline: the last recorded pipeline run.
func (h *Handler) pipeline(w http.ResponseWriter, r *http.Request) {
	path := h.Settings().PipelineMetricsPath
	if path == "" {
		jsonErr(w, http.StatusNotFound, "pipeline metrics not configured")
		return
	}
	rep, err := jobmetrics.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			jsonErr(w, http.StatusNotFound, "no pipeline run recorded")
			return
		}
		slog.Error("api: read pipeline metrics", "path", path, "err", err)
		jsonErr(w, http.StatusInternalServerError, "pipeline metrics unreadable")
		return
	}
	jsonResp(w, http.StatusOK, toPipeline(rep))
}

// topChart returns GET /charts/top.png.
func (h *Handler) topChart(w http.ResponseWriter, r *http.Request) {
	n, err := h.parseTopN(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	items, ok := h.filtered(w, r)
	if !ok {
		return
	}
	pngResp(w, func(w io.Writer) error { return charts.TopItems(w, store.Rank(items, n)) })
}

// profileChart returns GET /charts/categories/:name.png.
func (h *Handler) profileChart(w http.ResponseWriter, r *http.Request) {
	file := httprouter.ParamsFromContext(r.Context()).ByName("file")
	name, isPNG := strings.CutSuffix(file, ".png")
	if !isPNG || name == "" {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}
	items, ok := h.filtered(w, r)
	if !ok {
		return
	}
	prof, found := store.CategoryProfile(items, name)
	if !found {
		jsonErr(w, http.StatusNotFound, "category not found")
		return
	}
	pngResp(w, func(w io.Writer) error { return charts.CategoryProfile(w, prof) })
}

// --- helpers ----------------------------------------------------------------

// loaded returns the current items, or writes 503 when nothing is loaded.
func (h *Handler) loaded(w http.ResponseWriter) ([]dataset.ScoredItem, bool) {
	snap := h.store.Snapshot()
	if snap == nil {
		jsonErr(w, http.StatusServiceUnavailable, "dataset not loaded")
		return nil, false
	}
	return snap.Items, true
}

// filtered returns the items matching the request's filter parameters. It
// writes the error response itself when it returns false.
func (h *Handler) filtered(w http.ResponseWriter, r *http.Request) ([]dataset.ScoredItem, bool) {
	f, err := parseFilter(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	items, ok := h.loaded(w)
	if !ok {
		return nil, false
	}
	return store.Select(items, f, h.Settings().Thresholds), true
}

func (h *Handler) parseTopN(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return h.Settings().TopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("n must be a positive integer")
	}
	return n, nil
}

// pngResp renders a chart into memory first so a failure can still be
// reported as JSON.
func pngResp(w http.ResponseWriter, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			jsonErr(w, http.StatusNotFound, "no items match")
			return
		}
		slog.Error("api: render chart", "err", err)
		jsonErr(w, http.StatusInternalServerError, "chart rendering failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

func toHealth(items []dataset.ScoredItem, loaded bool, th store.Thresholds) HealthResponse {
	k := store.Summarize(items, th)
	return HealthResponse{
		Loaded:           loaded,
		TotalItems:       k.Total,
		AverageScore:     k.AverageScore,
		HighProteinItems: k.HighProtein,
		Tiers:            k.Tiers,
	}
}

// toItems maps ranked items to their JSON form, numbering them from 1.
func toItems(items []dataset.ScoredItem) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = ItemResponse{
			Rank:         i + 1,
			Item:         it.Item,
			Category:     it.Category,
			Calories:     amountPtr(it.Calories),
			Protein:      amountPtr(it.Protein),
			Sodium:       amountPtr(it.Sodium),
			Sugars:       amountPtr(it.Sugars),
			DietaryFiber: amountPtr(it.DietaryFiber),
			SaturatedFat: amountPtr(it.SaturatedFat),
			HealthScore:  it.Score,
			Tag:          it.Tier(),
		}
	}
	return out
}

func toProfile(p store.Profile) ProfileResponse {
	resp := ProfileResponse{
		Category:        p.Category,
		Items:           p.Items,
		Nutrients:       make([]NutrientResponse, 0, len(p.Nutrients)),
		AverageCalories: p.Calories,
	}
	for _, nm := range p.Nutrients {
		resp.Nutrients = append(resp.Nutrients, NutrientResponse{
			Name:         nm.Nutrient.String(),
			AverageGrams: nm.Grams,
			Color:        charts.NutrientColors[nm.Nutrient],
		})
	}
	return resp
}

func toPipeline(rep *jobmetrics.Report) PipelineResponse {
	names := make([]string, 0, len(rep.Stages))
	for name := range rep.Stages {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := PipelineResponse{Stages: make([]StageResponse, 0, len(names)), Tiers: rep.Tiers}
	for _, name := range names {
		st := rep.Stages[name]
		resp.Stages = append(resp.Stages, StageResponse{
			Name:            st.Name,
			Rows:            st.Rows,
			Columns:         st.Columns,
			DurationSeconds: st.Duration.Seconds(),
			FinishedAt:      st.FinishedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}

func amountPtr(a dataset.Amount) *float64 {
	if !a.Present {
		return nil
	}
	v := a.Value
	return &v
}
