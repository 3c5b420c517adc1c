package api

import (
	"log/slog"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/menuscore/menuscore/dashboard/internal/store"
	"github.com/menuscore/menuscore/pkg/jobmetrics"
	"github.com/menuscore/menuscore/pkg/types"
)

// Dashboard metric family names.
const (
	metricItems         = "menuscore_dataset_items"
	metricLoadedAt      = "menuscore_dataset_loaded_timestamp_seconds"
	metricCategoryItems = "menuscore_category_items"
	metricCategoryScore = "menuscore_category_mean_score"
	metricTierItems     = "menuscore_dataset_items_by_tier"
)

// metrics returns GET /metrics in the exposition format the scraper asks for.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	format := expfmt.Negotiate(r.Header)
	w.Header().Set("Content-Type", string(format))

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range h.families() {
		if len(mf.GetMetric()) == 0 {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			slog.Error("api: encode metrics", "family", mf.GetName(), "err", err)
			return
		}
	}
	if closer, ok := enc.(expfmt.Closer); ok {
		closer.Close() //nolint:errcheck
	}
}

// families describes the loaded dataset as gauges.
func (h *Handler) families() []*dto.MetricFamily {
	total := jobmetrics.Gauge(metricItems, "Menu items in the loaded scored dataset.")
	loadedAt := jobmetrics.Gauge(metricLoadedAt, "Unix time the scored dataset was last loaded.")
	perCategory := jobmetrics.Gauge(metricCategoryItems, "Menu items per category.")
	meanScore := jobmetrics.Gauge(metricCategoryScore, "Mean health score per category.")
	perTier := jobmetrics.Gauge(metricTierItems, "Menu items per health tier.")

	snap := h.store.Snapshot()
	if snap == nil {
		jobmetrics.AddSample(total, 0)
		return []*dto.MetricFamily{total}
	}

	jobmetrics.AddSample(total, float64(len(snap.Items)))
	jobmetrics.AddSample(loadedAt, float64(snap.LoadedAt.UnixNano())/1e9)

	for _, cat := range store.Categories(snap.Items) {
		items := store.Select(snap.Items, store.Filter{Categories: []string{cat}, MaxScore: 100}, store.Thresholds{})
		var sum float64
		for _, it := range items {
			sum += it.Score
		}
		jobmetrics.AddSample(perCategory, float64(len(items)), "category", cat)
		jobmetrics.AddSample(meanScore, sum/float64(len(items)), "category", cat)
	}

	k := store.Summarize(snap.Items, h.Settings().Thresholds)
	for _, tier := range types.Tiers {
		jobmetrics.AddSample(perTier, float64(k.Tiers[tier]), "tier", tier)
	}
	return []*dto.MetricFamily{total, loadedAt, perCategory, meanScore, perTier}
}
