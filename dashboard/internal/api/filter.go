package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/menuscore/menuscore/dashboard/internal/store"
)

// parseFilter reads the filter query parameters of r.
func parseFilter(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()
	f := store.AllItems()

	for _, c := range q["category"] {
		if c = strings.TrimSpace(c); c != "" {
			f.Categories = append(f.Categories, c)
		}
	}

	var err error
	if f.MinScore, err = scoreParam(q.Get("min_score"), f.MinScore); err != nil {
		return f, fmt.Errorf("min_score: %w", err)
	}
	if f.MaxScore, err = scoreParam(q.Get("max_score"), f.MaxScore); err != nil {
		return f, fmt.Errorf("max_score: %w", err)
	}
	if f.MinScore > f.MaxScore {
		return f, fmt.Errorf("min_score %v is above max_score %v", f.MinScore, f.MaxScore)
	}

	if f.HighProtein, err = boolParam(q.Get("high_protein")); err != nil {
		return f, fmt.Errorf("high_protein: %w", err)
	}
	if f.LowSodium, err = boolParam(q.Get("low_sodium")); err != nil {
		return f, fmt.Errorf("low_sodium: %w", err)
	}
	return f, nil
}

func scoreParam(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%v is outside [0, 100]", v)
	}
	return v, nil
}

func boolParam(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", raw)
	}
	return v, nil
}
