package api

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Loaded           bool           `json:"loaded"`
	TotalItems       int            `json:"total_items"`
	AverageScore     float64        `json:"average_score"`
	HighProteinItems int            `json:"high_protein_items"`
	Tiers            map[string]int `json:"tiers"`
}

// ItemResponse is one menu item in GET /api/v1/items and related lists.
// Nutrient fields are null when the value is missing.
type ItemResponse struct {
	Rank         int      `json:"rank"`
	Item         string   `json:"item"`
	Category     string   `json:"category"`
	Calories     *float64 `json:"calories"`
	Protein      *float64 `json:"protein"`
	Sodium       *float64 `json:"sodium"`
	Sugars       *float64 `json:"sugars"`
	DietaryFiber *float64 `json:"dietary_fiber"`
	SaturatedFat *float64 `json:"saturated_fat"`
	HealthScore  float64  `json:"health_score"`
	Tag          string   `json:"tag"`
}

// NutrientResponse is one bar of a category profile.
type NutrientResponse struct {
	Name         string  `json:"name"`
	AverageGrams float64 `json:"average_grams"`
	Color        string  `json:"color"`
}

// ProfileResponse is the payload for GET /api/v1/categories/:name/profile.
type ProfileResponse struct {
	Category        string             `json:"category"`
	Items           int                `json:"items"`
	Nutrients       []NutrientResponse `json:"nutrients"`
	AverageCalories float64            `json:"average_calories"`
}

// SnapshotResponse is the payload for GET /api/v1/snapshot and the data of
// every WebSocket message.
type SnapshotResponse struct {
	Health      HealthResponse `json:"health"`
	TopItems    []ItemResponse `json:"top_items"`
	DatasetPath string         `json:"dataset_path"`
	LoadedAt    string         `json:"loaded_at,omitempty"` // RFC3339
	GeneratedAt string         `json:"generated_at"`        // RFC3339
}

// StageResponse is one pipeline stage in GET /api/v1/pipeline.
type StageResponse struct {
	Name            string  `json:"name"`
	Rows            int     `json:"rows"`
	Columns         int     `json:"columns"`
	DurationSeconds float64 `json:"duration_seconds"`
	FinishedAt      string  `json:"finished_at"` // RFC3339
}

// PipelineResponse is the payload for GET /api/v1/pipeline.
type PipelineResponse struct {
	Stages []StageResponse `json:"stages"`
	Tiers  map[string]int  `json:"tiers,omitempty"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
