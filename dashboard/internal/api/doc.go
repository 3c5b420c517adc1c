// Package api implements the HTTP surface of the menuscore dashboard.
//
// New(store, settings) returns a Handler that serves:
//
//	GET /api/v1/health                     - KPIs of the filtered items
//	GET /api/v1/items                      - filtered items, best score first
//	GET /api/v1/items/top?n=10             - top n filtered items
//	GET /api/v1/categories                 - sorted distinct categories
//	GET /api/v1/categories/:name/profile   - average nutrients of one category
//	GET /api/v1/snapshot                   - KPIs + top items + generated_at
//	GET /api/v1/pipeline                   - last pipeline run from the job metrics textfile
//	GET /charts/top.png                    - top filtered items bar chart
//	GET /charts/categories/:name.png       - category nutrient profile chart
//	GET /metrics                           - Prometheus exposition of the loaded dataset
//
// Filter query parameters (items, top, health, profile and charts):
// category (repeatable), min_score, max_score, high_protein, low_sodium.
// Malformed values yield 400.
//
// All JSON endpoints respond with Content-Type: application/json and return
// 405 for non-GET methods. Routes that need the dataset return 503 until the
// store has loaded. JSON types are defined in types.go.
package api
