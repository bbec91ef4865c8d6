package api

import (
	"net/http"

	"github.com/skillcompass/skillcompass-engine/internal/assessment"
)

// GET /roles — the closed set of assessable tracks, in display order.
func RolesHandler() http.HandlerFunc {
	type roleView struct {
		ID   assessment.Role `json:"id"`
		Name string          `json:"name"`
	}
	views := make([]roleView, 0, len(assessment.Roles))
	for _, r := range assessment.Roles {
		views = append(views, roleView{ID: r, Name: r.Name()})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, views)
	}
}

// GET /courses — the full course catalog, keyed by course name, for the
// front end to render recommendation details.
func CoursesHandler(cat *assessment.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.Courses)
	}
}
