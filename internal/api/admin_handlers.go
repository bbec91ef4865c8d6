package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/skillcompass/skillcompass-engine/internal/assessment"
	"github.com/skillcompass/skillcompass-engine/internal/results"
)

// GET /admin/results?role=...&limit=50&offset=0
func ListResultsHandler(sink results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, ok := listOptsFrom(w, r)
		if !ok {
			return
		}
		list, err := sink.List(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /admin/results/export — same listing, served as a JSON download.
func ExportResultsHandler(sink results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, ok := listOptsFrom(w, r)
		if !ok {
			return
		}
		list, err := sink.List(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="assessment_results.json"`)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(list)
	}
}

func listOptsFrom(w http.ResponseWriter, r *http.Request) (results.ListOpts, bool) {
	opts := results.ListOpts{
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
		Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
	}
	if role := strings.TrimSpace(r.URL.Query().Get("role")); role != "" {
		rr := assessment.Role(role)
		if !rr.Valid() {
			http.Error(w, "unknown role", 400)
			return opts, false
		}
		opts.Role = rr
	}
	return opts, true
}
