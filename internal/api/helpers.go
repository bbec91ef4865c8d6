package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/skillcompass/skillcompass-engine/internal/assessment"
	"github.com/skillcompass/skillcompass-engine/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// engineError maps core and store errors onto HTTP statuses. Illegal
// transitions are conflicts, not server faults: the state is unchanged and
// the front end can recover.
func engineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, assessment.ErrBatchIncomplete),
		errors.Is(err, assessment.ErrWrongStage),
		errors.Is(err, assessment.ErrNoRoleSelected):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, assessment.ErrUnknownRole):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
