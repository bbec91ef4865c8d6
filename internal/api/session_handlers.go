package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skillcompass/skillcompass-engine/internal/assessment"
	"github.com/skillcompass/skillcompass-engine/internal/results"
	"github.com/skillcompass/skillcompass-engine/internal/session"
)

// sessionView is the state snapshot served to the front end. Answers stay
// server-side; the UI only needs its position in the flow.
type sessionView struct {
	ID          string                 `json:"id"`
	Stage       assessment.Stage       `json:"stage"`
	QuestionSet assessment.QuestionSet `json:"question_set"`
	Batch       int                    `json:"batch"`
	Role        assessment.Role        `json:"role,omitempty"`
	RoleName    string                 `json:"role_name,omitempty"`
	Progress    assessment.Progress    `json:"progress"`
	HasResults  bool                   `json:"has_results"`
}

func viewOf(s session.Session) sessionView {
	return sessionView{
		ID:          s.ID,
		Stage:       s.State.Stage,
		QuestionSet: s.State.QuestionSet,
		Batch:       s.State.Batch,
		Role:        s.State.Role,
		RoleName:    s.State.Role.Name(),
		Progress:    s.State.Progress(),
		HasResults:  s.State.Results != nil,
	}
}

// POST /sessions
func CreateSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Create(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(s))
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			engineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// PUT /sessions/{sessionID}/biodata
// Required-field and email-format checks live here, at capture time; the
// engine itself never validates biodata.
func PutBiodataHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b assessment.Biodata
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		b.FullName = strings.TrimSpace(b.FullName)
		b.Email = strings.TrimSpace(b.Email)
		if b.FullName == "" || b.Email == "" || b.AgeGroup == "" {
			http.Error(w, "full_name, email and age_group are required", 400)
			return
		}
		if !emailRe.MatchString(b.Email) {
			http.Error(w, "invalid email address", 400)
			return
		}

		s, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			engineError(w, err)
			return
		}
		if s.State.Stage != assessment.StageBiodata {
			engineError(w, assessment.ErrWrongStage)
			return
		}
		s.Biodata = b
		if err := store.Put(r.Context(), s); err != nil {
			engineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

// POST /sessions/{sessionID}/role  {"role": "networkAdmin"}
func SelectRoleHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role assessment.Role `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		mutate(w, r, store, func(st assessment.State) (assessment.State, error) {
			return st.SelectRole(req.Role)
		})
	}
}

// GET /sessions/{sessionID}/batch
func GetBatchHandler(store session.Store, cat *assessment.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			engineError(w, err)
			return
		}
		qs, err := s.State.CurrentBatch(cat)
		if err != nil {
			engineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"question_set": s.State.QuestionSet,
			"batch":        s.State.Batch,
			"questions":    qs,
		})
	}
}

// POST /sessions/{sessionID}/answers  {"answers": {"general-1": true, ...}}
// Merges into the active set; re-posting an id overwrites the earlier answer.
func RecordAnswersHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answers map[string]bool `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if len(req.Answers) == 0 {
			http.Error(w, "answers required", 400)
			return
		}
		mutate(w, r, store, func(st assessment.State) (assessment.State, error) {
			return st.RecordBatchAnswers(req.Answers)
		})
	}
}

// POST /sessions/{sessionID}/advance
func AdvanceHandler(store session.Store, cat *assessment.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mutate(w, r, store, func(st assessment.State) (assessment.State, error) {
			return st.Advance(cat)
		})
	}
}

// POST /sessions/{sessionID}/retreat
func RetreatHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mutate(w, r, store, func(st assessment.State) (assessment.State, error) {
			return st.Retreat(), nil
		})
	}
}

// POST /sessions/{sessionID}/back-to-roles
// Discards all answers and any results; biodata is kept.
func BackToRolesHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mutate(w, r, store, func(st assessment.State) (assessment.State, error) {
			return st.BackToRoleSelection(), nil
		})
	}
}

// POST /sessions/{sessionID}/restart
// Full reset, then straight to the biodata stage.
func RestartHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			engineError(w, err)
			return
		}
		s.State = assessment.Start()
		s.Biodata = assessment.Biodata{}
		if err := store.Put(r.Context(), s); err != nil {
			engineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

// GET /sessions/{sessionID}/results
func GetResultsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			engineError(w, err)
			return
		}
		if s.State.Results == nil {
			http.Error(w, "assessment not complete", http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusOK, s.State.Results)
	}
}

// POST /sessions/{sessionID}/save
// Flattens the finished run into a record, stores it, and forwards it to
// the external bridge when one is configured. A failed forward is reported
// in the response; the session and the stored record are untouched by it.
func SaveResultsHandler(store session.Store, sink results.Store, hook *results.Webhook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			engineError(w, err)
			return
		}
		if s.State.Results == nil {
			http.Error(w, "assessment not complete", http.StatusConflict)
			return
		}
		rec, err := sink.Save(r.Context(), results.Flatten(s))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		sr := results.SaveResult{Success: true}
		if hook != nil {
			sr = hook.Forward(r.Context(), rec)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"record_id": rec.ID,
			"success":   sr.Success,
			"message":   sr.Message,
		})
	}
}

// mutate runs a state transition against a stored session and persists the
// outcome. On a transition error nothing is written back.
func mutate(w http.ResponseWriter, r *http.Request, store session.Store,
	fn func(assessment.State) (assessment.State, error)) {
	s, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		engineError(w, err)
		return
	}
	next, err := fn(s.State)
	if err != nil {
		engineError(w, err)
		return
	}
	s.State = next
	if err := store.Put(r.Context(), s); err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(s))
}
