package results

import (
	"github.com/skillcompass/skillcompass-engine/internal/assessment"
	"github.com/skillcompass/skillcompass-engine/internal/session"
)

// Record is the flat, saved form of a completed run: biodata plus the
// outcome, with recommendations reduced to course names. This is the shape
// the spreadsheet bridge and the admin listing both consume.
type Record struct {
	ID              int64    `json:"id,omitempty"`
	FullName        string   `json:"full_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	AgeGroup        string   `json:"age_group"`
	Role            string   `json:"role"`
	RoleName        string   `json:"role_name"`
	SuccessRate     int      `json:"success_rate"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	SavedAt         int64    `json:"saved_at,omitempty"`
}

// Flatten builds a Record from a finished session. The caller must have
// checked that results exist.
func Flatten(s session.Session) Record {
	snap := s.State.Results
	recs := make([]string, 0, len(snap.Recommendations))
	for _, r := range snap.Recommendations {
		recs = append(recs, r.CourseName)
	}
	return Record{
		FullName:        s.Biodata.FullName,
		Email:           s.Biodata.Email,
		Phone:           s.Biodata.Phone,
		AgeGroup:        s.Biodata.AgeGroup,
		Role:            string(s.State.Role),
		RoleName:        s.State.Role.Name(),
		SuccessRate:     snap.SuccessRate,
		Strengths:       snap.Strengths,
		Weaknesses:      snap.Weaknesses,
		Recommendations: recs,
	}
}

// ListOpts filters and pages the admin listing.
type ListOpts struct {
	Role   assessment.Role // optional: only runs for this track
	Limit  int
	Offset int
}
