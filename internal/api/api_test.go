package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/skillcompass/skillcompass-engine/internal/api"
	"github.com/skillcompass/skillcompass-engine/internal/assessment"
	"github.com/skillcompass/skillcompass-engine/internal/auth"
	"github.com/skillcompass/skillcompass-engine/internal/catalog"
	"github.com/skillcompass/skillcompass-engine/internal/results"
	"github.com/skillcompass/skillcompass-engine/internal/session"
)

const adminPass = "opensesame"

func newTestServer(t *testing.T, hook *results.Webhook) (*httptest.Server, results.Store) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	sink := results.NewMemoryStore()
	r := api.NewRouter(api.Options{
		Sessions:      session.NewMemoryStore(),
		Catalog:       cat,
		Results:       sink,
		Webhook:       hook,
		Auth:          auth.NewAuthService("test-secret"),
		AdminUser:     "admin",
		AdminPassHash: string(hash),
		CORSOrigins:   []string{"http://localhost:3000"},
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sink
}

func do(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, url, err)
		}
	}
	resp.Body.Close()
	return resp
}

type view struct {
	ID         string              `json:"id"`
	Stage      assessment.Stage    `json:"stage"`
	Batch      int                 `json:"batch"`
	Role       assessment.Role     `json:"role"`
	RoleName   string              `json:"role_name"`
	Progress   assessment.Progress `json:"progress"`
	HasResults bool                `json:"has_results"`
}

func answerCurrentBatch(t *testing.T, base, id string, val bool) {
	t.Helper()
	var batch struct {
		Questions []assessment.Question `json:"questions"`
	}
	resp := do(t, "GET", base+"/sessions/"+id+"/batch", nil, &batch)
	if resp.StatusCode != 200 {
		t.Fatalf("get batch: status %d", resp.StatusCode)
	}
	if len(batch.Questions) != assessment.BatchSize {
		t.Fatalf("batch has %d questions", len(batch.Questions))
	}
	answers := map[string]bool{}
	for _, q := range batch.Questions {
		answers[q.ID] = val
	}
	resp = do(t, "POST", base+"/sessions/"+id+"/answers",
		map[string]interface{}{"answers": answers}, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("record answers: status %d", resp.StatusCode)
	}
}

func advance(t *testing.T, base, id string) view {
	t.Helper()
	var v view
	resp := do(t, "POST", base+"/sessions/"+id+"/advance", nil, &v)
	if resp.StatusCode != 200 {
		t.Fatalf("advance: status %d", resp.StatusCode)
	}
	return v
}

func TestFullAssessmentFlow(t *testing.T) {
	var forwarded results.Record
	bridge := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&forwarded)
		_ = json.NewEncoder(w).Encode(results.SaveResult{Success: true, Message: "saved to sheet"})
	}))
	defer bridge.Close()

	srv, _ := newTestServer(t, results.NewWebhook(bridge.URL))
	base := srv.URL

	var v view
	resp := do(t, "POST", base+"/sessions", nil, &v)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d", resp.StatusCode)
	}
	if v.Stage != assessment.StageWelcome {
		t.Fatalf("new session stage = %s", v.Stage)
	}
	id := v.ID

	v = advance(t, base, id) // biodata
	if v.Stage != assessment.StageBiodata {
		t.Fatalf("stage = %s", v.Stage)
	}

	resp = do(t, "PUT", base+"/sessions/"+id+"/biodata", assessment.Biodata{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "555-0100",
		AgeGroup: "25-34",
	}, &v)
	if resp.StatusCode != 200 {
		t.Fatalf("biodata: status %d", resp.StatusCode)
	}

	v = advance(t, base, id) // roleSelection
	resp = do(t, "POST", base+"/sessions/"+id+"/role",
		map[string]string{"role": "networkAdmin"}, &v)
	if resp.StatusCode != 200 {
		t.Fatalf("select role: status %d", resp.StatusCode)
	}
	if v.RoleName != "Network Administration" {
		t.Fatalf("role name = %q", v.RoleName)
	}

	// premature advance out of an unanswered batch must be refused
	v = advance(t, base, id) // generalQuestions batch 0
	resp = do(t, "POST", base+"/sessions/"+id+"/advance", nil, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("incomplete advance: status %d, want 409", resp.StatusCode)
	}

	// answer all four batches with yes
	for i := 0; i < 4; i++ {
		answerCurrentBatch(t, base, id, true)
		v = advance(t, base, id)
	}
	if v.Stage != assessment.StageResults || !v.HasResults {
		t.Fatalf("after final advance: %+v", v)
	}
	if v.Progress.Percentage != 100 {
		t.Fatalf("progress = %+v", v.Progress)
	}

	var snap assessment.ResultSnapshot
	resp = do(t, "GET", base+"/sessions/"+id+"/results", nil, &snap)
	if resp.StatusCode != 200 {
		t.Fatalf("results: status %d", resp.StatusCode)
	}
	if snap.SuccessRate != 90 {
		t.Fatalf("success rate = %d, want 90", snap.SuccessRate)
	}
	if len(snap.Recommendations) != 0 {
		t.Fatalf("recommendations = %v", snap.Recommendations)
	}

	var saveResp struct {
		RecordID int64  `json:"record_id"`
		Success  bool   `json:"success"`
		Message  string `json:"message"`
	}
	resp = do(t, "POST", base+"/sessions/"+id+"/save", nil, &saveResp)
	if resp.StatusCode != 200 || !saveResp.Success {
		t.Fatalf("save: status %d, resp %+v", resp.StatusCode, saveResp)
	}
	if forwarded.FullName != "Ada Lovelace" || forwarded.SuccessRate != 90 {
		t.Fatalf("forwarded record: %+v", forwarded)
	}

	// admin listing sees the saved record
	tok := adminLogin(t, base, adminPass)
	recs := adminList(t, base, tok)
	if len(recs) != 1 || recs[0].RoleName != "Network Administration" {
		t.Fatalf("admin listing: %+v", recs)
	}
}

func TestBiodataValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL

	var v view
	do(t, "POST", base+"/sessions", nil, &v)
	advance(t, base, v.ID) // biodata

	cases := []assessment.Biodata{
		{Email: "ada@example.com", AgeGroup: "25-34"},               // no name
		{FullName: "Ada", AgeGroup: "25-34"},                        // no email
		{FullName: "Ada", Email: "not-an-email", AgeGroup: "25-34"}, // bad email
		{FullName: "Ada", Email: "ada@example.com"},                 // no age group
	}
	for i, b := range cases {
		resp := do(t, "PUT", base+"/sessions/"+v.ID+"/biodata", b, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("case %d: status %d, want 400", i, resp.StatusCode)
		}
	}

	// valid biodata in the wrong stage is a conflict
	advance(t, base, v.ID) // roleSelection
	resp := do(t, "PUT", base+"/sessions/"+v.ID+"/biodata", assessment.Biodata{
		FullName: "Ada", Email: "ada@example.com", AgeGroup: "25-34",
	}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("wrong-stage biodata: status %d, want 409", resp.StatusCode)
	}
}

func TestResultsBeforeCompletion(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL

	var v view
	do(t, "POST", base+"/sessions", nil, &v)
	if resp := do(t, "GET", base+"/sessions/"+v.ID+"/results", nil, nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d, want 409", resp.StatusCode)
	}
	if resp := do(t, "POST", base+"/sessions/"+v.ID+"/save", nil, nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("save status %d, want 409", resp.StatusCode)
	}
}

func TestUnknownSessionAndRole(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL

	if resp := do(t, "GET", base+"/sessions/ghost", nil, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}

	var v view
	do(t, "POST", base+"/sessions", nil, &v)
	advance(t, base, v.ID)
	advance(t, base, v.ID) // roleSelection
	resp := do(t, "POST", base+"/sessions/"+v.ID+"/role", map[string]string{"role": "astronaut"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown role: status %d, want 400", resp.StatusCode)
	}
}

func TestBackToRolesDiscardsProgress(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL

	var v view
	do(t, "POST", base+"/sessions", nil, &v)
	id := v.ID
	advance(t, base, id)
	advance(t, base, id)
	do(t, "POST", base+"/sessions/"+id+"/role", map[string]string{"role": "cybersecurity"}, &v)
	advance(t, base, id)
	answerCurrentBatch(t, base, id, true)

	v = view{}
	resp := do(t, "POST", base+"/sessions/"+id+"/back-to-roles", nil, &v)
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if v.Stage != assessment.StageRoleSelection || v.Role != "" {
		t.Fatalf("after back-to-roles: %+v", v)
	}

	// picking the other track starts from a clean questionnaire
	do(t, "POST", base+"/sessions/"+id+"/role", map[string]string{"role": "networkAdmin"}, &v)
	v = advance(t, base, id)
	if v.Stage != assessment.StageGeneralQuestions || v.Batch != 0 {
		t.Fatalf("restarted questionnaire at %+v", v)
	}
	if resp := do(t, "POST", base+"/sessions/"+id+"/advance", nil, nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("old answers survived the reset (status %d)", resp.StatusCode)
	}
}

func TestRolesAndCoursesEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	var roles []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	do(t, "GET", srv.URL+"/roles", nil, &roles)
	if len(roles) != 2 || roles[0].ID != "networkAdmin" {
		t.Fatalf("roles = %+v", roles)
	}

	var courses map[string]assessment.Course
	do(t, "GET", srv.URL+"/courses", nil, &courses)
	if _, ok := courses["Networking Fundamentals"]; !ok {
		t.Fatalf("course catalog missing expected entry; got %d courses", len(courses))
	}
}

func TestAdminAuth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL

	if resp := do(t, "GET", base+"/admin/results", nil, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated listing: status %d", resp.StatusCode)
	}
	resp := do(t, "POST", base+"/admin/login",
		map[string]string{"username": "admin", "password": "wrong"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d", resp.StatusCode)
	}

	tok := adminLogin(t, base, adminPass)
	req, _ := http.NewRequest("GET", base+"/admin/results/export", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer r2.Body.Close()
	if r2.StatusCode != 200 {
		t.Fatalf("export: status %d", r2.StatusCode)
	}
	if cd := r2.Header.Get("Content-Disposition"); cd == "" {
		t.Fatal("export is not served as a download")
	}
}

func adminLogin(t *testing.T, base, password string) string {
	t.Helper()
	var out struct {
		AccessToken string `json:"access_token"`
	}
	resp := do(t, "POST", base+"/admin/login",
		map[string]string{"username": "admin", "password": password}, &out)
	if resp.StatusCode != 200 || out.AccessToken == "" {
		t.Fatalf("login failed: status %d", resp.StatusCode)
	}
	return out.AccessToken
}

func adminList(t *testing.T, base, tok string) []results.Record {
	t.Helper()
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/admin/results", base), nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	var recs []results.Record
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatal(err)
	}
	return recs
}
