package assessment

// Stage is a named phase of the guided flow. The values are wire-visible:
// they appear in session snapshots served to the front end.
type Stage string

const (
	StageWelcome          Stage = "welcome"
	StageBiodata          Stage = "biodata"
	StageRoleSelection    Stage = "roleSelection"
	StageGeneralQuestions Stage = "generalQuestions"
	StageRoleQuestions    Stage = "roleQuestions"
	StageResults          Stage = "results"
)

// QuestionSet selects between the shared question set and the per-role one.
type QuestionSet string

const (
	SetGeneral      QuestionSet = "general"
	SetRoleSpecific QuestionSet = "roleSpecific"
)

// Role is one of the fixed career tracks a respondent can assess against.
type Role string

const (
	RoleNetworkAdmin  Role = "networkAdmin"
	RoleCybersecurity Role = "cybersecurity"
)

// Roles is the closed set of assessable tracks, in display order.
var Roles = []Role{RoleNetworkAdmin, RoleCybersecurity}

// RoleNames maps a role to its human-readable name for the front end and
// the flat saved record.
var RoleNames = map[Role]string{
	RoleNetworkAdmin:  "Network Administration",
	RoleCybersecurity: "Cybersecurity",
}

func (r Role) Valid() bool {
	_, ok := RoleNames[r]
	return ok
}

// Name returns the display name, or "" for an unselected/unknown role.
func (r Role) Name() string { return RoleNames[r] }

// Question is one yes/no item of a question set. Category is a raw
// camelCase identifier; prettifying it is the front end's job.
type Question struct {
	ID                   string `json:"id" yaml:"id"`
	Text                 string `json:"text" yaml:"text"`
	Category             string `json:"category" yaml:"category"`
	CourseRecommendation string `json:"course_recommendation" yaml:"course_recommendation"`
	Explanation          string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Course describes a recommended course from the course catalog.
type Course struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Duration    string   `json:"duration" yaml:"duration"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
	Topics      []string `json:"topics" yaml:"topics"`
}

// Catalog is the static question/course content the engine scores against.
// Each set must hold exactly QuestionsPerSet questions; internal/catalog
// enforces that at load time and the engine assumes it.
type Catalog struct {
	General []Question
	Roles   map[Role][]Question
	Courses map[string]Course
}

// AnswerSet holds recorded yes/no answers keyed by question id. A question
// a respondent has not answered yet is absent from the map; "answered no"
// and "not yet answered" must stay distinguishable.
type AnswerSet struct {
	General      map[string]bool `json:"general"`
	RoleSpecific map[string]bool `json:"roleSpecific"`
}

func NewAnswerSet() AnswerSet {
	return AnswerSet{
		General:      map[string]bool{},
		RoleSpecific: map[string]bool{},
	}
}

// Biodata is the respondent information captured before role selection.
// The engine carries it through to the saved record but never validates it;
// required-field and email checks happen at capture time in the API layer.
type Biodata struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	AgeGroup string `json:"age_group"`
}

// Recommendation is a course suggestion tied to a question the respondent
// answered "no". RoleSpecific marks whether the question came from the
// selected role's set; ranking puts those first.
type Recommendation struct {
	QuestionID   string  `json:"question_id"`
	QuestionText string  `json:"question_text"`
	CourseName   string  `json:"course_name"`
	Course       *Course `json:"course,omitempty"`
	RoleSpecific bool    `json:"role_specific"`
}

// ResultSnapshot is the computed outcome of a completed run.
type ResultSnapshot struct {
	SuccessRate     int              `json:"success_rate"`
	Strengths       []string         `json:"strengths"`
	Weaknesses      []string         `json:"weaknesses"`
	Recommendations []Recommendation `json:"recommendations"`
}

// State is the whole assessment run: stage position, answers, and (once
// computed) results. It is a value; transitions return a new State and
// never mutate the receiver.
type State struct {
	Stage       Stage           `json:"stage"`
	QuestionSet QuestionSet     `json:"question_set"`
	Batch       int             `json:"batch"`
	Role        Role            `json:"role,omitempty"`
	Answers     AnswerSet       `json:"answers"`
	Results     *ResultSnapshot `json:"results,omitempty"`
}

// NewState returns the initial state: welcome stage, nothing selected,
// nothing answered.
func NewState() State {
	return State{
		Stage:       StageWelcome,
		QuestionSet: SetGeneral,
		Batch:       0,
		Answers:     NewAnswerSet(),
	}
}
