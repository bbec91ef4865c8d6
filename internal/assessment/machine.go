package assessment

// Batch geometry. Every question set is exactly two batches of five; the
// catalog loader enforces the set size so slicing here never truncates.
const (
	BatchSize       = 5
	BatchesPerSet   = 2
	QuestionsPerSet = BatchSize * BatchesPerSet
)

// Start is a full reset followed by entering the biodata stage. Used both
// for the initial "start assessment" action and for restarts.
func Start() State {
	s := NewState()
	s.Stage = StageBiodata
	return s
}

// SelectRole records the respondent's track. Only legal while in role
// selection; changing track later goes through BackToRoleSelection, which
// discards answers first.
func (s State) SelectRole(r Role) (State, error) {
	if s.Stage != StageRoleSelection {
		return s, ErrWrongStage
	}
	if !r.Valid() {
		return s, ErrUnknownRole
	}
	s.Role = r
	return s, nil
}

// Advance moves one step forward through the flow:
//
//	welcome -> biodata -> roleSelection -> generalQuestions(0) -> generalQuestions(1)
//	  -> roleQuestions(0) -> roleQuestions(1) -> results
//
// Leaving a question batch requires every question in it to be answered;
// otherwise ErrBatchIncomplete and no state change. Entering results runs
// the scoring engine. Advancing from results is a no-op.
func (s State) Advance(c *Catalog) (State, error) {
	switch s.Stage {
	case StageWelcome:
		s.Stage = StageBiodata
		return s, nil
	case StageBiodata:
		s.Stage = StageRoleSelection
		return s, nil
	case StageRoleSelection:
		if s.Role == "" {
			return s, ErrNoRoleSelected
		}
		s.Stage = StageGeneralQuestions
		s.QuestionSet = SetGeneral
		s.Batch = 0
		return s, nil
	case StageGeneralQuestions:
		complete, err := s.BatchComplete(c)
		if err != nil {
			return s, err
		}
		if !complete {
			return s, ErrBatchIncomplete
		}
		if s.Batch == 0 {
			s.Batch = 1
			return s, nil
		}
		s.Stage = StageRoleQuestions
		s.QuestionSet = SetRoleSpecific
		s.Batch = 0
		return s, nil
	case StageRoleQuestions:
		complete, err := s.BatchComplete(c)
		if err != nil {
			return s, err
		}
		if !complete {
			return s, ErrBatchIncomplete
		}
		if s.Batch == 0 {
			s.Batch = 1
			return s, nil
		}
		snap, err := Score(s.Answers, s.Role, c)
		if err != nil {
			return s, err
		}
		s.Results = &snap
		s.Stage = StageResults
		return s, nil
	case StageResults:
		// Terminal: stay put.
		return s, nil
	}
	return s, nil
}

// Retreat moves one step backward. Answers already recorded are kept, so a
// respondent stepping back can revise and advance again. Retreating from
// welcome (or results) is a no-op.
func (s State) Retreat() State {
	switch s.Stage {
	case StageBiodata:
		s.Stage = StageWelcome
	case StageRoleSelection:
		s.Stage = StageBiodata
	case StageGeneralQuestions:
		if s.Batch == 1 {
			s.Batch = 0
		} else {
			s.Stage = StageRoleSelection
		}
	case StageRoleQuestions:
		if s.Batch == 1 {
			s.Batch = 0
		} else {
			s.Stage = StageGeneralQuestions
			s.QuestionSet = SetGeneral
			s.Batch = 1
		}
	}
	return s
}

// BackToRoleSelection abandons the questionnaire to pick a different track.
// All answers and any computed results are discarded; the selected role is
// cleared so the respondent must pick again.
func (s State) BackToRoleSelection() State {
	s.Answers = NewAnswerSet()
	s.Results = nil
	s.Role = ""
	s.Stage = StageRoleSelection
	s.QuestionSet = SetGeneral
	s.Batch = 0
	return s
}

// RecordBatchAnswers merges partial answers into the active question set's
// map. Later values for the same id overwrite earlier ones, so an answer
// can be changed before the batch is finished. The stored maps are cloned
// before merging to keep earlier State values intact.
func (s State) RecordBatchAnswers(partial map[string]bool) (State, error) {
	if s.Stage != StageGeneralQuestions && s.Stage != StageRoleQuestions {
		return s, ErrWrongStage
	}
	merged := make(map[string]bool, len(partial)+QuestionsPerSet)
	var into map[string]bool
	if s.QuestionSet == SetGeneral {
		into = s.Answers.General
	} else {
		into = s.Answers.RoleSpecific
	}
	for k, v := range into {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	if s.QuestionSet == SetGeneral {
		s.Answers = AnswerSet{General: merged, RoleSpecific: s.Answers.RoleSpecific}
	} else {
		s.Answers = AnswerSet{General: s.Answers.General, RoleSpecific: merged}
	}
	return s, nil
}

// CurrentBatch returns the five questions of the active batch.
func (s State) CurrentBatch(c *Catalog) ([]Question, error) {
	qs, err := s.activeQuestions(c)
	if err != nil {
		return nil, err
	}
	lo := s.Batch * BatchSize
	return qs[lo : lo+BatchSize], nil
}

// BatchComplete reports whether every question of the active batch has a
// recorded answer. A recorded "no" counts: presence, not value.
func (s State) BatchComplete(c *Catalog) (bool, error) {
	batch, err := s.CurrentBatch(c)
	if err != nil {
		return false, err
	}
	answered := s.Answers.General
	if s.QuestionSet == SetRoleSpecific {
		answered = s.Answers.RoleSpecific
	}
	for _, q := range batch {
		if _, ok := answered[q.ID]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s State) activeQuestions(c *Catalog) ([]Question, error) {
	if s.Stage != StageGeneralQuestions && s.Stage != StageRoleQuestions {
		return nil, ErrWrongStage
	}
	if s.QuestionSet == SetGeneral {
		return c.General, nil
	}
	if s.Role == "" {
		return nil, ErrNoRoleSelected
	}
	qs, ok := c.Roles[s.Role]
	if !ok {
		return nil, ErrUnknownRole
	}
	return qs, nil
}

// Progress reports questionnaire position as "batch N of 4" for the
// front end's progress bar. Stages before the questionnaire report batch 1,
// results reports 4 of 4.
type Progress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func (s State) Progress() Progress {
	total := 2 * BatchesPerSet
	done := 0
	switch s.Stage {
	case StageGeneralQuestions:
		done = s.Batch
	case StageRoleQuestions:
		done = BatchesPerSet + s.Batch
	case StageResults:
		return Progress{Current: total, Total: total, Percentage: 100}
	}
	cur := done + 1
	return Progress{Current: cur, Total: total, Percentage: cur * 100 / total}
}
