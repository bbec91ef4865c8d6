package assessment

import "errors"

var (
	// ErrBatchIncomplete rejects an advance out of a question batch while
	// any of its questions is still unanswered. The state is unchanged.
	ErrBatchIncomplete = errors.New("current batch has unanswered questions")

	// ErrNoRoleSelected means scoring or a role-question stage was reached
	// without a selected role. The stage controller makes this unreachable
	// through normal transitions; hitting it is a caller bug.
	ErrNoRoleSelected = errors.New("no role selected")

	// ErrUnknownRole means a role outside the closed role set, or one the
	// catalog has no question set for.
	ErrUnknownRole = errors.New("unknown role")

	// ErrWrongStage rejects an operation that is not legal in the current
	// stage, e.g. selecting a role mid-questionnaire.
	ErrWrongStage = errors.New("operation not allowed in current stage")
)
