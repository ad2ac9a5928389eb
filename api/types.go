package api

// Default browser settings applied when a request omits them.
const (
	DefaultMaxTurns = 10
)

// TaskRequest is the shared request body of the browsing routes. Task
// is always required; AppURL is additionally required by the scroll
// and search routes.
type TaskRequest struct {
	Task     string `json:"task"`
	AppURL   string `json:"app_url,omitempty"`
	Headless *bool  `json:"headless,omitempty"`
	MaxTurns int    `json:"max_turns,omitempty"`
}

// EffectiveHeadless resolves the headless flag, defaulting to true
// when the field is absent.
func (r *TaskRequest) EffectiveHeadless() bool {
	if r.Headless == nil {
		return true
	}
	return *r.Headless
}

// EffectiveMaxTurns resolves the turn budget, defaulting when the
// field is absent or zero. Negative values are rejected upstream
// during validation.
func (r *TaskRequest) EffectiveMaxTurns() int {
	if r.MaxTurns == 0 {
		return DefaultMaxTurns
	}
	return r.MaxTurns
}

// TaskResponse is the envelope returned by every browsing route.
// Adapter failures are reported with Success false and HTTP 200; only
// request validation problems surface as non-200 statuses.
type TaskResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
	Error   string `json:"error,omitempty"`
	TaskID  string `json:"task_id"`
}
