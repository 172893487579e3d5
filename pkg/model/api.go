package model

import "time"

// Response is the standard API response envelope.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination holds pagination metadata for list endpoints.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ListOptions configures list queries with pagination.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListOptions returns sensible defaults.
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: 20, Offset: 0}
}

// Clamp enforces limits (max 100, min 1).
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// SimulateRequest is the body of a stateless simulation call.
type SimulateRequest struct {
	Processes []Process  `json:"processes"`
	Policy    PolicyName `json:"policy"`
	Quantum   int        `json:"quantum,omitempty"`
}

// ProcessInput carries raw, unparsed process fields as typed into a form.
type ProcessInput struct {
	ID          string `json:"id"`
	ArrivalTime string `json:"arrival_time"`
	BurstTime   string `json:"burst_time"`
	Priority    string `json:"priority,omitempty"`
}

// PolicyInfo describes one entry of the policy menu.
type PolicyInfo struct {
	Name        PolicyName `json:"name"`
	Label       string     `json:"label"`
	Enabled     bool       `json:"enabled"`
	UsesQuantum bool       `json:"uses_quantum"`
}
