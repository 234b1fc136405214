package model

import "time"

// TestStatus is the state of a single test within a run
type TestStatus string

const (
	TestStatusPending TestStatus = "pending"
	TestStatusPassed  TestStatus = "passed"
	TestStatusFailed  TestStatus = "failed"
)

// TestRun is an execution of a website's test cases
type TestRun struct {
	ID          string       `json:"id" bson:"id"`
	WebsiteID   string       `json:"website_id" bson:"website_id"`
	Name        string       `json:"name" bson:"name"`
	Owner       Principal    `json:"owner" bson:"owner"`
	Results     []TestResult `json:"results" bson:"results"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" bson:"completed_at,omitempty"`

	Revision int64 `json:"-" bson:"revision"`
}

// TestResult is the snapshot of a test case inside a run and its outcome
type TestResult struct {
	TestCaseID  string     `json:"test_case_id" bson:"test_case_id"`
	Description string     `json:"description" bson:"description"`
	Steps       string     `json:"steps" bson:"steps"`
	Status      TestStatus `json:"status" bson:"status"`
	Notes       string     `json:"notes,omitempty" bson:"notes,omitempty"`
}

// TestRunSummary aggregates the results of a run
type TestRunSummary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Pending  int     `json:"pending"`
	PassRate float64 `json:"pass_rate"`
}

// Clone returns a deep copy of r
func (r *TestRun) Clone() *TestRun {
	c := *r
	c.Results = append([]TestResult(nil), r.Results...)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// IsComplete reports whether every result has been recorded
func (r *TestRun) IsComplete() bool {
	for _, res := range r.Results {
		if res.Status == TestStatusPending {
			return false
		}
	}
	return true
}

// Summarize counts the results of r. PassRate is the share of passed tests
// among those already executed, in [0, 1].
func (r *TestRun) Summarize() TestRunSummary {
	var s TestRunSummary
	for _, res := range r.Results {
		s.Total++
		switch res.Status {
		case TestStatusPassed:
			s.Passed++
		case TestStatusFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	if executed := s.Passed + s.Failed; executed > 0 {
		s.PassRate = float64(s.Passed) / float64(executed)
	}
	return s
}
