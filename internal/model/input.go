package model

// BugInput carries the editable fields of a bug
type BugInput struct {
	Description string   `json:"description" validate:"required,max=4000"`
	Severity    Severity `json:"severity" validate:"required,severity"`
}

// TestCaseInput carries the editable fields of a test case
type TestCaseInput struct {
	Description string `json:"description" validate:"required,max=4000"`
	Steps       string `json:"steps" validate:"max=10000"`
}

// CornerCaseInput carries the editable fields of a corner case
type CornerCaseInput struct {
	Description string `json:"description" validate:"required,max=4000"`
	Scenario    string `json:"scenario" validate:"max=10000"`
}

// GenerateInput asks for seed data for a website
type GenerateInput struct {
	URL   string `json:"url" validate:"required"`
	Title string `json:"title" validate:"required,max=200"`
}

// TestRunInput starts a new test run. An empty TestCaseIDs selects every
// test case of the website.
type TestRunInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	TestCaseIDs []string `json:"test_case_ids,omitempty" validate:"omitempty,dive,uuid"`
}

// TestResultInput records the outcome of one test case within a run
type TestResultInput struct {
	Status TestStatus `json:"status" validate:"required,oneof=passed failed"`
	Notes  string     `json:"notes,omitempty" validate:"max=4000"`
}
