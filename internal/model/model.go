// Package model holds the records stored and served by qadesk.
package model

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered (version 7) UUID, so records sort by creation
// when listed by ID.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Principal identifies an authenticated caller (e.g. "oidc:1234" or "anon:<uuid>")
type Principal string

// Anonymous is the principal of unauthenticated callers
const Anonymous Principal = ""

// IsAnonymous reports whether p carries no identity
func (p Principal) IsAnonymous() bool {
	return p == Anonymous
}

// Severity ranks how bad a bug is
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every valid severity from least to most severe
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// IsValid reports whether s is a known severity
func (s Severity) IsValid() bool {
	for _, known := range Severities {
		if s == known {
			return true
		}
	}
	return false
}

// UserRole is the access level of a principal
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
	RoleGuest UserRole = "guest"
)

// IsValid reports whether r is a known role
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleGuest
}

// Website is a site under test together with everything recorded against it
type Website struct {
	ID          string       `json:"id" bson:"id"`
	URL         string       `json:"url" bson:"url"`
	Title       string       `json:"title" bson:"title"`
	Owner       Principal    `json:"owner" bson:"owner"`
	TestCases   []TestCase   `json:"test_cases" bson:"test_cases"`
	Bugs        []Bug        `json:"bugs" bson:"bugs"`
	CornerCases []CornerCase `json:"corner_cases" bson:"corner_cases"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`

	// Revision is bumped on every write and used for optimistic locking
	Revision int64 `json:"-" bson:"revision"`
}

// Clone returns a deep copy of w
func (w *Website) Clone() *Website {
	c := *w
	c.TestCases = append([]TestCase(nil), w.TestCases...)
	c.Bugs = append([]Bug(nil), w.Bugs...)
	c.CornerCases = append([]CornerCase(nil), w.CornerCases...)
	return &c
}

// Bug is a defect found on a website
type Bug struct {
	ID          string   `json:"id" bson:"id"`
	Description string   `json:"description" bson:"description"`
	Severity    Severity `json:"severity" bson:"severity"`
}

// TestCase is a repeatable check with its steps
type TestCase struct {
	ID          string `json:"id" bson:"id"`
	Description string `json:"description" bson:"description"`
	Steps       string `json:"steps" bson:"steps"`
}

// CornerCase is an edge-case scenario worth exploring, distinct from a bug
// or a test case
type CornerCase struct {
	ID          string `json:"id" bson:"id"`
	Description string `json:"description" bson:"description"`
	Scenario    string `json:"scenario" bson:"scenario"`
}

// UserProfile is the public profile of a principal
type UserProfile struct {
	Name string `json:"name" bson:"name" validate:"required,min=1,max=100"`
}
