package service

import (
	"context"
	"errors"

	"github.com/qadesk/qadesk/internal/model"
)

var (
	// ErrUnauthenticated is returned when an anonymous caller invokes an operation that needs an identity
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller may not touch the resource
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when a request fails validation
	ErrInvalidInput = errors.New("invalid input")
)

// QAService defines the operations behind the qadesk API. Every method takes
// the calling principal, which is model.Anonymous for unauthenticated calls.
type QAService interface {
	// GenerateWebsiteTestingData validates rawURL and creates a website seeded with generated records
	GenerateWebsiteTestingData(ctx context.Context, caller model.Principal, input model.GenerateInput) (*model.Website, error)
	// GetWebsite returns a website visible to the caller
	GetWebsite(ctx context.Context, caller model.Principal, id string) (*model.Website, error)
	// ListWebsites returns the caller's websites
	ListWebsites(ctx context.Context, caller model.Principal, cursor string, limit int) ([]*model.Website, string, error)
	// DeleteWebsite removes a website and its test runs
	DeleteWebsite(ctx context.Context, caller model.Principal, id string) error

	AddBug(ctx context.Context, caller model.Principal, websiteID string, input model.BugInput) (*model.Bug, error)
	UpdateBug(ctx context.Context, caller model.Principal, websiteID, bugID string, input model.BugInput) (*model.Bug, error)
	DeleteBug(ctx context.Context, caller model.Principal, websiteID, bugID string) error

	AddTestCase(ctx context.Context, caller model.Principal, websiteID string, input model.TestCaseInput) (*model.TestCase, error)
	UpdateTestCase(ctx context.Context, caller model.Principal, websiteID, testCaseID string, input model.TestCaseInput) (*model.TestCase, error)
	DeleteTestCase(ctx context.Context, caller model.Principal, websiteID, testCaseID string) error

	AddCornerCase(ctx context.Context, caller model.Principal, websiteID string, input model.CornerCaseInput) (*model.CornerCase, error)
	UpdateCornerCase(ctx context.Context, caller model.Principal, websiteID, cornerCaseID string, input model.CornerCaseInput) (*model.CornerCase, error)
	DeleteCornerCase(ctx context.Context, caller model.Principal, websiteID, cornerCaseID string) error

	// GetCallerUserProfile returns nil without error when no profile was saved
	GetCallerUserProfile(ctx context.Context, caller model.Principal) (*model.UserProfile, error)
	SaveCallerUserProfile(ctx context.Context, caller model.Principal, profile model.UserProfile) error
	// GetUserProfile returns another principal's profile; only the principal itself and admins may read it
	GetUserProfile(ctx context.Context, caller, user model.Principal) (*model.UserProfile, error)

	// GetCallerUserRole never fails for anonymous callers, who are guests
	GetCallerUserRole(ctx context.Context, caller model.Principal) (model.UserRole, error)
	// AssignCallerUserRole sets the role of user; admins only
	AssignCallerUserRole(ctx context.Context, caller, user model.Principal, role model.UserRole) error
	IsCallerAdmin(ctx context.Context, caller model.Principal) (bool, error)

	// CreateTestRun snapshots the selected test cases of a website, or all of them
	CreateTestRun(ctx context.Context, caller model.Principal, websiteID string, input model.TestRunInput) (*model.TestRun, error)
	GetTestRun(ctx context.Context, caller model.Principal, id string) (*model.TestRun, error)
	ListTestRuns(ctx context.Context, caller model.Principal, websiteID, cursor string, limit int) ([]*model.TestRun, string, error)
	// RecordTestResult stores the outcome of one test case and completes the run when nothing is pending
	RecordTestResult(ctx context.Context, caller model.Principal, runID, testCaseID string, input model.TestResultInput) (*model.TestRun, error)
	SummarizeTestRun(ctx context.Context, caller model.Principal, runID string) (*model.TestRunSummary, error)
}
