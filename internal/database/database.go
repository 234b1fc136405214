package database

import (
	"context"
	"errors"

	"github.com/qadesk/qadesk/internal/model"
)

// Common database errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("concurrent modification, retry the request")
	ErrDatabase      = errors.New("database error")
)

// DefaultListLimit is used when a list call passes a non-positive limit
const DefaultListLimit = 30

// WebsiteFilter narrows ListWebsites. Nil fields are ignored.
type WebsiteFilter struct {
	Owner *model.Principal
}

// TestRunFilter narrows ListTestRuns. Nil fields are ignored.
type TestRunFilter struct {
	WebsiteID *string
	Owner     *model.Principal
}

// WebsiteMutator edits a website in place. Returning an error aborts the update.
type WebsiteMutator func(*model.Website) error

// TestRunMutator edits a test run in place. Returning an error aborts the update.
type TestRunMutator func(*model.TestRun) error

// Database defines the interface for database operations.
//
// List calls page by ascending ID: cursor is the last ID of the previous page
// and the returned cursor is empty when there are no more records.
type Database interface {
	// CreateWebsite stores a new website. ErrAlreadyExists if the ID is taken.
	CreateWebsite(ctx context.Context, website *model.Website) error
	// GetWebsite retrieves a single website by ID
	GetWebsite(ctx context.Context, id string) (*model.Website, error)
	// ListWebsites retrieves websites with optional filtering and pagination
	ListWebsites(ctx context.Context, filter *WebsiteFilter, cursor string, limit int) ([]*model.Website, string, error)
	// UpdateWebsite applies mutate atomically to the stored website and returns the result
	UpdateWebsite(ctx context.Context, id string, mutate WebsiteMutator) (*model.Website, error)
	// DeleteWebsite removes a website and all of its test runs
	DeleteWebsite(ctx context.Context, id string) error

	// CreateTestRun stores a new test run
	CreateTestRun(ctx context.Context, run *model.TestRun) error
	// GetTestRun retrieves a single test run by ID
	GetTestRun(ctx context.Context, id string) (*model.TestRun, error)
	// ListTestRuns retrieves test runs with optional filtering and pagination
	ListTestRuns(ctx context.Context, filter *TestRunFilter, cursor string, limit int) ([]*model.TestRun, string, error)
	// UpdateTestRun applies mutate atomically to the stored test run and returns the result
	UpdateTestRun(ctx context.Context, id string, mutate TestRunMutator) (*model.TestRun, error)

	// GetProfile returns the stored profile, or ErrNotFound
	GetProfile(ctx context.Context, principal model.Principal) (*model.UserProfile, error)
	// SaveProfile creates or replaces a profile
	SaveProfile(ctx context.Context, principal model.Principal, profile model.UserProfile) error
	// GetRole returns the stored role, or ErrNotFound
	GetRole(ctx context.Context, principal model.Principal) (model.UserRole, error)
	// SetRole creates or replaces a role assignment
	SetRole(ctx context.Context, principal model.Principal, role model.UserRole) error

	// Close closes the database connection
	Close() error
}

// ConnectionType represents the type of database connection
type ConnectionType string

const (
	// ConnectionTypeMemory represents an in-memory database connection
	ConnectionTypeMemory ConnectionType = "memory"
	// ConnectionTypeMongoDB represents a MongoDB database connection
	ConnectionTypeMongoDB ConnectionType = "mongodb"
	// ConnectionTypePostgreSQL represents a PostgreSQL database connection
	ConnectionTypePostgreSQL ConnectionType = "postgresql"
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
