package database

import (
	"context"
	"sort"
	"sync"

	"github.com/qadesk/qadesk/internal/model"
)

// MemoryDB is an in-memory implementation of the Database interface
type MemoryDB struct {
	websites map[string]*model.Website
	testRuns map[string]*model.TestRun
	profiles map[model.Principal]model.UserProfile
	roles    map[model.Principal]model.UserRole
	mu       sync.RWMutex
}

// NewMemoryDB creates a new instance of the in-memory database
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		websites: make(map[string]*model.Website),
		testRuns: make(map[string]*model.TestRun),
		profiles: make(map[model.Principal]model.UserProfile),
		roles:    make(map[model.Principal]model.UserRole),
	}
}

func (db *MemoryDB) CreateWebsite(ctx context.Context, website *model.Website) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if website == nil || website.ID == "" {
		return ErrInvalidInput
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.websites[website.ID]; exists {
		return ErrAlreadyExists
	}
	db.websites[website.ID] = website.Clone()
	return nil
}

func (db *MemoryDB) GetWebsite(ctx context.Context, id string) (*model.Website, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	website, ok := db.websites[id]
	if !ok {
		return nil, ErrNotFound
	}
	return website.Clone(), nil
}

func (db *MemoryDB) ListWebsites(ctx context.Context, filter *WebsiteFilter, cursor string, limit int) ([]*model.Website, string, error) {
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}

	db.mu.RLock()
	var matched []*model.Website
	for _, website := range db.websites {
		if filter != nil && filter.Owner != nil && website.Owner != *filter.Owner {
			continue
		}
		matched = append(matched, website.Clone())
	}
	db.mu.RUnlock()

	page, next := paginate(matched, func(w *model.Website) string { return w.ID }, cursor, limit)
	return page, next, nil
}

func (db *MemoryDB) UpdateWebsite(ctx context.Context, id string, mutate WebsiteMutator) (*model.Website, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	current, ok := db.websites[id]
	if !ok {
		return nil, ErrNotFound
	}

	updated := current.Clone()
	if err := mutate(updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.Revision = current.Revision + 1
	db.websites[id] = updated

	return updated.Clone(), nil
}

func (db *MemoryDB) DeleteWebsite(ctx context.Context, id string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.websites[id]; !ok {
		return ErrNotFound
	}
	delete(db.websites, id)
	for runID, run := range db.testRuns {
		if run.WebsiteID == id {
			delete(db.testRuns, runID)
		}
	}
	return nil
}

func (db *MemoryDB) CreateTestRun(ctx context.Context, run *model.TestRun) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if run == nil || run.ID == "" {
		return ErrInvalidInput
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.websites[run.WebsiteID]; !ok {
		return ErrNotFound
	}
	if _, exists := db.testRuns[run.ID]; exists {
		return ErrAlreadyExists
	}
	db.testRuns[run.ID] = run.Clone()
	return nil
}

func (db *MemoryDB) GetTestRun(ctx context.Context, id string) (*model.TestRun, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	run, ok := db.testRuns[id]
	if !ok {
		return nil, ErrNotFound
	}
	return run.Clone(), nil
}

func (db *MemoryDB) ListTestRuns(ctx context.Context, filter *TestRunFilter, cursor string, limit int) ([]*model.TestRun, string, error) {
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}

	db.mu.RLock()
	var matched []*model.TestRun
	for _, run := range db.testRuns {
		if filter != nil {
			if filter.WebsiteID != nil && run.WebsiteID != *filter.WebsiteID {
				continue
			}
			if filter.Owner != nil && run.Owner != *filter.Owner {
				continue
			}
		}
		matched = append(matched, run.Clone())
	}
	db.mu.RUnlock()

	page, next := paginate(matched, func(r *model.TestRun) string { return r.ID }, cursor, limit)
	return page, next, nil
}

func (db *MemoryDB) UpdateTestRun(ctx context.Context, id string, mutate TestRunMutator) (*model.TestRun, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	current, ok := db.testRuns[id]
	if !ok {
		return nil, ErrNotFound
	}

	updated := current.Clone()
	if err := mutate(updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.WebsiteID = current.WebsiteID
	updated.Revision = current.Revision + 1
	db.testRuns[id] = updated

	return updated.Clone(), nil
}

func (db *MemoryDB) GetProfile(ctx context.Context, principal model.Principal) (*model.UserProfile, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	profile, ok := db.profiles[principal]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}

func (db *MemoryDB) SaveProfile(ctx context.Context, principal model.Principal, profile model.UserProfile) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.profiles[principal] = profile
	return nil
}

func (db *MemoryDB) GetRole(ctx context.Context, principal model.Principal) (model.UserRole, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	role, ok := db.roles[principal]
	if !ok {
		return "", ErrNotFound
	}
	return role, nil
}

func (db *MemoryDB) SetRole(ctx context.Context, principal model.Principal, role model.UserRole) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !role.IsValid() {
		return ErrInvalidInput
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.roles[principal] = role
	return nil
}

// Close closes the database connection
func (db *MemoryDB) Close() error {
	return nil
}

// paginate sorts items by ID and returns the page after cursor. The next
// cursor is the last ID of the page when more items follow.
func paginate[T any](items []T, id func(T) string, cursor string, limit int) ([]T, string) {
	limit = normalizeLimit(limit)

	sort.Slice(items, func(i, j int) bool {
		return id(items[i]) < id(items[j])
	})

	start := 0
	if cursor != "" {
		start = sort.Search(len(items), func(i int) bool {
			return id(items[i]) > cursor
		})
	}

	end := min(start+limit, len(items))
	page := items[start:end]

	next := ""
	if end < len(items) && len(page) > 0 {
		next = id(page[len(page)-1])
	}
	return page, next
}
