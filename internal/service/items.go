package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/model"
)

func itemNotFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", database.ErrNotFound, kind, id)
}

// replaceItem overwrites the element with the given id, reporting whether it existed
func replaceItem[T any](items []T, id string, idOf func(T) string, item T) bool {
	i := slices.IndexFunc(items, func(it T) bool { return idOf(it) == id })
	if i < 0 {
		return false
	}
	items[i] = item
	return true
}

// removeItem drops the element with the given id
func removeItem[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	i := slices.IndexFunc(items, func(it T) bool { return idOf(it) == id })
	if i < 0 {
		return items, false
	}
	return slices.Delete(items, i, i+1), true
}

func bugID(b model.Bug) string                { return b.ID }
func testCaseID(tc model.TestCase) string     { return tc.ID }
func cornerCaseID(cc model.CornerCase) string { return cc.ID }

func (s *qaServiceImpl) AddBug(ctx context.Context, caller model.Principal, websiteID string, input model.BugInput) (*model.Bug, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	bug := model.Bug{ID: model.NewID(), Description: input.Description, Severity: input.Severity}
	_, err := s.updateWebsite(ctx, caller, websiteID, func(w *model.Website) error {
		w.Bugs = append(w.Bugs, bug)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bug, nil
}

func (s *qaServiceImpl) UpdateBug(ctx context.Context, caller model.Principal, websiteID, id string, input model.BugInput) (*model.Bug, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	bug := model.Bug{ID: id, Description: input.Description, Severity: input.Severity}
	_, err := s.updateWebsite(ctx, caller, websiteID, func(w *model.Website) error {
		if !replaceItem(w.Bugs, id, bugID, bug) {
			return itemNotFound("bug", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bug, nil
}

func (s *qaServiceImpl) DeleteBug(ctx context.Context, caller model.Principal, websiteID, id string) error {
	_, err := s.updateWebsite(ctx, caller, websiteID, func(w *model.Website) error {
		var ok bool
		if w.Bugs, ok = removeItem(w.Bugs, id, bugID); !ok {
			return itemNotFound("bug", id)
		}
		return nil
	})
	return err
}

func (s *qaServiceImpl) AddTestCase(ctx context.Context, caller model.Principal, websiteID string, input model.TestCaseInput) (*model.TestCase, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	tc := model.TestCase{ID: model.NewID(), Description: input.Description, Steps: input.Steps}
	_, err := s.updateWebsite(ctx, caller, websiteID, func(w *model.Website) error {
		w.TestCases = append(w.TestCases, tc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tc, nil
}

func (s *qaServiceImpl) UpdateTestCase(ctx context.Context, caller model.Principal, websiteID, id string, input model.TestCaseInput) (*model.TestCase, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	tc := model.TestCase{ID: id, Description: input.Description, Steps: input.Steps}
	_, err := s.updateWebsite(ctx, caller, websiteID, func(w *model.Website) error {
		if !replaceItem(w.TestCases, id, testCaseID, tc) {
			return itemNotFound("test case", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tc, nil
}

func (s *qaServiceImpl) DeleteTestCase(ctx context.Context, caller model.Principal, websiteID, id string) error {
	_, err := s.updateWebsite(ctx, caller, websiteID, func(w *model.Website) error {
		var ok bool
		if w.TestCases, ok = removeItem(w.TestCases, id, testCaseID); !ok {
			return itemNotFound("test case", id)
		}
		return nil
	})
	return err
}

func (s *qaServiceImpl) AddCornerCase(ctx context.Context, caller model.Principal, websiteID string, input model.CornerCaseInput) (*model.CornerCase, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	cc := model.CornerCase{ID: model.NewID(), Description: input.Description, Scenario: input.Scenario}
	_, err := s.updateWebsite(ctx, caller, websiteID, func(w *model.Website) error {
		w.CornerCases = append(w.CornerCases, cc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cc, nil
}

func (s *qaServiceImpl) UpdateCornerCase(ctx context.Context, caller model.Principal, websiteID, id string, input model.CornerCaseInput) (*model.CornerCase, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	cc := model.CornerCase{ID: id, Description: input.Description, Scenario: input.Scenario}
	_, err := s.updateWebsite(ctx, caller, websiteID, func(w *model.Website) error {
		if !replaceItem(w.CornerCases, id, cornerCaseID, cc) {
			return itemNotFound("corner case", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cc, nil
}

func (s *qaServiceImpl) DeleteCornerCase(ctx context.Context, caller model.Principal, websiteID, id string) error {
	_, err := s.updateWebsite(ctx, caller, websiteID, func(w *model.Website) error {
		var ok bool
		if w.CornerCases, ok = removeItem(w.CornerCases, id, cornerCaseID); !ok {
			return itemNotFound("corner case", id)
		}
		return nil
	})
	return err
}
