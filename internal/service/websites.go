package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/model"
	"github.com/qadesk/qadesk/internal/validators"
)

func (s *qaServiceImpl) GenerateWebsiteTestingData(ctx context.Context, caller model.Principal, input model.GenerateInput) (*model.Website, error) {
	if err := s.requireWriter(ctx, caller); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	res := validators.ValidateAndNormalizeURL(input.URL)
	if !res.IsValid {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, res.Err())
	}

	// Page analysis has its own timeout, so it runs outside the database one
	seed := s.generator.Generate(ctx, res.NormalizedURL, input.Title)

	now := s.now()
	website := &model.Website{
		ID:          model.NewID(),
		URL:         res.NormalizedURL,
		Title:       input.Title,
		Owner:       caller,
		TestCases:   seed.TestCases,
		Bugs:        seed.Bugs,
		CornerCases: seed.CornerCases,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.db.CreateWebsite(dbCtx, website); err != nil {
		return nil, err
	}
	return website, nil
}

func (s *qaServiceImpl) GetWebsite(ctx context.Context, caller model.Principal, id string) (*model.Website, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	website, err := s.db.GetWebsite(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canAccess(ctx, caller, website.Owner); err != nil {
		return nil, err
	}
	return website, nil
}

func (s *qaServiceImpl) ListWebsites(ctx context.Context, caller model.Principal, cursor string, limit int) ([]*model.Website, string, error) {
	if err := requireCaller(caller); err != nil {
		return nil, "", err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.db.ListWebsites(ctx, &database.WebsiteFilter{Owner: &caller}, cursor, limit)
}

func (s *qaServiceImpl) DeleteWebsite(ctx context.Context, caller model.Principal, id string) error {
	if err := s.requireWriter(ctx, caller); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	website, err := s.db.GetWebsite(ctx, id)
	if err != nil {
		return err
	}
	if err := s.canAccess(ctx, caller, website.Owner); err != nil {
		return err
	}
	return s.db.DeleteWebsite(ctx, id)
}

// updateWebsite loads the website, checks access and applies mutate inside
// the database's atomic update.
func (s *qaServiceImpl) updateWebsite(ctx context.Context, caller model.Principal, websiteID string, mutate database.WebsiteMutator) (*model.Website, error) {
	if err := s.requireWriter(ctx, caller); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	current, err := s.db.GetWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	if err := s.canAccess(ctx, caller, current.Owner); err != nil {
		return nil, err
	}

	return s.db.UpdateWebsite(ctx, websiteID, func(w *model.Website) error {
		if err := mutate(w); err != nil {
			return err
		}
		w.UpdatedAt = s.now()
		return nil
	})
}
