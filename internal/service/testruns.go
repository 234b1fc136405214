package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/model"
)

func (s *qaServiceImpl) CreateTestRun(ctx context.Context, caller model.Principal, websiteID string, input model.TestRunInput) (*model.TestRun, error) {
	if err := s.requireWriter(ctx, caller); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	website, err := s.db.GetWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	if err := s.canAccess(ctx, caller, website.Owner); err != nil {
		return nil, err
	}

	results, err := snapshot(website.TestCases, input.TestCaseIDs)
	if err != nil {
		return nil, err
	}

	run := &model.TestRun{
		ID:        model.NewID(),
		WebsiteID: website.ID,
		Name:      input.Name,
		Owner:     website.Owner,
		Results:   results,
		CreatedAt: s.now(),
	}
	if err := s.db.CreateTestRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// snapshot copies the selected test cases into pending results, keeping the
// website's order. An empty selection takes every test case.
func snapshot(testCases []model.TestCase, selected []string) ([]model.TestResult, error) {
	if len(testCases) == 0 {
		return nil, fmt.Errorf("%w: website has no test cases", ErrInvalidInput)
	}

	for _, id := range selected {
		if !slices.ContainsFunc(testCases, func(tc model.TestCase) bool { return tc.ID == id }) {
			return nil, fmt.Errorf("%w: test case %s does not belong to this website", ErrInvalidInput, id)
		}
	}

	results := make([]model.TestResult, 0, len(testCases))
	for _, tc := range testCases {
		if len(selected) > 0 && !slices.Contains(selected, tc.ID) {
			continue
		}
		results = append(results, model.TestResult{
			TestCaseID:  tc.ID,
			Description: tc.Description,
			Steps:       tc.Steps,
			Status:      model.TestStatusPending,
		})
	}
	return results, nil
}

func (s *qaServiceImpl) GetTestRun(ctx context.Context, caller model.Principal, id string) (*model.TestRun, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	run, err := s.db.GetTestRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canAccess(ctx, caller, run.Owner); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *qaServiceImpl) ListTestRuns(ctx context.Context, caller model.Principal, websiteID, cursor string, limit int) ([]*model.TestRun, string, error) {
	// Visibility follows the website
	if _, err := s.GetWebsite(ctx, caller, websiteID); err != nil {
		return nil, "", err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.db.ListTestRuns(ctx, &database.TestRunFilter{WebsiteID: &websiteID}, cursor, limit)
}

func (s *qaServiceImpl) RecordTestResult(ctx context.Context, caller model.Principal, runID, testCaseID string, input model.TestResultInput) (*model.TestRun, error) {
	if err := s.requireWriter(ctx, caller); err != nil {
		return nil, err
	}
	input.Notes = strings.TrimSpace(input.Notes)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	current, err := s.db.GetTestRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if err := s.canAccess(ctx, caller, current.Owner); err != nil {
		return nil, err
	}

	return s.db.UpdateTestRun(ctx, runID, func(run *model.TestRun) error {
		i := slices.IndexFunc(run.Results, func(r model.TestResult) bool { return r.TestCaseID == testCaseID })
		if i < 0 {
			return itemNotFound("test case", testCaseID)
		}
		run.Results[i].Status = input.Status
		run.Results[i].Notes = input.Notes

		if run.IsComplete() {
			if run.CompletedAt == nil {
				completed := s.now()
				run.CompletedAt = &completed
			}
		} else {
			run.CompletedAt = nil
		}
		return nil
	})
}

func (s *qaServiceImpl) SummarizeTestRun(ctx context.Context, caller model.Principal, runID string) (*model.TestRunSummary, error) {
	run, err := s.GetTestRun(ctx, caller, runID)
	if err != nil {
		return nil, err
	}
	summary := run.Summarize()
	return &summary, nil
}
