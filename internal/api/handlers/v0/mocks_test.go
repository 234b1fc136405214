package v0_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/qadesk/qadesk/internal/model"
)

// MockQAService is a mock implementation of the QAService interface
type MockQAService struct {
	mock.Mock
}

// ptr returns args.Get(i) as *T, tolerating untyped nil
func ptr[T any](args mock.Arguments, i int) *T {
	v, _ := args.Get(i).(*T)
	return v
}

func (m *MockQAService) GenerateWebsiteTestingData(ctx context.Context, caller model.Principal, input model.GenerateInput) (*model.Website, error) {
	args := m.Called(ctx, caller, input)
	return ptr[model.Website](args, 0), args.Error(1)
}

func (m *MockQAService) GetWebsite(ctx context.Context, caller model.Principal, id string) (*model.Website, error) {
	args := m.Called(ctx, caller, id)
	return ptr[model.Website](args, 0), args.Error(1)
}

func (m *MockQAService) ListWebsites(ctx context.Context, caller model.Principal, cursor string, limit int) ([]*model.Website, string, error) {
	args := m.Called(ctx, caller, cursor, limit)
	websites, _ := args.Get(0).([]*model.Website)
	return websites, args.String(1), args.Error(2)
}

func (m *MockQAService) DeleteWebsite(ctx context.Context, caller model.Principal, id string) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *MockQAService) AddBug(ctx context.Context, caller model.Principal, websiteID string, input model.BugInput) (*model.Bug, error) {
	args := m.Called(ctx, caller, websiteID, input)
	return ptr[model.Bug](args, 0), args.Error(1)
}

func (m *MockQAService) UpdateBug(ctx context.Context, caller model.Principal, websiteID, bugID string, input model.BugInput) (*model.Bug, error) {
	args := m.Called(ctx, caller, websiteID, bugID, input)
	return ptr[model.Bug](args, 0), args.Error(1)
}

func (m *MockQAService) DeleteBug(ctx context.Context, caller model.Principal, websiteID, bugID string) error {
	return m.Called(ctx, caller, websiteID, bugID).Error(0)
}

func (m *MockQAService) AddTestCase(ctx context.Context, caller model.Principal, websiteID string, input model.TestCaseInput) (*model.TestCase, error) {
	args := m.Called(ctx, caller, websiteID, input)
	return ptr[model.TestCase](args, 0), args.Error(1)
}

func (m *MockQAService) UpdateTestCase(ctx context.Context, caller model.Principal, websiteID, testCaseID string, input model.TestCaseInput) (*model.TestCase, error) {
	args := m.Called(ctx, caller, websiteID, testCaseID, input)
	return ptr[model.TestCase](args, 0), args.Error(1)
}

func (m *MockQAService) DeleteTestCase(ctx context.Context, caller model.Principal, websiteID, testCaseID string) error {
	return m.Called(ctx, caller, websiteID, testCaseID).Error(0)
}

func (m *MockQAService) AddCornerCase(ctx context.Context, caller model.Principal, websiteID string, input model.CornerCaseInput) (*model.CornerCase, error) {
	args := m.Called(ctx, caller, websiteID, input)
	return ptr[model.CornerCase](args, 0), args.Error(1)
}

func (m *MockQAService) UpdateCornerCase(ctx context.Context, caller model.Principal, websiteID, cornerCaseID string, input model.CornerCaseInput) (*model.CornerCase, error) {
	args := m.Called(ctx, caller, websiteID, cornerCaseID, input)
	return ptr[model.CornerCase](args, 0), args.Error(1)
}

func (m *MockQAService) DeleteCornerCase(ctx context.Context, caller model.Principal, websiteID, cornerCaseID string) error {
	return m.Called(ctx, caller, websiteID, cornerCaseID).Error(0)
}

func (m *MockQAService) GetCallerUserProfile(ctx context.Context, caller model.Principal) (*model.UserProfile, error) {
	args := m.Called(ctx, caller)
	return ptr[model.UserProfile](args, 0), args.Error(1)
}

func (m *MockQAService) SaveCallerUserProfile(ctx context.Context, caller model.Principal, profile model.UserProfile) error {
	return m.Called(ctx, caller, profile).Error(0)
}

func (m *MockQAService) GetUserProfile(ctx context.Context, caller, user model.Principal) (*model.UserProfile, error) {
	args := m.Called(ctx, caller, user)
	return ptr[model.UserProfile](args, 0), args.Error(1)
}

func (m *MockQAService) GetCallerUserRole(ctx context.Context, caller model.Principal) (model.UserRole, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(model.UserRole), args.Error(1)
}

func (m *MockQAService) AssignCallerUserRole(ctx context.Context, caller, user model.Principal, role model.UserRole) error {
	return m.Called(ctx, caller, user, role).Error(0)
}

func (m *MockQAService) IsCallerAdmin(ctx context.Context, caller model.Principal) (bool, error) {
	args := m.Called(ctx, caller)
	return args.Bool(0), args.Error(1)
}

func (m *MockQAService) CreateTestRun(ctx context.Context, caller model.Principal, websiteID string, input model.TestRunInput) (*model.TestRun, error) {
	args := m.Called(ctx, caller, websiteID, input)
	return ptr[model.TestRun](args, 0), args.Error(1)
}

func (m *MockQAService) GetTestRun(ctx context.Context, caller model.Principal, id string) (*model.TestRun, error) {
	args := m.Called(ctx, caller, id)
	return ptr[model.TestRun](args, 0), args.Error(1)
}

func (m *MockQAService) ListTestRuns(ctx context.Context, caller model.Principal, websiteID, cursor string, limit int) ([]*model.TestRun, string, error) {
	args := m.Called(ctx, caller, websiteID, cursor, limit)
	runs, _ := args.Get(0).([]*model.TestRun)
	return runs, args.String(1), args.Error(2)
}

func (m *MockQAService) RecordTestResult(ctx context.Context, caller model.Principal, runID, testCaseID string, input model.TestResultInput) (*model.TestRun, error) {
	args := m.Called(ctx, caller, runID, testCaseID, input)
	return ptr[model.TestRun](args, 0), args.Error(1)
}

func (m *MockQAService) SummarizeTestRun(ctx context.Context, caller model.Principal, runID string) (*model.TestRunSummary, error) {
	args := m.Called(ctx, caller, runID)
	return ptr[model.TestRunSummary](args, 0), args.Error(1)
}
