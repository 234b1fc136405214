package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qadesk/qadesk/internal/config"
	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/generator"
	"github.com/qadesk/qadesk/internal/model"
	"github.com/qadesk/qadesk/internal/service"
	"github.com/qadesk/qadesk/internal/validators"
)

const (
	alice model.Principal = "oidc:alice"
	bob   model.Principal = "oidc:bob"
	root  model.Principal = "oidc:root"
)

func newService(t *testing.T) (service.QAService, *database.MemoryDB) {
	t.Helper()
	db := database.NewMemoryDB()
	cfg := &config.Config{AdminPrincipals: []string{string(root)}}
	return service.NewQAService(db, cfg, generator.New(generator.Options{})), db
}

func generate(t *testing.T, svc service.QAService, owner model.Principal) *model.Website {
	t.Helper()
	website, err := svc.GenerateWebsiteTestingData(context.Background(), owner, model.GenerateInput{
		URL:   "  https://Example.com:443/shop  ",
		Title: "Example Shop",
	})
	require.NoError(t, err)
	return website
}

func TestGenerateWebsiteTestingData(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	website := generate(t, svc, alice)
	assert.Equal(t, "https://example.com/shop", website.URL)
	assert.Equal(t, alice, website.Owner)
	assert.NotEmpty(t, website.TestCases)
	assert.NotEmpty(t, website.Bugs)
	assert.NotEmpty(t, website.CornerCases)
	assert.NoError(t, uuid.Validate(website.ID))

	tests := []struct {
		name    string
		caller  model.Principal
		input   model.GenerateInput
		wantErr error
	}{
		{"anonymous", model.Anonymous, model.GenerateInput{URL: "https://example.com", Title: "x"}, service.ErrUnauthenticated},
		{"missing title", alice, model.GenerateInput{URL: "https://example.com", Title: "   "}, service.ErrInvalidInput},
		{"bad scheme", alice, model.GenerateInput{URL: "ftp://example.com", Title: "x"}, validators.ErrURLScheme},
		{"single label host", alice, model.GenerateInput{URL: "https://intranet", Title: "x"}, service.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GenerateWebsiteTestingData(ctx, tt.caller, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWebsiteAccess(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	website := generate(t, svc, alice)

	_, err := svc.GetWebsite(ctx, alice, website.ID)
	assert.NoError(t, err)

	_, err = svc.GetWebsite(ctx, bob, website.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.GetWebsite(ctx, root, website.ID)
	assert.NoError(t, err, "admins see every website")

	_, err = svc.GetWebsite(ctx, model.Anonymous, website.ID)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	_, err = svc.GetWebsite(ctx, alice, uuid.NewString())
	assert.ErrorIs(t, err, database.ErrNotFound)

	mine, next, err := svc.ListWebsites(ctx, alice, "", 10)
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.Len(t, mine, 1)

	theirs, _, err := svc.ListWebsites(ctx, bob, "", 10)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	assert.ErrorIs(t, svc.DeleteWebsite(ctx, bob, website.ID), service.ErrForbidden)
	require.NoError(t, svc.DeleteWebsite(ctx, alice, website.ID))
	_, err = svc.GetWebsite(ctx, alice, website.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestBugs(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	website := generate(t, svc, alice)

	bug, err := svc.AddBug(ctx, alice, website.ID, model.BugInput{Description: " Checkout crashes ", Severity: model.SeverityCritical})
	require.NoError(t, err)
	assert.Equal(t, "Checkout crashes", bug.Description)

	_, err = svc.AddBug(ctx, alice, website.ID, model.BugInput{Description: "x", Severity: "urgent"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.ErrorIs(t, err, validators.ErrInvalidRecord)

	_, err = svc.AddBug(ctx, bob, website.ID, model.BugInput{Description: "x", Severity: model.SeverityLow})
	assert.ErrorIs(t, err, service.ErrForbidden)

	updated, err := svc.UpdateBug(ctx, alice, website.ID, bug.ID, model.BugInput{Description: "Checkout fails", Severity: model.SeverityHigh})
	require.NoError(t, err)
	assert.Equal(t, bug.ID, updated.ID)

	got, err := svc.GetWebsite(ctx, alice, website.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Bugs, *updated)

	_, err = svc.UpdateBug(ctx, alice, website.ID, uuid.NewString(), model.BugInput{Description: "x", Severity: model.SeverityLow})
	assert.ErrorIs(t, err, database.ErrNotFound)

	require.NoError(t, svc.DeleteBug(ctx, alice, website.ID, bug.ID))
	assert.ErrorIs(t, svc.DeleteBug(ctx, alice, website.ID, bug.ID), database.ErrNotFound)
}

func TestTestCasesAndCornerCases(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	website := generate(t, svc, alice)

	tc, err := svc.AddTestCase(ctx, alice, website.ID, model.TestCaseInput{Description: "Search works", Steps: "1. Search"})
	require.NoError(t, err)
	_, err = svc.UpdateTestCase(ctx, alice, website.ID, tc.ID, model.TestCaseInput{Description: "Search finds items", Steps: "1. Search\n2. Check"})
	require.NoError(t, err)
	_, err = svc.AddTestCase(ctx, alice, website.ID, model.TestCaseInput{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	require.NoError(t, svc.DeleteTestCase(ctx, alice, website.ID, tc.ID))

	cc, err := svc.AddCornerCase(ctx, root, website.ID, model.CornerCaseInput{Description: "Empty cart", Scenario: "Checkout with nothing"})
	require.NoError(t, err, "admins may edit any website")
	_, err = svc.UpdateCornerCase(ctx, alice, website.ID, cc.ID, model.CornerCaseInput{Description: "Empty basket"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteCornerCase(ctx, alice, website.ID, uuid.NewString()), database.ErrNotFound)
	require.NoError(t, svc.DeleteCornerCase(ctx, alice, website.ID, cc.ID))

	got, err := svc.GetWebsite(ctx, alice, website.ID)
	require.NoError(t, err)
	for _, c := range got.CornerCases {
		assert.NotEqual(t, cc.ID, c.ID)
	}
}

func TestProfiles(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	profile, err := svc.GetCallerUserProfile(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, profile)

	assert.ErrorIs(t, svc.SaveCallerUserProfile(ctx, alice, model.UserProfile{Name: "  "}), service.ErrInvalidInput)
	assert.ErrorIs(t, svc.SaveCallerUserProfile(ctx, model.Anonymous, model.UserProfile{Name: "x"}), service.ErrUnauthenticated)
	require.NoError(t, svc.SaveCallerUserProfile(ctx, alice, model.UserProfile{Name: " Alice "}))

	profile, err = svc.GetCallerUserProfile(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Alice", profile.Name)

	_, err = svc.GetUserProfile(ctx, bob, alice)
	assert.ErrorIs(t, err, service.ErrForbidden)

	profile, err = svc.GetUserProfile(ctx, root, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
}

func TestRoles(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		caller model.Principal
		want   model.UserRole
	}{
		{model.Anonymous, model.RoleGuest},
		{alice, model.RoleUser},
		{root, model.RoleAdmin},
	}
	for _, tt := range tests {
		role, err := svc.GetCallerUserRole(ctx, tt.caller)
		require.NoError(t, err)
		assert.Equal(t, tt.want, role, string(tt.caller))
	}

	assert.ErrorIs(t, svc.AssignCallerUserRole(ctx, alice, bob, model.RoleAdmin), service.ErrForbidden)
	assert.ErrorIs(t, svc.AssignCallerUserRole(ctx, root, bob, "owner"), service.ErrInvalidInput)

	require.NoError(t, svc.AssignCallerUserRole(ctx, root, bob, model.RoleAdmin))
	admin, err := svc.IsCallerAdmin(ctx, bob)
	require.NoError(t, err)
	assert.True(t, admin)

	require.NoError(t, svc.AssignCallerUserRole(ctx, bob, alice, model.RoleGuest))
	_, err = svc.GenerateWebsiteTestingData(ctx, alice, model.GenerateInput{URL: "https://example.com", Title: "x"})
	assert.ErrorIs(t, err, service.ErrForbidden, "guests are read-only")

	admin, err = svc.IsCallerAdmin(ctx, model.Anonymous)
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestTestRuns(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	website := generate(t, svc, alice)
	require.GreaterOrEqual(t, len(website.TestCases), 2)

	_, err := svc.CreateTestRun(ctx, alice, website.ID, model.TestRunInput{Name: "bad", TestCaseIDs: []string{uuid.NewString()}})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.CreateTestRun(ctx, bob, website.ID, model.TestRunInput{Name: "nosy"})
	assert.ErrorIs(t, err, service.ErrForbidden)

	selected := []string{website.TestCases[1].ID, website.TestCases[0].ID}
	run, err := svc.CreateTestRun(ctx, alice, website.ID, model.TestRunInput{Name: "Smoke", TestCaseIDs: selected})
	require.NoError(t, err)
	require.Len(t, run.Results, 2)
	assert.Equal(t, website.TestCases[0].ID, run.Results[0].TestCaseID, "results keep website order")
	assert.False(t, run.IsComplete())

	full, err := svc.CreateTestRun(ctx, alice, website.ID, model.TestRunInput{Name: "Full"})
	require.NoError(t, err)
	assert.Len(t, full.Results, len(website.TestCases))

	run, err = svc.RecordTestResult(ctx, alice, run.ID, selected[0], model.TestResultInput{Status: model.TestStatusPassed})
	require.NoError(t, err)
	assert.Nil(t, run.CompletedAt)

	_, err = svc.RecordTestResult(ctx, alice, run.ID, selected[1], model.TestResultInput{Status: "skipped"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.RecordTestResult(ctx, alice, run.ID, uuid.NewString(), model.TestResultInput{Status: model.TestStatusPassed})
	assert.ErrorIs(t, err, database.ErrNotFound)

	run, err = svc.RecordTestResult(ctx, alice, run.ID, selected[1], model.TestResultInput{Status: model.TestStatusFailed, Notes: "500 on submit"})
	require.NoError(t, err)
	assert.NotNil(t, run.CompletedAt)

	summary, err := svc.SummarizeTestRun(ctx, alice, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TestRunSummary{Total: 2, Passed: 1, Failed: 1, PassRate: 0.5}, *summary)

	runs, _, err := svc.ListTestRuns(ctx, alice, website.ID, "", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	_, _, err = svc.ListTestRuns(ctx, bob, website.ID, "", 10)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.GetTestRun(ctx, bob, run.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}
