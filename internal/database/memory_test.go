package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/model"
)

func newWebsite(owner model.Principal) *model.Website {
	now := time.Now().UTC()
	return &model.Website{
		ID:        uuid.NewString(),
		URL:       "https://example.com/",
		Title:     "Example",
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryDB_WebsiteLifecycle(t *testing.T) {
	ctx := context.Background()
	db := database.NewMemoryDB()

	website := newWebsite("oidc:alice")
	require.NoError(t, db.CreateWebsite(ctx, website))
	assert.ErrorIs(t, db.CreateWebsite(ctx, website), database.ErrAlreadyExists)

	got, err := db.GetWebsite(ctx, website.ID)
	require.NoError(t, err)
	assert.Equal(t, website.URL, got.URL)

	// Returned records are copies
	got.Title = "changed"
	again, err := db.GetWebsite(ctx, website.ID)
	require.NoError(t, err)
	assert.Equal(t, "Example", again.Title)

	updated, err := db.UpdateWebsite(ctx, website.ID, func(w *model.Website) error {
		w.Bugs = append(w.Bugs, model.Bug{ID: "b1", Description: "broken", Severity: model.SeverityHigh})
		w.ID = "ignored"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, website.ID, updated.ID)
	assert.Len(t, updated.Bugs, 1)
	assert.Equal(t, int64(1), updated.Revision)

	require.NoError(t, db.DeleteWebsite(ctx, website.ID))
	_, err = db.GetWebsite(ctx, website.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.ErrorIs(t, db.DeleteWebsite(ctx, website.ID), database.ErrNotFound)
}

func TestMemoryDB_UpdateWebsiteAbortsOnError(t *testing.T) {
	ctx := context.Background()
	db := database.NewMemoryDB()
	website := newWebsite("oidc:alice")
	require.NoError(t, db.CreateWebsite(ctx, website))

	boom := errors.New("boom")
	_, err := db.UpdateWebsite(ctx, website.ID, func(w *model.Website) error {
		w.Title = "half-written"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := db.GetWebsite(ctx, website.ID)
	require.NoError(t, err)
	assert.Equal(t, "Example", got.Title)
	assert.Equal(t, int64(0), got.Revision)

	_, err = db.UpdateWebsite(ctx, uuid.NewString(), func(*model.Website) error { return nil })
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestMemoryDB_ListWebsitesPagination(t *testing.T) {
	ctx := context.Background()
	db := database.NewMemoryDB()

	alice := model.Principal("oidc:alice")
	bob := model.Principal("oidc:bob")
	for i := 0; i < 5; i++ {
		require.NoError(t, db.CreateWebsite(ctx, newWebsite(alice)))
	}
	require.NoError(t, db.CreateWebsite(ctx, newWebsite(bob)))

	tests := []struct {
		name   string
		filter *database.WebsiteFilter
		want   int
	}{
		{"no filter", nil, 6},
		{"owner filter", &database.WebsiteFilter{Owner: &alice}, 5},
		{"other owner", &database.WebsiteFilter{Owner: &bob}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var all []*model.Website
			cursor := ""
			for {
				page, next, err := db.ListWebsites(ctx, tt.filter, cursor, 2)
				require.NoError(t, err)
				assert.LessOrEqual(t, len(page), 2)
				all = append(all, page...)
				if next == "" {
					break
				}
				cursor = next
			}
			assert.Len(t, all, tt.want)
			for i := 1; i < len(all); i++ {
				assert.Less(t, all[i-1].ID, all[i].ID)
			}
		})
	}
}

func TestMemoryDB_TestRuns(t *testing.T) {
	ctx := context.Background()
	db := database.NewMemoryDB()
	website := newWebsite("oidc:alice")
	require.NoError(t, db.CreateWebsite(ctx, website))

	orphan := &model.TestRun{ID: uuid.NewString(), WebsiteID: uuid.NewString()}
	assert.ErrorIs(t, db.CreateTestRun(ctx, orphan), database.ErrNotFound)

	run := &model.TestRun{
		ID:        uuid.NewString(),
		WebsiteID: website.ID,
		Name:      "smoke",
		Owner:     website.Owner,
		Results: []model.TestResult{
			{TestCaseID: "tc1", Status: model.TestStatusPending},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.CreateTestRun(ctx, run))

	updated, err := db.UpdateTestRun(ctx, run.ID, func(r *model.TestRun) error {
		r.Results[0].Status = model.TestStatusPassed
		r.WebsiteID = "moved"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, website.ID, updated.WebsiteID)
	assert.Equal(t, model.TestStatusPassed, updated.Results[0].Status)

	runs, next, err := db.ListTestRuns(ctx, &database.TestRunFilter{WebsiteID: &website.ID}, "", 10)
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.Len(t, runs, 1)

	require.NoError(t, db.DeleteWebsite(ctx, website.ID))
	_, err = db.GetTestRun(ctx, run.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestMemoryDB_ListTestRunsInCreationOrder(t *testing.T) {
	ctx := context.Background()
	db := database.NewMemoryDB()
	website := newWebsite("oidc:alice")
	require.NoError(t, db.CreateWebsite(ctx, website))

	var want []string
	for _, name := range []string{"first", "second", "third"} {
		run := &model.TestRun{
			ID:        model.NewID(),
			WebsiteID: website.ID,
			Name:      name,
			Owner:     website.Owner,
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, db.CreateTestRun(ctx, run))
		want = append(want, name)
	}

	filter := &database.TestRunFilter{WebsiteID: &website.ID}
	page, next, err := db.ListTestRuns(ctx, filter, "", 2)
	require.NoError(t, err)
	require.NotEmpty(t, next)
	rest, next, err := db.ListTestRuns(ctx, filter, next, 2)
	require.NoError(t, err)
	assert.Empty(t, next)

	var got []string
	for _, run := range append(page, rest...) {
		got = append(got, run.Name)
	}
	assert.Equal(t, want, got)
}

func TestMemoryDB_ProfilesAndRoles(t *testing.T) {
	ctx := context.Background()
	db := database.NewMemoryDB()
	alice := model.Principal("oidc:alice")

	_, err := db.GetProfile(ctx, alice)
	assert.ErrorIs(t, err, database.ErrNotFound)

	require.NoError(t, db.SaveProfile(ctx, alice, model.UserProfile{Name: "Alice"}))
	profile, err := db.GetProfile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)

	_, err = db.GetRole(ctx, alice)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.ErrorIs(t, db.SetRole(ctx, alice, "superuser"), database.ErrInvalidInput)

	require.NoError(t, db.SetRole(ctx, alice, model.RoleAdmin))
	role, err := db.GetRole(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)
}

func TestMemoryDB_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	db := database.NewMemoryDB()

	_, err := db.GetWebsite(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = db.ListWebsites(ctx, nil, "", 0)
	assert.ErrorIs(t, err, context.Canceled)
}
