package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/apollo-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLiteRunLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	run, err := st.CreateRun(ctx, "input_linkedin.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	result := &model.RunResult{
		URLsTotal:   3,
		Enriched:    1,
		NoMatch:     1,
		InvalidURL:  1,
		CreditsUsed: 1,
		OutputPath:  "apollo_contact_data.csv",
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, result))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 1, got.Result.CreditsUsed)
	assert.Equal(t, 3, got.Result.URLsTotal)
}

func TestSQLiteFailRun(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	run, err := st.CreateRun(ctx, "input.txt")
	require.NoError(t, err)

	require.NoError(t, st.FailRun(ctx, run.ID, "export: create file: permission denied"))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	require.NotNil(t, got.Result)
	assert.Contains(t, got.Result.Error, "permission denied")
}

func TestSQLiteCompleteRunNotFound(t *testing.T) {
	st := newTestStore(t)

	err := st.CompleteRun(context.Background(), "missing-id", &model.RunResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetRun(context.Background(), "missing-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLiteListRunsFilter(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	first, err := st.CreateRun(ctx, "a.txt")
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "b.txt")
	require.NoError(t, err)

	require.NoError(t, st.CompleteRun(ctx, first.ID, &model.RunResult{URLsTotal: 1}))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, first.ID, complete[0].ID)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteContacts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	run, err := st.CreateRun(ctx, "input.txt")
	require.NoError(t, err)

	rec := model.PersonRecord{
		FirstName:       "Jane",
		LastName:        "Doe",
		LinkedInURL:     "https://linkedin.com/in/jane-doe",
		MobileStatusRaw: model.MobileStatusVerified,
		VerifiedMobile:  "+15551234567",
		PersonID:        "p-1",
		CreditsUsed:     1,
		Status:          model.RowStatusEnriched,
	}
	saved, err := st.SaveContact(ctx, run.ID, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	_, err = st.SaveContact(ctx, run.ID, model.PersonRecord{
		LinkedInURL: "https://invalid-url",
		Status:      model.RowStatusInvalidURL,
	})
	require.NoError(t, err)

	contacts, err := st.ListContacts(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	assert.Equal(t, "p-1", contacts[0].PersonID)
	assert.Equal(t, model.RowStatusEnriched, contacts[0].Status)
	assert.Equal(t, "+15551234567", contacts[0].Record.VerifiedMobile)
	assert.Equal(t, model.RowStatusInvalidURL, contacts[1].Status)
}

func TestSQLiteListContactsEmpty(t *testing.T) {
	st := newTestStore(t)

	contacts, err := st.ListContacts(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, contacts)
}
