// internal/store/projects_test.go
package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roi-navigator/internal/common/errors"
	"roi-navigator/internal/common/logger"
	"roi-navigator/internal/models"
)

func newTestProjectStore(t *testing.T) (*ProjectStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewProjectStore(db, logger.NewNoOpLogger())
	s.newID = func() string { return "11111111-2222-3333-4444-555555555555" }
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	return s, mock
}

func sampleProject() *models.Project {
	return &models.Project{
		ProjectName: "Invoice Processing",
		OwnerUID:    "user-1",
		InputsAsIs:  models.FinancialInputs{Volume: 1000, AHT: 10, FTECost: 3000},
		ComplexityScore: models.ComplexityResult{
			TotalPoints:    4,
			Classification: models.ClassificationLow,
			Hours:          100,
		},
		Results: models.FinancialResult{DevelopmentCost: 12000, AnnualSavings: 15700},
	}
}

func sampleDocument(t *testing.T) []byte {
	t.Helper()

	p := sampleProject()
	p.ID = "11111111-2222-3333-4444-555555555555"
	p.CreatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt

	doc, err := json.Marshal(p)
	require.NoError(t, err)
	return doc
}

func TestProjectStore_Create(t *testing.T) {
	s, mock := newTestProjectStore(t)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO projects (id, owner_uid, created_at, updated_at, document) VALUES ($1, $2, $3, $4, $5)`,
	)).
		WithArgs("11111111-2222-3333-4444-555555555555", "user-1", created, created, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	project, err := s.Create(context.Background(), sampleProject())
	require.NoError(t, err)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", project.ID)
	assert.Equal(t, created, project.CreatedAt)
	assert.Equal(t, created, project.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_Get(t *testing.T) {
	s, mock := newTestProjectStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT document FROM projects WHERE id = $1`)).
		WithArgs("11111111-2222-3333-4444-555555555555").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(sampleDocument(t)))

	project, err := s.Get(context.Background(), "11111111-2222-3333-4444-555555555555")
	require.NoError(t, err)

	assert.Equal(t, "Invoice Processing", project.ProjectName)
	assert.Equal(t, 12000.0, project.Results.DevelopmentCost)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_GetNotFound(t *testing.T) {
	s, mock := newTestProjectStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT document FROM projects WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_ListFiltersByOwner(t *testing.T) {
	s, mock := newTestProjectStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT document FROM projects WHERE owner_uid = $1 ORDER BY created_at DESC LIMIT $2`,
	)).
		WithArgs("user-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(sampleDocument(t)))

	projects, err := s.List(context.Background(), "user-1", 0)
	require.NoError(t, err)

	require.Len(t, projects, 1)
	assert.Equal(t, "user-1", projects[0].OwnerUID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_ListAllBypassesOwnerFilter(t *testing.T) {
	s, mock := newTestProjectStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT document FROM projects ORDER BY created_at DESC LIMIT $1`,
	)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(sampleDocument(t)))

	projects, err := s.List(context.Background(), OwnerAll, 10)
	require.NoError(t, err)

	assert.Len(t, projects, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_ListEmptyResult(t *testing.T) {
	s, mock := newTestProjectStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT document FROM projects WHERE owner_uid = $1 ORDER BY created_at DESC LIMIT $2`,
	)).
		WithArgs("nobody", 50).
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	projects, err := s.List(context.Background(), "nobody", 0)
	require.NoError(t, err)

	assert.NotNil(t, projects)
	assert.Empty(t, projects)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_UpdateMergesPatchAndProtectsResults(t *testing.T) {
	s, mock := newTestProjectStore(t)
	id := "11111111-2222-3333-4444-555555555555"

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT document FROM projects WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(sampleDocument(t)))

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE projects SET document = $1, updated_at = $2 WHERE id = $3`,
	)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	patch := map[string]interface{}{
		"project_name": "Invoice Processing v2",
		"results":      map[string]interface{}{"development_cost": 1.0},
	}

	project, err := s.Update(context.Background(), id, patch)
	require.NoError(t, err)

	assert.Equal(t, "Invoice Processing v2", project.ProjectName)
	// The results snapshot from creation survives the patch attempt.
	assert.Equal(t, 12000.0, project.Results.DevelopmentCost)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_UpdatePartialSectionKeepsSiblingFields(t *testing.T) {
	s, mock := newTestProjectStore(t)
	id := "11111111-2222-3333-4444-555555555555"

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT document FROM projects WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(sampleDocument(t)))

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE projects SET document = $1, updated_at = $2 WHERE id = $3`,
	)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	patch := map[string]interface{}{
		"inputs_as_is": map[string]interface{}{"volume": 1200.0},
	}

	project, err := s.Update(context.Background(), id, patch)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, project.InputsAsIs.Volume)
	assert.Equal(t, 10.0, project.InputsAsIs.AHT)
	assert.Equal(t, 3000.0, project.InputsAsIs.FTECost)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_UpdateNotFound(t *testing.T) {
	s, mock := newTestProjectStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT document FROM projects WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	_, err := s.Update(context.Background(), "missing", map[string]interface{}{"project_name": "x"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_Delete(t *testing.T) {
	s, mock := newTestProjectStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM projects WHERE id = $1`)).
		WithArgs("11111111-2222-3333-4444-555555555555").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Delete(context.Background(), "11111111-2222-3333-4444-555555555555")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_DeleteNotFound(t *testing.T) {
	s, mock := newTestProjectStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM projects WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
