// internal/store/projects.go

// Package store persists project and settings documents in PostgreSQL.
// Documents are stored as JSONB so the input model can evolve without
// migrations; indexed columns carry only what queries need.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"roi-navigator/internal/common/errors"
	"roi-navigator/internal/common/logger"
	"roi-navigator/internal/models"
)

const defaultListLimit = 50

// OwnerAll bypasses owner filtering when listing projects.
const OwnerAll = "all"

// Keys that a merge patch can never overwrite. The results snapshot is
// fixed at creation time.
var protectedKeys = []string{"id", "owner_uid", "created_at", "updated_at", "results", "complexity_score"}

// ProjectStore provides CRUD access to project documents.
type ProjectStore struct {
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// NewProjectStore creates a project store over the given database.
func NewProjectStore(db *sql.DB, log logger.Logger) *ProjectStore {
	return &ProjectStore{
		db:     db,
		logger: log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Create persists a new project document. The ID and timestamps are
// assigned here; anything set by the caller is overwritten.
func (s *ProjectStore) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.ID = s.newID()
	project.CreatedAt = s.now().UTC()
	project.UpdatedAt = project.CreatedAt

	doc, err := json.Marshal(project)
	if err != nil {
		return nil, errors.NewStoreError("create", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, owner_uid, created_at, updated_at, document) VALUES ($1, $2, $3, $4, $5)`,
		project.ID, project.OwnerUID, project.CreatedAt, project.UpdatedAt, doc,
	)
	if err != nil {
		return nil, errors.NewStoreError("create", err)
	}

	s.logger.Info("Project created", map[string]interface{}{
		"project_id": project.ID,
		"owner_uid":  project.OwnerUID,
	})

	return project, nil
}

// Get retrieves a project by ID.
func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM projects WHERE id = $1`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewProjectNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewStoreError("get", err)
	}

	var project models.Project
	if err := json.Unmarshal(doc, &project); err != nil {
		return nil, errors.NewStoreError("get", err)
	}

	return &project, nil
}

// List returns projects newest first. Owner "all" lists everything;
// limit 0 applies the default page size.
func (s *ProjectStore) List(ctx context.Context, ownerUID string, limit int) ([]*models.Project, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if ownerUID == OwnerAll {
		rows, err = s.db.QueryContext(ctx,
			`SELECT document FROM projects ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT document FROM projects WHERE owner_uid = $1 ORDER BY created_at DESC LIMIT $2`, ownerUID, limit)
	}
	if err != nil {
		return nil, errors.NewStoreError("list", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.NewStoreError("list", err)
		}

		var project models.Project
		if err := json.Unmarshal(doc, &project); err != nil {
			return nil, errors.NewStoreError("list", err)
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("list", err)
	}

	return projects, nil
}

// Update applies a merge patch to the stored document and refreshes the
// updated_at timestamp. Protected keys in the patch are dropped, so the
// results snapshot stays exactly as computed at creation.
func (s *ProjectStore) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Project, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM projects WHERE id = $1`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewProjectNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewStoreError("update", err)
	}

	var existing map[string]interface{}
	if err := json.Unmarshal(doc, &existing); err != nil {
		return nil, errors.NewStoreError("update", err)
	}

	for key, value := range patch {
		if isProtectedKey(key) {
			continue
		}
		if subPatch, ok := value.(map[string]interface{}); ok {
			if subDoc, ok := existing[key].(map[string]interface{}); ok {
				mergeDocument(subDoc, subPatch)
				continue
			}
		}
		existing[key] = value
	}

	updatedAt := s.now().UTC()
	existing["updated_at"] = updatedAt.Format(time.RFC3339Nano)

	merged, err := json.Marshal(existing)
	if err != nil {
		return nil, errors.NewStoreError("update", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE projects SET document = $1, updated_at = $2 WHERE id = $3`,
		merged, updatedAt, id,
	)
	if err != nil {
		return nil, errors.NewStoreError("update", err)
	}

	var project models.Project
	if err := json.Unmarshal(merged, &project); err != nil {
		return nil, errors.NewStoreError("update", err)
	}

	return &project, nil
}

// Delete removes a project by ID.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return errors.NewStoreError("delete", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewStoreError("delete", err)
	}
	if affected == 0 {
		return errors.NewProjectNotFoundError(id)
	}

	s.logger.Info("Project deleted", map[string]interface{}{"project_id": id})
	return nil
}

// mergeDocument merges src into dst, descending into nested objects so
// a partial section patch keeps its sibling fields.
func mergeDocument(dst, src map[string]interface{}) {
	for key, value := range src {
		if subPatch, ok := value.(map[string]interface{}); ok {
			if subDoc, ok := dst[key].(map[string]interface{}); ok {
				mergeDocument(subDoc, subPatch)
				continue
			}
		}
		dst[key] = value
	}
}

func isProtectedKey(key string) bool {
	for _, protected := range protectedKeys {
		if key == protected {
			return true
		}
	}
	return false
}
