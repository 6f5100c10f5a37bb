package project

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/greenasset/tokend/internal/platform/db"

	"github.com/pkg/errors"
)

const storageKey = "projects"

// Save puts a single project in storage.
func Save(ctx context.Context, dbConn *db.DB, p *Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal project")
	}

	return dbConn.Put(ctx, buildStoragePath(p.ID), data)
}

// Fetch a single project from storage.
func Fetch(ctx context.Context, dbConn *db.DB, projectID string) (*Project, error) {
	return fetchKey(ctx, dbConn, buildStoragePath(projectID))
}

func fetchKey(ctx context.Context, dbConn *db.DB, key string) (*Project, error) {
	b, err := dbConn.Fetch(ctx, key)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch project")
	}

	p := Project{}
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal project")
	}

	return &p, nil
}

// Remove deletes a project from storage.
func Remove(ctx context.Context, dbConn *db.DB, projectID string) error {
	if err := dbConn.Remove(ctx, buildStoragePath(projectID)); err != nil {
		if err == db.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Returns the storage path for a given project.
func buildStoragePath(projectID string) string {
	return fmt.Sprintf("%s/%s", storageKey, projectID)
}
