package supply

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/greenasset/tokend/internal/platform/db"

	"github.com/pkg/errors"
)

const storageKey = "supply"

// Save puts a single supply record in storage.
func Save(ctx context.Context, dbConn *db.DB, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal supply record")
	}

	return dbConn.Put(ctx, buildStoragePath(record.ProjectID), data)
}

// Fetch a single supply record from storage.
func Fetch(ctx context.Context, dbConn *db.DB, projectID string) (*Record, error) {
	key := buildStoragePath(projectID)

	b, err := dbConn.Fetch(ctx, key)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch supply record")
	}

	record := Record{}
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal supply record")
	}

	return &record, nil
}

// Returns the storage path for a given project.
func buildStoragePath(projectID string) string {
	return fmt.Sprintf("%s/%s", storageKey, projectID)
}
