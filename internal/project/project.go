package project

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/greenasset/tokend/internal/platform/db"
	"github.com/greenasset/tokend/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Project not found")
)

// GenerateID returns a new opaque project identifier.
func GenerateID() string {
	uid, _ := uuid.NewRandom()
	return fmt.Sprintf("project_%s", uid.String())
}

// Create the project.
func Create(ctx context.Context, dbConn *db.DB, nu *NewProject, now time.Time) (*Project, error) {
	ctx, span := trace.StartSpan(ctx, "internal.project.Create")
	defer span.End()

	p := &Project{
		ID:                GenerateID(),
		CompanyName:       nu.CompanyName,
		ProjectName:       nu.ProjectName,
		Description:       nu.Description,
		SDGs:              nu.SDGs,
		VerificationScore: nu.VerificationScore,
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := Save(ctx, dbConn, p); err != nil {
		return nil, err
	}

	logger.Verbose(ctx, "Created project %s for %s", p.ID, p.CompanyName)
	return p, nil
}

// Retrieve gets the specified project from the database.
func Retrieve(ctx context.Context, dbConn *db.DB, projectID string) (*Project, error) {
	ctx, span := trace.StartSpan(ctx, "internal.project.Retrieve")
	defer span.End()

	return Fetch(ctx, dbConn, projectID)
}

// UpdateTokenInfo attaches token information to a project after issuance
// and marks it tokenized.
func UpdateTokenInfo(ctx context.Context, dbConn *db.DB, projectID string,
	info *TokenInfo, now time.Time) (*Project, error) {

	ctx, span := trace.StartSpan(ctx, "internal.project.UpdateTokenInfo")
	defer span.End()

	p, err := Fetch(ctx, dbConn, projectID)
	if err != nil {
		return nil, err
	}

	info.UpdatedAt = now
	p.TokenInfo = info
	p.Status = StatusTokenized
	p.UpdatedAt = now

	if err := Save(ctx, dbConn, p); err != nil {
		return nil, err
	}

	return p, nil
}

// List returns all projects matching the filters, newest first.
func List(ctx context.Context, dbConn *db.DB, filters Filters) ([]*Project, error) {
	ctx, span := trace.StartSpan(ctx, "internal.project.List")
	defer span.End()

	keys, err := dbConn.List(ctx, storageKey)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to list projects")
	}

	projects := make([]*Project, 0, len(keys))
	for _, key := range keys {
		p, err := fetchKey(ctx, dbConn, key)
		if err != nil {
			logger.Warn(ctx, "Skipping unreadable project %s : %s", key, err)
			continue
		}

		if !matches(p, filters) {
			continue
		}

		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return projects, nil
}

func matches(p *Project, filters Filters) bool {
	if len(filters.Status) > 0 && p.Status != filters.Status {
		return false
	}

	if len(filters.CompanyName) > 0 &&
		!strings.Contains(strings.ToLower(p.CompanyName), strings.ToLower(filters.CompanyName)) {
		return false
	}

	if filters.HasTokens && (p.TokenInfo == nil || len(p.TokenInfo.IssuanceID) == 0) {
		return false
	}

	return true
}
