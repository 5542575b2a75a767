package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hmztgr/smartdocs/store"
)

func (d *DB) CreateProject(ctx context.Context, create *store.Project) (*store.Project, error) {
	fields := []string{"uid", "creator_id", "name", "description", "industry", "stage", "confidence", "total_tokens", "metadata", "created_ts", "updated_ts"}
	args := []any{create.UID, create.CreatorID, create.Name, create.Description, create.Industry, create.Stage, create.Confidence, create.TotalTokens, create.Metadata, create.CreatedTs, create.UpdatedTs}

	stmt := `INSERT INTO project (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return create, nil
}

func (d *DB) ListProjects(ctx context.Context, find *store.FindProject) ([]*store.Project, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *find.CreatorID)
	}

	query := `SELECT id, uid, creator_id, name, description, industry, stage, confidence, total_tokens, metadata, created_ts, updated_ts FROM project WHERE ` + strings.Join(where, " AND ") + ` ORDER BY updated_ts DESC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Project, 0)
	for rows.Next() {
		p := &store.Project{}
		if err := rows.Scan(&p.ID, &p.UID, &p.CreatorID, &p.Name, &p.Description, &p.Industry, &p.Stage, &p.Confidence, &p.TotalTokens, &p.Metadata, &p.CreatedTs, &p.UpdatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateProject(ctx context.Context, update *store.UpdateProject) (*store.Project, error) {
	set, args := []string{}, []any{}

	if update.Name != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *update.Name)
	}
	if update.Description != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *update.Description)
	}
	if update.Industry != nil {
		set, args = append(set, "industry = "+placeholder(len(args)+1)), append(args, *update.Industry)
	}
	if update.Stage != nil {
		set, args = append(set, "stage = "+placeholder(len(args)+1)), append(args, *update.Stage)
	}
	if update.Confidence != nil {
		set, args = append(set, "confidence = "+placeholder(len(args)+1)), append(args, *update.Confidence)
	}
	if update.TotalTokens != nil {
		set, args = append(set, "total_tokens = "+placeholder(len(args)+1)), append(args, *update.TotalTokens)
	}
	if update.Metadata != nil {
		set, args = append(set, "metadata = "+placeholder(len(args)+1)), append(args, *update.Metadata)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE project SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING id, uid, creator_id, name, description, industry, stage, confidence, total_tokens, metadata, created_ts, updated_ts`
	result := &store.Project{}
	err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&result.ID, &result.UID, &result.CreatorID, &result.Name, &result.Description, &result.Industry, &result.Stage, &result.Confidence, &result.TotalTokens, &result.Metadata, &result.CreatedTs, &result.UpdatedTs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return result, nil
}

func (d *DB) DeleteProject(ctx context.Context, delete *store.DeleteProject) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM project WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project not found")
	}

	return nil
}
