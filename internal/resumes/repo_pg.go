package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-builder/resume/model"
)

// PGRepo stores snapshots in the resumes table, one JSONB column per section.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, template_id, personal_info, education, work_experience, skills, projects, certifications, export_format, storage_key, created_at`

func (r *PGRepo) Insert(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return ErrInvalidInput
	}
	sections, err := marshalSections(rec.Data)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO resumes (
    id, user_id, template_id, personal_info, education, work_experience, skills, projects, certifications, export_format, storage_key, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	args := []any{rec.ID, rec.UserID, string(rec.TemplateID)}
	args = append(args, sections...)
	args = append(args, nullableString(rec.ExportFormat), nullableString(rec.StorageKey), rec.CreatedAt)
	_, err = r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	query := `SELECT ` + selectColumns + `
FROM resumes
WHERE id = $1
LIMIT 1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *PGRepo) Query(ctx context.Context, filter Filter, order Order, limit, offset int) ([]Record, error) {
	limit, offset = clampPage(limit, offset)

	var where []string
	var args []any
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.TemplateID != "" {
		args = append(args, string(filter.TemplateID))
		where = append(where, fmt.Sprintf("template_id = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT " + selectColumns + "\nFROM resumes")
	if len(where) > 0 {
		b.WriteString("\nWHERE " + strings.Join(where, " AND "))
	}
	direction := "ASC"
	if order.Desc {
		direction = "DESC"
	}
	fmt.Fprintf(&b, "\nORDER BY %s %s, id %s", order.column(), direction, direction)
	args = append(args, limit, offset)
	fmt.Fprintf(&b, "\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var templateID string
	var personal, education, work, skills, projects, certs []byte
	var exportFormat, storageKey sql.NullString
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&templateID,
		&personal,
		&education,
		&work,
		&skills,
		&projects,
		&certs,
		&exportFormat,
		&storageKey,
		&rec.CreatedAt,
	); err != nil {
		return Record{}, err
	}
	rec.TemplateID = model.TemplateID(templateID)
	rec.ExportFormat = exportFormat.String
	rec.StorageKey = storageKey.String

	targets := []struct {
		raw []byte
		dst any
	}{
		{personal, &rec.Data.PersonalInfo},
		{education, &rec.Data.Education},
		{work, &rec.Data.WorkExperience},
		{skills, &rec.Data.Skills},
		{projects, &rec.Data.Projects},
		{certs, &rec.Data.Certifications},
	}
	for _, t := range targets {
		if len(t.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(t.raw, t.dst); err != nil {
			return Record{}, fmt.Errorf("decode resume %s: %w", rec.ID, err)
		}
	}
	rec.Data = rec.Data.Clone()
	return rec, nil
}

func marshalSections(data model.ResumeData) ([]any, error) {
	data = data.Clone()
	values := []any{
		data.PersonalInfo,
		data.Education,
		data.WorkExperience,
		data.Skills,
		data.Projects,
		data.Certifications,
	}
	out := make([]any, len(values))
	for i, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode resume section: %w", err)
		}
		out[i] = raw
	}
	return out, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
