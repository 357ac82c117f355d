package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/fieldplan/internal/models"
)

const activityColumns = `id, subject_name, field_name, season, activity_kind,
       to_char(start_date, 'YYYY-MM-DD'), duration_days, to_char(end_date, 'YYYY-MM-DD'), deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (models.Activity, error) {
	var a models.Activity
	var id, kind string
	var deletedAt sql.NullString

	if err := row.Scan(&id, &a.SubjectName, &a.FieldName, &a.Season, &kind,
		&a.StartDate, &a.DurationDays, &a.EndDate, &deletedAt); err != nil {
		return models.Activity{}, err
	}
	a.ID = models.ActivityID(id)
	a.Kind = models.ActivityKind(kind)
	if deletedAt.Valid {
		a.DeletedAt = &deletedAt.String
	}
	return a, nil
}

func (s *Store) queryActivities(query string) ([]models.Activity, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var acts []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

func (s *Store) AddActivity(a models.Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
INSERT INTO activities (id, subject_name, field_name, season, activity_kind,
                        start_date, duration_days, end_date, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
        (SELECT COALESCE(MAX(position), -1) + 1 FROM activities))`,
		string(a.ID), a.SubjectName, a.FieldName, a.Season, string(a.Kind),
		a.StartDate, a.DurationDays, a.EndDate,
	)
	if err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}
	return nil
}

func (s *Store) GetActivity(id models.ActivityID) (models.Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityColumns+`
FROM activities WHERE id = $1 AND deleted_at IS NULL`, string(id))

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, fmt.Errorf("%w: %s", models.ErrActivityNotFound, id)
	}
	return a, err
}

func (s *Store) GetAllActivities() ([]models.Activity, error) {
	return s.queryActivities(`SELECT ` + activityColumns + `
FROM activities WHERE deleted_at IS NULL ORDER BY position, created_at`)
}

func (s *Store) GetAllActivitiesIncludingDeleted() ([]models.Activity, error) {
	return s.queryActivities(`SELECT ` + activityColumns + `
FROM activities ORDER BY position, created_at`)
}

func (s *Store) UpdateActivity(a models.Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}
	res, err := s.db.Exec(`
UPDATE activities
SET subject_name = $1, field_name = $2, season = $3, activity_kind = $4,
    start_date = $5, duration_days = $6, end_date = $7, updated_at = now()
WHERE id = $8 AND deleted_at IS NULL`,
		a.SubjectName, a.FieldName, a.Season, string(a.Kind),
		a.StartDate, a.DurationDays, a.EndDate, string(a.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return expectOne(res, a.ID)
}

func (s *Store) DeleteActivity(id models.ActivityID) error {
	res, err := s.db.Exec("UPDATE activities SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL", string(id))
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return expectOne(res, id)
}

func (s *Store) RestoreActivity(id models.ActivityID) error {
	res, err := s.db.Exec("UPDATE activities SET deleted_at = NULL, updated_at = now() WHERE id = $1 AND deleted_at IS NOT NULL", string(id))
	if err != nil {
		return fmt.Errorf("failed to restore activity: %w", err)
	}
	return expectOne(res, id)
}

func (s *Store) SaveActivities(acts []models.Activity) error {
	for _, a := range acts {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE activities SET deleted_at = now() WHERE deleted_at IS NULL"); err != nil {
		return fmt.Errorf("failed to clear activities: %w", err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO activities (id, subject_name, field_name, season, activity_kind,
                        start_date, duration_days, end_date, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    subject_name = EXCLUDED.subject_name,
    field_name = EXCLUDED.field_name,
    season = EXCLUDED.season,
    activity_kind = EXCLUDED.activity_kind,
    start_date = EXCLUDED.start_date,
    duration_days = EXCLUDED.duration_days,
    end_date = EXCLUDED.end_date,
    position = EXCLUDED.position,
    deleted_at = NULL,
    updated_at = now()`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, a := range acts {
		if _, err := stmt.Exec(string(a.ID), a.SubjectName, a.FieldName, a.Season, string(a.Kind),
			a.StartDate, a.DurationDays, a.EndDate, i); err != nil {
			return fmt.Errorf("failed to save activity %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

func expectOne(res sql.Result, id models.ActivityID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrActivityNotFound, id)
	}
	return nil
}
