package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/fieldplan/internal/models"
)

const activityColumns = `id, subject_name, field_name, season, activity_kind,
		       start_date, duration_days, end_date, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (models.Activity, error) {
	var a models.Activity
	var kind string
	var deletedAt sql.NullString

	err := row.Scan(
		&a.ID, &a.SubjectName, &a.FieldName, &a.Season, &kind,
		&a.StartDate, &a.DurationDays, &a.EndDate, &deletedAt,
	)
	if err != nil {
		return models.Activity{}, err
	}

	a.Kind = models.ActivityKind(kind)
	if deletedAt.Valid {
		a.DeletedAt = &deletedAt.String
	}
	return a, nil
}

func (s *Store) queryActivities(query string, args ...any) ([]models.Activity, error) {
	rows, err := s.db.Query(query, args...)
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

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (s *Store) AddActivity(a models.Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}

	ts := now()
	_, err := s.db.Exec(`
		INSERT INTO activities (id, subject_name, field_name, season, activity_kind,
		                        start_date, duration_days, end_date, position, deleted_at,
		                        created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?,
		        (SELECT COALESCE(MAX(position), -1) + 1 FROM activities), NULL, ?, ?)`,
		a.ID, a.SubjectName, a.FieldName, a.Season, string(a.Kind),
		a.StartDate, a.DurationDays, a.EndDate, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}
	return nil
}

func (s *Store) GetActivity(id models.ActivityID) (models.Activity, error) {
	row := s.db.QueryRow(`
		SELECT `+activityColumns+`
		FROM activities WHERE id = ? AND deleted_at IS NULL`, id)

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, fmt.Errorf("%w: %s", models.ErrActivityNotFound, id)
	}
	return a, err
}

func (s *Store) GetAllActivities() ([]models.Activity, error) {
	return s.queryActivities(`
		SELECT ` + activityColumns + `
		FROM activities WHERE deleted_at IS NULL
		ORDER BY position, rowid`)
}

func (s *Store) GetAllActivitiesIncludingDeleted() ([]models.Activity, error) {
	return s.queryActivities(`
		SELECT ` + activityColumns + `
		FROM activities
		ORDER BY position, rowid`)
}

func (s *Store) UpdateActivity(a models.Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE activities
		SET subject_name = ?, field_name = ?, season = ?, activity_kind = ?,
		    start_date = ?, duration_days = ?, end_date = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		a.SubjectName, a.FieldName, a.Season, string(a.Kind),
		a.StartDate, a.DurationDays, a.EndDate, now(), a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return expectOne(res, a.ID)
}

func (s *Store) DeleteActivity(id models.ActivityID) error {
	res, err := s.db.Exec(
		"UPDATE activities SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return expectOne(res, id)
}

func (s *Store) RestoreActivity(id models.ActivityID) error {
	res, err := s.db.Exec(
		"UPDATE activities SET deleted_at = NULL, updated_at = ? WHERE id = ? AND deleted_at IS NOT NULL",
		now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to restore activity: %w", err)
	}
	return expectOne(res, id)
}

// SaveActivities writes acts as the complete live collection in one transaction.
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

	ts := now()
	if _, err := tx.Exec("UPDATE activities SET deleted_at = ? WHERE deleted_at IS NULL", ts); err != nil {
		return fmt.Errorf("failed to clear activities: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO activities (id, subject_name, field_name, season, activity_kind,
		                        start_date, duration_days, end_date, position, deleted_at,
		                        created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    subject_name = excluded.subject_name,
		    field_name = excluded.field_name,
		    season = excluded.season,
		    activity_kind = excluded.activity_kind,
		    start_date = excluded.start_date,
		    duration_days = excluded.duration_days,
		    end_date = excluded.end_date,
		    position = excluded.position,
		    deleted_at = NULL,
		    updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, a := range acts {
		if _, err := stmt.Exec(
			a.ID, a.SubjectName, a.FieldName, a.Season, string(a.Kind),
			a.StartDate, a.DurationDays, a.EndDate, i, ts, ts,
		); err != nil {
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
