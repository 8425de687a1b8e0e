package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/db"
	"github.com/alexanderramin/laststart/internal/domain"
)

// SQLiteUserProfileRepo implements UserProfileRepo using a SQLite database.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

// NewSQLiteUserProfileRepo creates a new SQLiteUserProfileRepo.
func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

// Get loads the default profile. A fresh database has none; callers seed it.
func (r *SQLiteUserProfileRepo) Get(ctx context.Context) (*domain.UserProfile, error) {
	query := `SELECT id, work_days, work_start_min, work_end_min, bin_minutes, timezone
		FROM user_profile WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, domain.DefaultProfileID)

	var p domain.UserProfile
	var workDays string
	err := row.Scan(&p.ID, &workDays, &p.WorkStartMin, &p.WorkEndMin, &p.BinMinutes, &p.Timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user profile: %w", err)
	}

	p.WorkDays, err = calendar.ParseWeekdays(strings.Split(workDays, ","))
	if err != nil {
		return nil, fmt.Errorf("parsing user profile work days: %w", err)
	}
	return &p, nil
}

func (r *SQLiteUserProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	id := p.ID
	if id == "" {
		id = domain.DefaultProfileID
	}
	query := `INSERT INTO user_profile (id, work_days, work_start_min, work_end_min, bin_minutes, timezone, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			work_days = excluded.work_days,
			work_start_min = excluded.work_start_min,
			work_end_min = excluded.work_end_min,
			bin_minutes = excluded.bin_minutes,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		id,
		calendar.FormatWeekdays(p.WorkDays),
		p.WorkStartMin,
		p.WorkEndMin,
		p.BinMinutes,
		p.Timezone,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting user profile: %w", err)
	}
	return nil
}
