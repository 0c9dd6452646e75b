// Package activitystore persists team activity snapshots so that
// volume and rank movement can be tracked across reporting periods.
package activitystore

import (
	"context"
	"database/sql"
	"time"

	"jamberry-workstation/lib/currency"
	"jamberry-workstation/lib/scrapers/workstation"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type PushRequest struct {
	Time time.Time
	Rows []workstation.TeamActivityRow
}

// Push records one observation of the whole downline. Re-pushing the
// same consultant and observation time overwrites the earlier row.
func (s Store) Push(ctx context.Context, req PushRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	observedAt := req.Time.Unix()
	for _, row := range req.Rows {
		c := row.Consultant
		_, err = tx.ExecContext(ctx, `
			INSERT INTO consultant (
				id, first_name, last_name, email,
				sponsor_name, team_manager, consultant_type, start_date
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				first_name = excluded.first_name,
				last_name = excluded.last_name,
				email = excluded.email,
				sponsor_name = excluded.sponsor_name,
				team_manager = excluded.team_manager,
				consultant_type = excluded.consultant_type,
				start_date = excluded.start_date
		`,
			c.Id, c.FirstName, c.LastName, c.Email,
			c.SponsorName, c.TeamManager, c.Type, c.StartDate.Unix(),
		)
		if err != nil {
			return err
		}

		a := row.Activity
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO activity_snapshot (
				consultant_id, observed_at, status,
				current_title, pay_title, career_title,
				rv, qv, cv, tqv, dqv,
				active_legs, new_recruits, style_vips, downline_count
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			c.Id, observedAt, a.Status,
			a.CurrentTitle.Name, a.PayTitle.Name, a.CareerTitle.Name,
			currency.Format(a.RV), currency.Format(a.QV), currency.Format(a.CV),
			currency.Format(a.TQV), currency.Format(a.DQV),
			a.ActiveLegs, a.NewRecruits, a.StyleVIPs, a.DownlineCount,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

type Snapshot struct {
	ObservedAt    time.Time
	Status        string
	CurrentTitle  string
	PayTitle      string
	CareerTitle   string
	RV, QV, CV    string
	TQV, DQV      string
	ActiveLegs    int
	NewRecruits   int
	StyleVIPs     int
	DownlineCount int
}

// Pull returns every snapshot recorded for one consultant, oldest
// first.
func (s Store) Pull(ctx context.Context, consultantId string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			observed_at, status,
			current_title, pay_title, career_title,
			rv, qv, cv, tqv, dqv,
			active_legs, new_recruits, style_vips, downline_count
		FROM activity_snapshot
		WHERE consultant_id = ?
		ORDER BY observed_at ASC
	`, consultantId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var observedAt int64
		err = rows.Scan(
			&observedAt, &snap.Status,
			&snap.CurrentTitle, &snap.PayTitle, &snap.CareerTitle,
			&snap.RV, &snap.QV, &snap.CV, &snap.TQV, &snap.DQV,
			&snap.ActiveLegs, &snap.NewRecruits, &snap.StyleVIPs, &snap.DownlineCount,
		)
		if err != nil {
			return nil, err
		}
		snap.ObservedAt = time.Unix(observedAt, 0)
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}
