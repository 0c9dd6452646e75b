package activitystore

const Schema = `
CREATE TABLE IF NOT EXISTS consultant (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	sponsor_name TEXT NOT NULL DEFAULT '',
	team_manager TEXT NOT NULL DEFAULT '',
	consultant_type TEXT NOT NULL DEFAULT '',
	start_date INTEGER NOT NULL DEFAULT 0
);

-- money volumes are stored as exact decimal strings, never floats
CREATE TABLE IF NOT EXISTS activity_snapshot (
	consultant_id TEXT NOT NULL REFERENCES consultant(id),
	observed_at INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT '',
	current_title TEXT NOT NULL DEFAULT '',
	pay_title TEXT NOT NULL DEFAULT '',
	career_title TEXT NOT NULL DEFAULT '',
	rv TEXT NOT NULL DEFAULT '0.00',
	qv TEXT NOT NULL DEFAULT '0.00',
	cv TEXT NOT NULL DEFAULT '0.00',
	tqv TEXT NOT NULL DEFAULT '0.00',
	dqv TEXT NOT NULL DEFAULT '0.00',
	active_legs INTEGER NOT NULL DEFAULT 0,
	new_recruits INTEGER NOT NULL DEFAULT 0,
	style_vips INTEGER NOT NULL DEFAULT 0,
	downline_count INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (consultant_id, observed_at)
);

CREATE INDEX IF NOT EXISTS idx_activity_snapshot_observed_at
	ON activity_snapshot (observed_at);
`
