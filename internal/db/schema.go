package db

// SchemaSQL is the complete schema for fresh quill installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL() rather than hardcoding CREATE TABLE
// statements, so a repository referencing a missing column fails immediately
// with "no such column" at development time.
const SchemaSQL = `
-- Profiles (the writers holding contracts)
CREATE TABLE IF NOT EXISTS profiles (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	timezone TEXT NOT NULL DEFAULT 'UTC',
	declared_platform TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Contracts (ten-week discipline commitments)
CREATE TABLE IF NOT EXISTS contracts (
	id TEXT PRIMARY KEY,
	profile_id TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('active', 'completed', 'violated', 'abandoned')) DEFAULT 'active',
	total_weeks INTEGER NOT NULL DEFAULT 10,
	poems_submitted INTEGER NOT NULL DEFAULT 0,
	poems_missed INTEGER NOT NULL DEFAULT 0,
	monthly_releases INTEGER NOT NULL DEFAULT 0,
	monthly_releases_missed INTEGER NOT NULL DEFAULT 0,
	missed_weeks TEXT NOT NULL DEFAULT '[]',  -- JSON array of week numbers
	last_submission DATETIME,
	timezone TEXT NOT NULL DEFAULT 'UTC',
	archive_label TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (profile_id) REFERENCES profiles(id)
);

-- Constraint cycles (one rotating craft constraint per contract week)
CREATE TABLE IF NOT EXISTS constraint_cycles (
	id TEXT PRIMARY KEY,
	contract_id TEXT NOT NULL,
	week_number INTEGER NOT NULL,
	constraint_type TEXT NOT NULL CHECK(constraint_type IN ('concrete_imagery', 'no_metaphors', 'sustained_metaphor', 'second_person')),
	status TEXT NOT NULL CHECK(status IN ('pending', 'completed')) DEFAULT 'pending',
	completed_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (contract_id) REFERENCES contracts(id) ON DELETE CASCADE,
	UNIQUE(contract_id, week_number)
);

-- Compliance logs (one per contract week, written up front at contract start)
CREATE TABLE IF NOT EXISTS compliance_logs (
	id TEXT PRIMARY KEY,
	contract_id TEXT NOT NULL,
	week_number INTEGER NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'in_recovery', 'completed', 'missed')) DEFAULT 'pending',
	on_time INTEGER NOT NULL DEFAULT 0,
	revision_done INTEGER NOT NULL DEFAULT 0,
	reflection_done INTEGER NOT NULL DEFAULT 0,
	constraint_followed INTEGER NOT NULL DEFAULT 0,
	penalty_triggered INTEGER NOT NULL DEFAULT 0,
	deadline_at DATETIME NOT NULL,
	submitted_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (contract_id) REFERENCES contracts(id) ON DELETE CASCADE,
	UNIQUE(contract_id, week_number)
);

-- Poems (drafts stay reusable; one submitted poem per contract week)
CREATE TABLE IF NOT EXISTS poems (
	id TEXT PRIMARY KEY,
	profile_id TEXT NOT NULL,
	contract_id TEXT NOT NULL,
	week_number INTEGER NOT NULL,
	content TEXT NOT NULL,
	line_count INTEGER NOT NULL DEFAULT 0,
	constraint_type TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('draft', 'submitted', 'published')) DEFAULT 'draft',
	revision_count INTEGER NOT NULL DEFAULT 0,
	self_assessment TEXT,  -- JSON assessment answers
	violations TEXT,       -- JSON array of constraint violations
	archive_path TEXT,
	is_monthly_release INTEGER NOT NULL DEFAULT 0,
	platform TEXT,
	public_url TEXT,
	recording_path TEXT,
	published_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (profile_id) REFERENCES profiles(id),
	FOREIGN KEY (contract_id) REFERENCES contracts(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_poems_week_submitted
	ON poems(contract_id, week_number) WHERE status != 'draft';

-- Poem revisions (append-only version history)
CREATE TABLE IF NOT EXISTS poem_revisions (
	id TEXT PRIMARY KEY,
	poem_id TEXT NOT NULL,
	version_number INTEGER NOT NULL,
	content TEXT NOT NULL,
	changes_note TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (poem_id) REFERENCES poems(id) ON DELETE CASCADE,
	UNIQUE(poem_id, version_number)
);

-- Pattern reports (detected habits that must be acknowledged before submitting)
CREATE TABLE IF NOT EXISTS pattern_reports (
	id TEXT PRIMARY KEY,
	profile_id TEXT NOT NULL,
	pattern_type TEXT NOT NULL,
	summary TEXT,
	acknowledged INTEGER NOT NULL DEFAULT 0,
	acknowledged_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (profile_id) REFERENCES profiles(id)
);

-- Audit log (every state change, for the record)
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	actor TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL,
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_contracts_profile ON contracts(profile_id);
CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts(status);
CREATE INDEX IF NOT EXISTS idx_cycles_contract ON constraint_cycles(contract_id);
CREATE INDEX IF NOT EXISTS idx_compliance_contract ON compliance_logs(contract_id);
CREATE INDEX IF NOT EXISTS idx_compliance_status ON compliance_logs(status);
CREATE INDEX IF NOT EXISTS idx_poems_contract ON poems(contract_id);
CREATE INDEX IF NOT EXISTS idx_poems_profile ON poems(profile_id);
CREATE INDEX IF NOT EXISTS idx_poems_status ON poems(status);
CREATE INDEX IF NOT EXISTS idx_revisions_poem ON poem_revisions(poem_id);
CREATE INDEX IF NOT EXISTS idx_patterns_profile ON pattern_reports(profile_id, acknowledged);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	_, err = db.Exec(SchemaSQL)
	return err
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
