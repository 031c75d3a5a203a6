package db

import "database/sql"

// SchemaVersion is the version recorded in schema_version for fresh databases.
const SchemaVersion = 1

// SchemaSQL is the complete schema for the SQLite ledger backend.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests open
// databases through Open, which applies it, instead of hardcoding tables.
//
// Both tables carry a position column: the ledger is an ordered mapping and
// rendering follows insertion order for efforts and for their materials.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS efforts (
	position INTEGER NOT NULL,
	id TEXT PRIMARY KEY,
	system TEXT NOT NULL,
	installation TEXT NOT NULL,
	owner TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_efforts_position ON efforts(position);

CREATE TABLE IF NOT EXISTS effort_materials (
	effort_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	commodity TEXT NOT NULL,
	quantity INTEGER NOT NULL CHECK(quantity > 0),
	PRIMARY KEY (effort_id, commodity),
	FOREIGN KEY (effort_id) REFERENCES efforts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_effort_materials_position ON effort_materials(effort_id, position);

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// InitSchema creates the database schema if it does not exist yet.
func InitSchema(database *sql.DB) error {
	if _, err := database.Exec(SchemaSQL); err != nil {
		return err
	}
	_, err := database.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", SchemaVersion)
	return err
}

// GetSchemaSQL returns the authoritative schema SQL.
func GetSchemaSQL() string {
	return SchemaSQL
}
