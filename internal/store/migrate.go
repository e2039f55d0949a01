package store

import (
	"database/sql"
	"fmt"
)

// currentSchemaVersion is the highest version any migration step targets.
const currentSchemaVersion = 3

// runMigrations brings a freshly opened database up to currentSchemaVersion.
// Every step is idempotent: running it twice against an already-migrated
// database is a no-op.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return wrapErr("runMigrations", KindMigration, fmt.Errorf("base schema: %w", err))
	}
	if err := migrateToTrigramFTS(db); err != nil {
		return err
	}
	if err := migrateAddDMDialogType(db); err != nil {
		return err
	}
	return nil
}

func schemaVersion(db *sql.DB) int {
	var value string
	err := db.QueryRow(`SELECT value FROM app_meta WHERE key = 'schema_version'`).Scan(&value)
	if err != nil {
		return 1
	}
	var v int
	if _, scanErr := fmt.Sscanf(value, "%d", &v); scanErr != nil {
		return 1
	}
	return v
}

func setSchemaVersion(db *sql.DB, version int) error {
	_, err := db.Exec(
		`INSERT OR REPLACE INTO app_meta (key, value) VALUES ('schema_version', ?)`,
		fmt.Sprintf("%d", version),
	)
	return err
}

// migrateToTrigramFTS adds the FTS5 trigram shadow table over messages and
// drops any legacy term/posting tables left by an earlier hand-rolled index.
func migrateToTrigramFTS(db *sql.DB) error {
	if schemaVersion(db) >= 2 {
		return nil
	}

	stmts := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
			text_plain,
			content='messages',
			tokenize='trigram case_sensitive 0'
		)`,
		`INSERT INTO messages_fts(messages_fts) VALUES('rebuild')`,
		`DROP TABLE IF EXISTS postings`,
		`DROP TABLE IF EXISTS index_terms`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return wrapErr("migrateToTrigramFTS", KindMigration, err)
		}
	}
	if err := setSchemaVersion(db, 2); err != nil {
		return wrapErr("migrateToTrigramFTS", KindMigration, err)
	}
	return nil
}

// migrateAddDMDialogType widens the dialog_type CHECK constraint to admit
// 'dm'. SQLite has no ALTER CONSTRAINT, so the table is copy-rebuilt.
func migrateAddDMDialogType(db *sql.DB) error {
	if schemaVersion(db) >= 3 {
		return nil
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = OFF`); err != nil {
		return wrapErr("migrateAddDMDialogType", KindMigration, err)
	}

	stmts := []string{
		`DROP TABLE IF EXISTS dialogs_new`,
		dialogsRebuildSchema,
		`INSERT INTO dialogs_new (dialog_id, title, dialog_type, username, access_hash, is_excluded, created_at)
			SELECT dialog_id, title, dialog_type, username, access_hash, is_excluded, created_at FROM dialogs`,
		`DROP TABLE dialogs`,
		`ALTER TABLE dialogs_new RENAME TO dialogs`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return wrapErr("migrateAddDMDialogType", KindMigration, err)
		}
	}

	if err := setSchemaVersion(db, 3); err != nil {
		return wrapErr("migrateAddDMDialogType", KindMigration, err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return wrapErr("migrateAddDMDialogType", KindMigration, err)
	}
	return nil
}
