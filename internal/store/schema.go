package store

// baseSchema creates the tables that have existed since schema_version 1.
// Idempotent: every statement is IF NOT EXISTS.
const baseSchema = `
CREATE TABLE IF NOT EXISTS dialogs (
    dialog_id     INTEGER PRIMARY KEY,
    title         TEXT NOT NULL,
    dialog_type   TEXT NOT NULL CHECK (dialog_type IN ('group', 'supergroup', 'channel')),
    username      TEXT,
    access_hash   INTEGER,
    is_excluded   INTEGER NOT NULL DEFAULT 0,
    created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS messages (
    message_id    INTEGER NOT NULL,
    dialog_id     INTEGER NOT NULL,
    timestamp     INTEGER NOT NULL,
    text_plain    TEXT NOT NULL,
    text_stripped TEXT NOT NULL,
    link          TEXT,
    PRIMARY KEY (dialog_id, message_id),
    FOREIGN KEY (dialog_id) REFERENCES dialogs(dialog_id)
);

CREATE INDEX IF NOT EXISTS idx_messages_timestamp
    ON messages (timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_messages_dialog_timestamp
    ON messages (dialog_id, timestamp DESC);

CREATE TABLE IF NOT EXISTS sync_state (
    dialog_id         INTEGER PRIMARY KEY,
    last_message_id   INTEGER NOT NULL DEFAULT 0,
    oldest_message_id INTEGER,
    initial_done      INTEGER NOT NULL DEFAULT 0,
    last_sync_at      TEXT,
    FOREIGN KEY (dialog_id) REFERENCES dialogs(dialog_id)
);

CREATE TABLE IF NOT EXISTS app_meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// dialogsRebuildSchema is the chats table shape used by the step-3
// copy-rebuild migration (identical columns, fresh name).
const dialogsRebuildSchema = `
CREATE TABLE dialogs_new (
    dialog_id     INTEGER PRIMARY KEY,
    title         TEXT NOT NULL,
    dialog_type   TEXT NOT NULL CHECK (dialog_type IN ('group', 'supergroup', 'channel', 'dm')),
    username      TEXT,
    access_hash   INTEGER,
    is_excluded   INTEGER NOT NULL DEFAULT 0,
    created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);
`
