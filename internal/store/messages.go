package store

import (
	"database/sql"
	"fmt"
)

// InsertMessagesBatch inserts every row inside a single transaction,
// silently ignoring rows whose (dialog_id, message_id) already exist, and
// adds a matching messages_fts row for every newly written message.
// Re-running the same batch is therefore idempotent.
func (s *Store) InsertMessagesBatch(messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return wrapErr("InsertMessagesBatch", KindIO, err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO messages (message_id, dialog_id, timestamp, text_plain, text_stripped, link)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return wrapErr("InsertMessagesBatch", KindIO, err)
	}
	defer stmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO messages_fts (rowid, text_plain) VALUES (?, ?)`)
	if err != nil {
		return wrapErr("InsertMessagesBatch", KindIO, err)
	}
	defer ftsStmt.Close()

	for _, m := range messages {
		res, err := stmt.Exec(m.MessageID, m.DialogID, m.Timestamp, m.TextPlain, m.TextStripped,
			nullableString(m.Link))
		if err != nil {
			return wrapErr("InsertMessagesBatch", KindIO, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			rowid, err := res.LastInsertId()
			if err != nil {
				return wrapErr("InsertMessagesBatch", KindIO, err)
			}
			if _, err := ftsStmt.Exec(rowid, m.TextPlain); err != nil {
				return wrapErr("InsertMessagesBatch", KindIO, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("InsertMessagesBatch", KindIO, err)
	}
	return nil
}

// GetMessage fetches a single message by composite key, or (nil, nil) if absent.
func (s *Store) GetMessage(dialogID, messageID int64) (*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var m Message
	var link sql.NullString
	err := s.db.QueryRow(`
		SELECT message_id, dialog_id, timestamp, text_plain, text_stripped, link
		FROM messages WHERE dialog_id = ? AND message_id = ?`, dialogID, messageID).
		Scan(&m.MessageID, &m.DialogID, &m.Timestamp, &m.TextPlain, &m.TextStripped, &link)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("GetMessage", KindIO, err)
	}
	if link.Valid {
		m.Link = link.String
	}
	return &m, nil
}

// MessageCount returns the total number of stored messages.
func (s *Store) MessageCount() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&n)
	return n, wrapErr("MessageCount", KindIO, err)
}

// FTSRowCount returns the number of rows visible through the trigram shadow
// table; used by tests to assert it tracks the base table 1:1.
func (s *Store) FTSRowCount() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM messages_fts`).Scan(&n)
	return n, wrapErr("FTSRowCount", KindIO, err)
}

func rowsToMessagesWithDialog(rows *sql.Rows) ([]MessageWithDialog, error) {
	var out []MessageWithDialog
	for rows.Next() {
		var m MessageWithDialog
		var link sql.NullString
		if err := rows.Scan(&m.MessageID, &m.DialogID, &m.Timestamp, &m.TextPlain, &link, &m.DialogTitle); err != nil {
			return nil, err
		}
		if link.Valid {
			m.Link = link.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func cursorWhereGlobal(cursor *Cursor, argc *int, args *[]any) string {
	if cursor == nil {
		return ""
	}
	*args = append(*args, cursor.Timestamp, cursor.Timestamp, cursor.DialogID,
		cursor.Timestamp, cursor.DialogID, cursor.MessageID)
	*argc += 6
	return `AND (m.timestamp < ?
		OR (m.timestamp = ? AND m.dialog_id > ?)
		OR (m.timestamp = ? AND m.dialog_id = ? AND m.message_id > ?))`
}

func cursorWhereScoped(cursor *Cursor, args *[]any) string {
	if cursor == nil {
		return ""
	}
	*args = append(*args, cursor.Timestamp, cursor.Timestamp, cursor.MessageID)
	return `AND (m.timestamp < ?
		OR (m.timestamp = ? AND m.message_id > ?))`
}

// SearchMessagesFTS runs an already-built FTS5 MATCH expression against
// the trigram index, globally across all non-excluded dialogs.
func (s *Store) SearchMessagesFTS(ftsQuery string, cursor *Cursor, limit int) ([]MessageWithDialog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var args []any
	argc := 0
	clause := cursorWhereGlobal(cursor, &argc, &args)

	query := fmt.Sprintf(`
		SELECT m.message_id, m.dialog_id, m.timestamp, m.text_plain, m.link, c.title
		FROM messages_fts
		JOIN messages m ON m.rowid = messages_fts.rowid
		JOIN dialogs c ON m.dialog_id = c.dialog_id
		WHERE messages_fts MATCH ? AND c.is_excluded = 0
		%s
		ORDER BY m.timestamp DESC, m.dialog_id ASC, m.message_id ASC
		LIMIT ?`, clause)

	queryArgs := append([]any{ftsQuery}, args...)
	queryArgs = append(queryArgs, limit)

	rows, err := s.db.Query(query, queryArgs...)
	if err != nil {
		return nil, wrapErr("SearchMessagesFTS", KindIO, err)
	}
	defer rows.Close()
	out, err := rowsToMessagesWithDialog(rows)
	return out, wrapErr("SearchMessagesFTS", KindIO, err)
}

// SearchMessagesFTSInDialog is SearchMessagesFTS scoped to one dialog.
func (s *Store) SearchMessagesFTSInDialog(ftsQuery string, dialogID int64, cursor *Cursor, limit int) ([]MessageWithDialog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var args []any
	clause := cursorWhereScoped(cursor, &args)

	query := fmt.Sprintf(`
		SELECT m.message_id, m.dialog_id, m.timestamp, m.text_plain, m.link, c.title
		FROM messages_fts
		JOIN messages m ON m.rowid = messages_fts.rowid
		JOIN dialogs c ON m.dialog_id = c.dialog_id
		WHERE messages_fts MATCH ? AND m.dialog_id = ? AND c.is_excluded = 0
		%s
		ORDER BY m.timestamp DESC, m.message_id ASC
		LIMIT ?`, clause)

	queryArgs := append([]any{ftsQuery, dialogID}, args...)
	queryArgs = append(queryArgs, limit)

	rows, err := s.db.Query(query, queryArgs...)
	if err != nil {
		return nil, wrapErr("SearchMessagesFTSInDialog", KindIO, err)
	}
	defer rows.Close()
	out, err := rowsToMessagesWithDialog(rows)
	return out, wrapErr("SearchMessagesFTSInDialog", KindIO, err)
}

// SearchMessagesLike is the substring-scan fallback for terms shorter than
// the trigram tokenizer's 3-character minimum.
func (s *Store) SearchMessagesLike(terms []string, cursor *Cursor, limit int) ([]MessageWithDialog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(terms) == 0 {
		return nil, nil
	}

	var args []any
	likeClauses := ""
	for _, t := range terms {
		likeClauses += "AND m.text_plain LIKE ? ESCAPE '\\' "
		args = append(args, likePattern(t))
	}

	argc := 0
	var cursorArgs []any
	clause := cursorWhereGlobal(cursor, &argc, &cursorArgs)
	args = append(args, cursorArgs...)

	query := fmt.Sprintf(`
		SELECT m.message_id, m.dialog_id, m.timestamp, m.text_plain, m.link, c.title
		FROM messages m
		JOIN dialogs c ON m.dialog_id = c.dialog_id
		WHERE c.is_excluded = 0
		%s
		%s
		ORDER BY m.timestamp DESC, m.dialog_id ASC, m.message_id ASC
		LIMIT ?`, likeClauses, clause)

	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapErr("SearchMessagesLike", KindIO, err)
	}
	defer rows.Close()
	out, err := rowsToMessagesWithDialog(rows)
	return out, wrapErr("SearchMessagesLike", KindIO, err)
}

// SearchMessagesLikeInDialog is SearchMessagesLike scoped to one dialog.
func (s *Store) SearchMessagesLikeInDialog(terms []string, dialogID int64, cursor *Cursor, limit int) ([]MessageWithDialog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(terms) == 0 {
		return nil, nil
	}

	args := []any{dialogID}
	likeClauses := ""
	for _, t := range terms {
		likeClauses += "AND m.text_plain LIKE ? ESCAPE '\\' "
		args = append(args, likePattern(t))
	}

	var cursorArgs []any
	clause := cursorWhereScoped(cursor, &cursorArgs)
	args = append(args, cursorArgs...)

	query := fmt.Sprintf(`
		SELECT m.message_id, m.dialog_id, m.timestamp, m.text_plain, m.link, c.title
		FROM messages m
		JOIN dialogs c ON m.dialog_id = c.dialog_id
		WHERE m.dialog_id = ? AND c.is_excluded = 0
		%s
		%s
		ORDER BY m.timestamp DESC, m.message_id ASC
		LIMIT ?`, likeClauses, clause)

	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapErr("SearchMessagesLikeInDialog", KindIO, err)
	}
	defer rows.Close()
	out, err := rowsToMessagesWithDialog(rows)
	return out, wrapErr("SearchMessagesLikeInDialog", KindIO, err)
}

func likePattern(term string) string {
	escaped := ""
	for _, r := range term {
		switch r {
		case '\\', '%', '_':
			escaped += "\\" + string(r)
		default:
			escaped += string(r)
		}
	}
	return "%" + escaped + "%"
}
