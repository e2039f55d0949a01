package store

import "database/sql"

// UpsertDialog inserts a dialog or updates its mutable fields on conflict.
// is_excluded is deliberately left untouched by the update clause so a
// re-fetched dialog list never un-excludes a dialog the user hid.
func (s *Store) UpsertDialog(d Dialog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO dialogs (dialog_id, title, dialog_type, username, access_hash, is_excluded)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(dialog_id) DO UPDATE SET
			title = excluded.title,
			dialog_type = excluded.dialog_type,
			username = excluded.username,
			access_hash = excluded.access_hash`,
		d.DialogID, d.Title, string(d.Kind), nullableString(d.Username), nullableHash(d),
		boolToInt(d.IsExcluded),
	)
	return wrapErr("UpsertDialog", KindConstraint, err)
}

// GetDialog fetches a single dialog by id, or (nil, nil) if absent.
func (s *Store) GetDialog(dialogID int64) (*Dialog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT dialog_id, title, dialog_type, username, access_hash, is_excluded
		FROM dialogs WHERE dialog_id = ?`, dialogID)
	d, err := scanDialog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("GetDialog", KindIO, err)
	}
	return d, nil
}

// GetActiveDialogs returns every non-excluded dialog, ordered by title.
func (s *Store) GetActiveDialogs() ([]Dialog, error) {
	return s.queryDialogs(`
		SELECT dialog_id, title, dialog_type, username, access_hash, is_excluded
		FROM dialogs WHERE is_excluded = 0 ORDER BY title`)
}

// GetAllDialogs returns every dialog regardless of excluded state.
func (s *Store) GetAllDialogs() ([]Dialog, error) {
	return s.queryDialogs(`
		SELECT dialog_id, title, dialog_type, username, access_hash, is_excluded
		FROM dialogs ORDER BY title`)
}

func (s *Store) queryDialogs(query string) ([]Dialog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, wrapErr("queryDialogs", KindIO, err)
	}
	defer rows.Close()

	var out []Dialog
	for rows.Next() {
		d, err := scanDialog(rows)
		if err != nil {
			return nil, wrapErr("queryDialogs", KindIO, err)
		}
		out = append(out, *d)
	}
	return out, wrapErr("queryDialogs", KindIO, rows.Err())
}

// SetDialogExcluded flips the excluded flag for a single dialog.
func (s *Store) SetDialogExcluded(dialogID int64, excluded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE dialogs SET is_excluded = ? WHERE dialog_id = ?`,
		boolToInt(excluded), dialogID)
	return wrapErr("SetDialogExcluded", KindIO, err)
}

// DialogCount returns the total number of dialogs, excluded or not.
func (s *Store) DialogCount() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM dialogs`).Scan(&n)
	return n, wrapErr("DialogCount", KindIO, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDialog(row scanner) (*Dialog, error) {
	var d Dialog
	var kind string
	var username sql.NullString
	var accessHash sql.NullInt64
	var excluded int
	if err := row.Scan(&d.DialogID, &d.Title, &kind, &username, &accessHash, &excluded); err != nil {
		return nil, err
	}
	d.Kind = DialogKind(kind)
	d.IsExcluded = excluded != 0
	if username.Valid {
		d.Username = username.String
	}
	if accessHash.Valid {
		d.AccessHash = accessHash.Int64
		d.HasHash = true
	}
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableHash(d Dialog) any {
	if !d.HasHash {
		return nil
	}
	return d.AccessHash
}
