package store

import "database/sql"

// GetSyncState fetches the sync bookmark for a dialog, or (nil, nil) if the
// dialog has never been synced.
func (s *Store) GetSyncState(dialogID int64) (*SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st SyncState
	var oldest sql.NullInt64
	var initialDone int
	err := s.db.QueryRow(`
		SELECT dialog_id, last_message_id, oldest_message_id, initial_done, last_sync_at
		FROM sync_state WHERE dialog_id = ?`, dialogID).
		Scan(&st.DialogID, &st.LastMessageID, &oldest, &initialDone, &st.LastSyncAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("GetSyncState", KindIO, err)
	}
	if oldest.Valid {
		st.OldestMessageID = oldest.Int64
		st.HasOldest = true
	}
	st.InitialDone = initialDone != 0
	return &st, nil
}

// UpsertSyncState inserts or fully replaces a dialog's sync bookmark.
func (s *Store) UpsertSyncState(st SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var oldest any
	if st.HasOldest {
		oldest = st.OldestMessageID
	}

	_, err := s.db.Exec(`
		INSERT INTO sync_state (dialog_id, last_message_id, oldest_message_id, initial_done, last_sync_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(dialog_id) DO UPDATE SET
			last_message_id = excluded.last_message_id,
			oldest_message_id = excluded.oldest_message_id,
			initial_done = excluded.initial_done,
			last_sync_at = excluded.last_sync_at`,
		st.DialogID, st.LastMessageID, oldest, boolToInt(st.InitialDone), st.LastSyncAt)
	return wrapErr("UpsertSyncState", KindIO, err)
}

// UpdateLastMessageID advances the high-water mark recorded for a dialog
// without disturbing its oldest_message_id or initial_done fields.
func (s *Store) UpdateLastMessageID(dialogID, lastMessageID int64, lastSyncAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sync_state (dialog_id, last_message_id, last_sync_at)
		VALUES (?, ?, ?)
		ON CONFLICT(dialog_id) DO UPDATE SET
			last_message_id = excluded.last_message_id,
			last_sync_at = excluded.last_sync_at`,
		dialogID, lastMessageID, lastSyncAt)
	return wrapErr("UpdateLastMessageID", KindIO, err)
}

// UpdateOldestMessageID records how far back an initial backfill has reached.
func (s *Store) UpdateOldestMessageID(dialogID, oldestMessageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sync_state (dialog_id, oldest_message_id)
		VALUES (?, ?)
		ON CONFLICT(dialog_id) DO UPDATE SET
			oldest_message_id = excluded.oldest_message_id`,
		dialogID, oldestMessageID)
	return wrapErr("UpdateOldestMessageID", KindIO, err)
}

// MarkInitialDone flags a dialog's initial backfill as complete.
func (s *Store) MarkInitialDone(dialogID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sync_state (dialog_id, initial_done)
		VALUES (?, 1)
		ON CONFLICT(dialog_id) DO UPDATE SET initial_done = 1`, dialogID)
	return wrapErr("MarkInitialDone", KindIO, err)
}
