package store

// File size queries
const (
	queryGetFileSize = `
		SELECT path, size, created_at, updated_at
		FROM file_sizes WHERE path = ?`

	queryUpsertFileSize = `
		INSERT INTO file_sizes (path, size, updated_at)
		VALUES (?, ?, now())
		ON CONFLICT (path) DO UPDATE SET
			size = EXCLUDED.size,
			updated_at = now()`

	queryDeleteFileSize = `DELETE FROM file_sizes WHERE path = ?`
)
