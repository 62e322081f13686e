package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// Journal is an optional insert-only sqlite trail of processed intake
// events. It replaces ad hoc print diagnostics with something queryable and
// never influences the user-facing reply.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS intake_events (
	id          TEXT PRIMARY KEY,
	received_at TEXT NOT NULL,
	path        TEXT NOT NULL,
	provenance  TEXT NOT NULL DEFAULT '',
	reply_kind  TEXT NOT NULL,
	persisted   INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
);`

// Entry records the outcome of one inbound event.
type Entry struct {
	Path       string // "media" | "text"
	Provenance constants.Provenance
	ReplyKind  string // "success" | "instructional" | "error"
	Persisted  bool
	Error      string
}

func Open(path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db, logger: logger}, nil
}

// Record inserts one entry. Failures are logged and swallowed: the journal
// must never affect request handling.
func (j *Journal) Record(ctx context.Context, e Entry) {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO intake_events (id, received_at, path, provenance, reply_kind, persisted, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		time.Now().UTC().Format(time.RFC3339),
		e.Path,
		string(e.Provenance),
		e.ReplyKind,
		boolToInt(e.Persisted),
		e.Error,
	)
	if err != nil {
		j.logger.Warn("archive.record_failed", "error", err)
	}
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
