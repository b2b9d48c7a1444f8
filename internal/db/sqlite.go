// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/timeblock/internal/dateutil"
	"github.com/javiermolinar/timeblock/internal/scheduler"
	"github.com/javiermolinar/timeblock/internal/task"
)

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ task.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateRun records a planning run. A missing ID or CreatedAt is filled in.
func (s *SQLite) CreateRun(ctx context.Context, r *task.Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	query := `INSERT INTO runs (id, date, mode, source, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.Date.Format(dateutil.DateLayout),
		r.Mode,
		r.Source,
		r.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLite) GetRun(ctx context.Context, id string) (*task.Run, error) {
	query := `SELECT id, date, mode, source, created_at FROM runs WHERE id = ?`

	var (
		r         task.Run
		date      string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&r.ID, &date, &r.Mode, &r.Source, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", task.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	if r.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("parsing run date: %w", err)
	}
	if r.CreatedAt, err = parseDate(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &r, nil
}

// CreateBlocks adds the blocks of a run in a single transaction.
// Returns task.ErrBlockOverlap if a task block overlaps another task block,
// either among the new blocks or already stored for the same day.
func (s *SQLite) CreateBlocks(ctx context.Context, runID string, blocks []*task.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	if err := checkBatchOverlap(blocks); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return fmt.Errorf("checking run: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", task.ErrRunNotFound, runID)
	}

	for _, b := range blocks {
		if !b.IsTask() {
			continue
		}
		if err := checkOverlapTx(ctx, tx, b.Date, b.Start, b.End); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO blocks (
			run_id, description, kind, date, start_time, end_time, tag, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range blocks {
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now()
		}
		result, err := stmt.ExecContext(ctx,
			runID,
			b.Description,
			b.Kind,
			b.Date.Format(dateutil.DateLayout),
			b.Start.String(),
			b.End.String(),
			b.Tag,
			b.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting block %q: %w", b.Description, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		b.ID = id
		b.RunID = runID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListBlocksByDate returns all blocks stored for the day, ordered by start.
func (s *SQLite) ListBlocksByDate(ctx context.Context, date time.Time) ([]*task.Block, error) {
	query := `
		SELECT id, run_id, description, kind, date, start_time, end_time, tag, created_at
		FROM blocks
		WHERE date = ?
		ORDER BY start_time, id
	`

	rows, err := s.db.QueryContext(ctx, query, date.Format(dateutil.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []*task.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}
	return blocks, nil
}

// DeleteBlocksByTag removes the day's blocks carrying tag.
func (s *SQLite) DeleteBlocksByTag(ctx context.Context, date time.Time, tag string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM blocks WHERE date = ? AND tag = ?`,
		date.Format(dateutil.DateLayout), tag,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting blocks: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(row rowScanner) (*task.Block, error) {
	var (
		b         task.Block
		kind      string
		date      string
		start     string
		end       string
		createdAt string
	)
	if err := row.Scan(&b.ID, &b.RunID, &b.Description, &kind, &date, &start, &end, &b.Tag, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning block: %w", err)
	}

	var err error
	if b.Kind, err = task.ParseKind(kind); err != nil {
		return nil, fmt.Errorf("block %d: %w", b.ID, err)
	}
	if b.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("parsing block date: %w", err)
	}
	if b.Start, err = scheduler.ParseClock(start); err != nil {
		return nil, fmt.Errorf("parsing block start: %w", err)
	}
	if b.End, err = scheduler.ParseClock(end); err != nil {
		return nil, fmt.Errorf("parsing block end: %w", err)
	}
	if b.CreatedAt, err = parseDate(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &b, nil
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values are parsed in the local timezone to match time.Now().
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateutil.DateLayout, s, time.Local); err == nil {
		return t, nil
	}

	// DATE columns can come back as "2006-01-02T00:00:00Z"; keep them local midnight.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation(dateutil.DateLayout, s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

// checkOverlapTx checks the new range against stored task blocks of the day.
// Two time ranges overlap if: start1 < end2 AND start2 < end1
func checkOverlapTx(ctx context.Context, tx *sql.Tx, date time.Time, start, end scheduler.Clock) error {
	query := `
		SELECT id, start_time, end_time, description
		FROM blocks
		WHERE date = ?
		  AND kind = ?
		  AND start_time < ?
		  AND end_time > ?
		LIMIT 1
	`

	var (
		id          int64
		existStart  string
		existEnd    string
		description string
	)
	err := tx.QueryRowContext(ctx, query,
		date.Format(dateutil.DateLayout),
		task.KindTask,
		end.String(),
		start.String(),
	).Scan(&id, &existStart, &existEnd, &description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking overlap: %w", err)
	}

	return fmt.Errorf("%w: conflicts with #%d %q (%s-%s)",
		task.ErrBlockOverlap, id, description, existStart, existEnd)
}

// checkBatchOverlap checks for overlaps among the new task blocks.
func checkBatchOverlap(blocks []*task.Block) error {
	for i := 0; i < len(blocks); i++ {
		if !blocks[i].IsTask() {
			continue
		}
		for j := i + 1; j < len(blocks); j++ {
			if !blocks[j].IsTask() {
				continue
			}
			b1, b2 := blocks[i], blocks[j]
			if b1.OverlapsWith(b2) {
				return fmt.Errorf("%w: %q (%s-%s) conflicts with %q (%s-%s)",
					task.ErrBlockOverlap,
					b1.Description, b1.Start, b1.End,
					b2.Description, b2.Start, b2.End,
				)
			}
		}
	}
	return nil
}
