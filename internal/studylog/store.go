package studylog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Repository is the subset of Store used by the presentation layers.
type Repository interface {
	Insert(ctx context.Context, entry NewEntry) (int64, error)
	ListAll(ctx context.Context) ([]Entry, error)
	ClearAll(ctx context.Context) error
}

type entryRecord struct {
	ID        int64         `db:"id"`
	Date      string        `db:"date"`
	Subject   string        `db:"subject"`
	Topic     string        `db:"topic"`
	Score     sql.NullInt64 `db:"score"`
	StudyTime int           `db:"study_time"`
}

func (r entryRecord) toEntry() (Entry, error) {
	date, err := civil.ParseDate(r.Date)
	if err != nil {
		return Entry{}, fmt.Errorf("civil.ParseDate(%q) for entry %d > %w", r.Date, r.ID, err)
	}
	if !r.Score.Valid {
		return Entry{}, fmt.Errorf("entry %d has no score", r.ID)
	}
	return Entry{
		ID:        r.ID,
		Date:      date,
		Subject:   r.Subject,
		Topic:     r.Topic,
		Score:     int(r.Score.Int64),
		StudyTime: r.StudyTime,
	}, nil
}

// Store persists entries in the learning_log table.
// It is uninitialized until Initialize succeeds.
type Store struct {
	db      *sqlx.DB
	logger  *zap.Logger
	now     func() time.Time
	mu      sync.RWMutex
	ready   bool
	dialect dialect
}

// NewStore wraps an open database. The SQL dialect follows db.DriverName().
func NewStore(db *sqlx.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Initialize creates or upgrades the learning_log table. Calling it again is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	d, err := dialectFor(s.db.DriverName())
	if err != nil {
		return &InitError{Err: err}
	}
	if err := s.db.PingContext(ctx); err != nil {
		return &InitError{Err: fmt.Errorf("db.PingContext() > %w", err)}
	}
	if err := migrate(ctx, s.db, d, s.logger, s.now); err != nil {
		return &InitError{Err: err}
	}

	s.dialect = d
	s.ready = true
	s.logger.Debug("study log store is ready", zap.String("dialect", d.name))
	return nil
}

// Insert appends one entry and returns the id assigned by the database.
// The entry is stored as given; callers validate it beforehand.
func (s *Store) Insert(ctx context.Context, entry NewEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return 0, ErrNotInitialized
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO learning_log (date, subject, topic, score, study_time) VALUES (?, ?, ?, ?, ?)",
		entry.Date.String(), entry.Subject, entry.Topic, entry.Score, entry.StudyTime)
	if err != nil {
		return 0, &WriteError{Op: "insert", Err: fmt.Errorf("db.ExecContext(insert learning_log) > %w", err)}
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, &WriteError{Op: "insert", Err: fmt.Errorf("result.LastInsertId() > %w", err)}
	}
	return id, nil
}

// ListAll returns every stored entry in insertion order.
// Rows left by older versions without a usable date or score are skipped with a warning.
func (s *Store) ListAll(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return nil, ErrNotInitialized
	}

	var records []entryRecord
	if err := s.db.SelectContext(ctx, &records,
		`SELECT id, COALESCE(date, '') AS date, COALESCE(subject, '') AS subject, COALESCE(topic, '') AS topic,
		score, COALESCE(study_time, 0) AS study_time
		FROM learning_log ORDER BY id`); err != nil {
		return nil, fmt.Errorf("db.SelectContext(learning_log) > %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entry, err := r.toEntry()
		if err != nil {
			s.logger.Warn("skipping unreadable study log row", zap.Int64("id", r.ID), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ClearAll deletes every entry. Ids are not reused afterwards.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotInitialized
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM learning_log")
	if err != nil {
		return &WriteError{Op: "clear", Err: fmt.Errorf("db.ExecContext(delete learning_log) > %w", err)}
	}
	if n, err := result.RowsAffected(); err == nil {
		s.logger.Info("cleared study log", zap.Int64("deleted", n))
	}
	return nil
}
