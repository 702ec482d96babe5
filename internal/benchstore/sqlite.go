package benchstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type sqliteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func openSQLite(path string, logger *zap.Logger) (*sqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS runs (seq INTEGER PRIMARY KEY AUTOINCREMENT, timestamp INT, contents BLOB) STRICT"); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	logger.Debug("opened store")
	return &sqliteStore{db: db, logger: logger}, nil
}

func (s *sqliteStore) Put(ctx context.Context, rec *Record) (uint64, error) {
	blob, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, "INSERT INTO runs (timestamp, contents) VALUES (?, ?)", rec.Time.Unix(), blob)
	if err != nil {
		return 0, fmt.Errorf("storing run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	rec.Seq = uint64(id)
	s.logger.Info("stored run", zap.Uint64("seq", rec.Seq), zap.Int("runs", rec.Runs))
	return rec.Seq, nil
}

func (s *sqliteStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT seq, contents FROM runs ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var seq int64
		var blob []byte
		if err := rows.Scan(&seq, &blob); err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal(blob, &rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", seq, err)
		}
		rec.Seq = uint64(seq)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
