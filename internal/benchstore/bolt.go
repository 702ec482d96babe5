package benchstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var runsBucket = []byte("runs")

type boltStore struct {
	db     *bolt.DB
	logger *zap.Logger
}

func openBolt(path string, logger *zap.Logger) (*boltStore, error) {
	db, err := bolt.Open(path, 0o666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	logger.Debug("opened store")
	return &boltStore{db: db, logger: logger}, nil
}

func (s *boltStore) Put(ctx context.Context, rec *Record) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}

	var seq uint64
	if err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(runsBucket)
		seq, err = bucket.NextSequence()
		if err != nil {
			return err
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)
		return bucket.Put(key[:], value)
	}); err != nil {
		return 0, fmt.Errorf("storing run: %w", err)
	}

	rec.Seq = seq
	s.logger.Info("stored run", zap.Uint64("seq", seq), zap.Int("runs", rec.Runs))
	return seq, nil
}

func (s *boltStore) List(ctx context.Context) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*Record
	if err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("record %x: %w", k, err)
			}
			rec.Seq = binary.BigEndian.Uint64(k)
			out = append(out, &rec)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return out, nil
}

func (s *boltStore) Close() error {
	return s.db.Close()
}
