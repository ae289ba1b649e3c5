package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// CreateRecording journals a newly created subscription
func (db *Database) CreateRecording(rec *Recording) error {
	rec.CreatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), rec)
}

// GetRecordingByGUID retrieves the most recent journal entry for a content guid
func (db *Database) GetRecordingByGUID(guid string) (*Recording, error) {
	var recs []*Recording
	err := db.store.Find(&recs, bolthold.Where("GUID").Eq(guid))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, bolthold.ErrNotFound
	}
	return recs[len(recs)-1], nil
}

// GetAllRecordings retrieves every journal entry
func (db *Database) GetAllRecordings() ([]*Recording, error) {
	var recs []*Recording
	err := db.store.Find(&recs, nil)
	return recs, err
}

// GetRecentRecordings retrieves up to limit journal entries, newest first
func (db *Database) GetRecentRecordings(limit int) ([]*Recording, error) {
	recs, err := db.GetAllRecordings()
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// PruneRecordingsBefore deletes journal entries created before cutoff and
// returns how many were removed
func (db *Database) PruneRecordingsBefore(cutoff time.Time) (int, error) {
	var recs []*Recording
	err := db.store.Find(&recs, bolthold.Where("CreatedAt").Lt(cutoff))
	if err != nil {
		return 0, err
	}

	for _, rec := range recs {
		if err := db.store.Delete(rec.ID, &Recording{}); err != nil {
			return 0, err
		}
	}

	return len(recs), nil
}
