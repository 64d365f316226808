package index

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Entry records one exported file.
type Entry struct {
	Route string `json:"route"`
	Hash  string `json:"hash"`
	RunID string `json:"run"`
}

// Run summarizes one export.
type Run struct {
	ID        string    `json:"id"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	Written   int       `json:"written"`
	Unchanged int       `json:"unchanged"`
	Pruned    int       `json:"pruned"`
	Failed    []string  `json:"failed,omitempty"`
}

// Outputs returns the manifest of the last committed export, keyed by path
// relative to the public dir.
func (s *Store) Outputs() (map[string]Entry, error) {
	out := make(map[string]Entry)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bOutputs)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode entry %s: %w", k, err)
			}
			out[string(k)] = e
			return nil
		})
	})
	return out, err
}

// Commit replaces the output manifest and appends run to the history in a
// single transaction.
func (s *Store) Commit(run Run, outputs map[string]Entry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bOutputs)
		outB, err := tx.CreateBucket(bOutputs)
		if err != nil {
			return err
		}
		for path, e := range outputs {
			eb, err := json.Marshal(e)
			if err != nil {
				return err
			}
			if err := outB.Put([]byte(path), eb); err != nil {
				return err
			}
		}

		runsB, err := tx.CreateBucketIfNotExists(bRuns)
		if err != nil {
			return err
		}
		rb, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return runsB.Put(makeRunKey(run.Started.UnixNano(), run.ID), rb)
	})
}

// LastRun returns the most recently started run.
func (s *Store) LastRun() (Run, error) {
	var run Run
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bRuns)
		if b == nil {
			return ErrNotFound
		}
		k, v := b.Cursor().First()
		if k == nil {
			return ErrNotFound
		}
		if runIDFromKey(k) == "" {
			return fmt.Errorf("index: malformed run key %x", k)
		}
		return json.Unmarshal(v, &run)
	})
	return run, err
}
