package cursor

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/rickb777/date/v2/timespan"
	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("cursor")

// BoltStore keeps entries in a bolt file, so cursors survive restarts.
type BoltStore struct {
	DB *bolt.DB
}

// NewBoltStore opens (or creates) the bolt file at path. Close it when done.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("fail to open cursor file: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{DB: db}, nil
}

func (s *BoltStore) Close() error {
	return s.DB.Close()
}

func (s *BoltStore) Load(list string) (entry Entry, ok bool, err error) {
	err = s.DB.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(list))
		if raw == nil {
			return nil
		}
		ok = true
		entry, err = decodeEntry(raw)
		return err
	})
	return entry, ok, err
}

func (s *BoltStore) Save(entry Entry) error {
	raw, err := encodeEntry(entry)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(entry.List), raw)
	})
}

// storedEntry is the gob form of Entry; a TimeSpan has no exported fields.
type storedEntry struct {
	List    string
	Index   int
	Size    int
	History []storedRecord
}

type storedRecord struct {
	From, To   int
	Start, End time.Time
}

func encodeEntry(entry Entry) ([]byte, error) {
	stored := storedEntry{List: entry.List, Index: entry.Index, Size: entry.Size}
	for _, rec := range entry.History {
		stored.History = append(stored.History, storedRecord{
			From:  rec.From,
			To:    rec.To,
			Start: rec.Start(),
			End:   rec.End(),
		})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(stored); err != nil {
		return nil, fmt.Errorf("fail to encode cursor %q: %w", entry.List, err)
	}
	return buf.Bytes(), nil
}

func decodeEntry(raw []byte) (Entry, error) {
	var stored storedEntry
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&stored); err != nil {
		return Entry{}, fmt.Errorf("fail to decode cursor: %w", err)
	}

	entry := Entry{List: stored.List, Index: stored.Index, Size: stored.Size}
	for _, rec := range stored.History {
		entry.History = append(entry.History, Record{
			From:     rec.From,
			To:       rec.To,
			TimeSpan: timespan.BetweenTimes(rec.Start, rec.End),
		})
	}
	return entry, nil
}
