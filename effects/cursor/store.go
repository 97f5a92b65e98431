package cursor

import (
	"fmt"
	"sync"

	memdb "github.com/hashicorp/go-memdb"
)

// Entry is the stored state of one list. Stores hand out and accept copies;
// an Entry is never mutated after Save.
type Entry struct {
	List    string
	Index   int
	Size    int
	History []Record
}

// Store persists cursor entries. The handler serializes access per list, so
// implementations only need to be safe across lists.
type Store interface {
	Load(list string) (Entry, bool, error)
	Save(entry Entry) error
}

type inMemStore struct {
	*sync.Map
}

func (s inMemStore) Load(list string) (Entry, bool, error) {
	v, ok := s.Map.Load(list)
	if !ok {
		return Entry{}, false, nil
	}
	return v.(Entry), true, nil
}

func (s inMemStore) Save(entry Entry) error {
	s.Map.Store(entry.List, entry)
	return nil
}

func NewInMemoryStore() Store {
	return inMemStore{Map: &sync.Map{}}
}

const (
	memDBTable = "cursor"
	memDBIndex = "id"
)

var memDBSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		memDBTable: {
			Name: memDBTable,
			Indexes: map[string]*memdb.IndexSchema{
				memDBIndex: {
					Name:    memDBIndex,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "List"},
				},
			},
		},
	},
}

type memDBStore struct {
	db *memdb.MemDB
}

// NewMemDBStore keeps entries in a go-memdb table, which gives readers
// consistent snapshots while a worker writes.
func NewMemDBStore() (Store, error) {
	db, err := memdb.NewMemDB(memDBSchema)
	if err != nil {
		return nil, fmt.Errorf("fail to create cursor table: %w", err)
	}
	return memDBStore{db: db}, nil
}

func (m memDBStore) Load(list string) (Entry, bool, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(memDBTable, memDBIndex, list)
	if err != nil || raw == nil {
		return Entry{}, false, err
	}
	return *raw.(*Entry), true, nil
}

func (m memDBStore) Save(entry Entry) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(memDBTable, &entry); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
