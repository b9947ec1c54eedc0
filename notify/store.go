package notify

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/oklog/ulid/v2"
	"github.com/ridge/must/v2"
)

const tableNotification = "notification"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableNotification: {
			Name: tableNotification,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"read": {
					Name:    "read",
					Indexer: &memdb.BoolFieldIndex{Field: "Read"},
				},
			},
		},
	},
}

// Store is the in-memory notification list.
//
// Items are indexed by their ULID, so iterating the primary index backwards
// yields most-recent-first order. All methods are safe for concurrent use.
type Store struct {
	db *memdb.MemDB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		db:      must.OK1(memdb.NewMemDB(schema)),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (s *Store) newID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return must.OK1(ulid.New(ulid.Timestamp(now), s.entropy)).String()
}

// Add inserts a fresh unread item, assigning its ID and creation time, and
// returns the completed item
func (s *Store) Add(item Item) Item {
	item.CreatedAt = time.Now()
	item.ID = s.newID(item.CreatedAt)
	item.Read = false

	txn := s.db.Txn(true)
	must.OK(txn.Insert(tableNotification, item))
	txn.Commit()
	return item
}

// Get returns the item with the given ID
func (s *Store) Get(id string) (Item, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw := must.OK1(txn.First(tableNotification, "id", id))
	if raw == nil {
		return Item{}, false
	}
	return raw.(Item), true
}

// Items returns all notifications, most recent first
func (s *Store) Items() []Item {
	txn := s.db.Txn(false)
	defer txn.Abort()

	var items []Item
	it := must.OK1(txn.GetReverse(tableNotification, "id"))
	for raw := it.Next(); raw != nil; raw = it.Next() {
		items = append(items, raw.(Item))
	}
	return items
}

// Unread returns the number of unread notifications
func (s *Store) Unread() int {
	txn := s.db.Txn(false)
	defer txn.Abort()

	count := 0
	it := must.OK1(txn.Get(tableNotification, "read", false))
	for raw := it.Next(); raw != nil; raw = it.Next() {
		count++
	}
	return count
}

// markRead flips one item to read. Reports whether the item existed and was
// unread.
func (s *Store) markRead(id string) bool {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw := must.OK1(txn.First(tableNotification, "id", id))
	if raw == nil || raw.(Item).Read {
		return false
	}
	item := raw.(Item)
	item.Read = true
	must.OK(txn.Insert(tableNotification, item))
	txn.Commit()
	return true
}

// markAllRead flips every item to read and returns how many were unread
func (s *Store) markAllRead() int {
	txn := s.db.Txn(true)
	defer txn.Abort()

	count := 0
	it := must.OK1(txn.Get(tableNotification, "read", false))
	for raw := it.Next(); raw != nil; raw = it.Next() {
		item := raw.(Item)
		item.Read = true
		must.OK(txn.Insert(tableNotification, item))
		count++
	}
	txn.Commit()
	return count
}

// Clear drops all notifications
func (s *Store) Clear() {
	txn := s.db.Txn(true)
	defer txn.Abort()
	must.OK1(txn.DeleteAll(tableNotification, "id"))
	txn.Commit()
}
