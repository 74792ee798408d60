package memo

import (
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
)

const (
	memoTable = "memo"
	idIndex   = "id"
	posIndex  = "pos"
)

type record[V any] struct {
	Pos   int
	Atom  uint64
	Value V
}

// MemDBStore keeps entries in an in-memory radix database indexed by
// (position, atom) and by position alone, so diagnostics can list every
// evaluation recorded at a position.
type MemDBStore[V any] struct {
	db   *memdb.MemDB
	size int
}

var _ Store[int] = (*MemDBStore[int])(nil)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memoTable: {
				Name: memoTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:   idIndex,
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.IntFieldIndex{Field: "Pos"},
								&memdb.UintFieldIndex{Field: "Atom"},
							},
						},
					},
					posIndex: {
						Name:    posIndex,
						Indexer: &memdb.IntFieldIndex{Field: "Pos"},
					},
				},
			},
		},
	}
}

func NewMemDBStore[V any]() (*MemDBStore[V], error) {
	tmpl, err := NewMemDBTemplate[V]()
	if err != nil {
		return nil, err
	}
	return tmpl.NewStore(), nil
}

// MemDBTemplate validates the schema once and then hands out empty stores
// as snapshots of an empty database, which cannot fail.
type MemDBTemplate[V any] struct {
	db *memdb.MemDB
}

func NewMemDBTemplate[V any]() (*MemDBTemplate[V], error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("create memo database: %w", err)
	}
	return &MemDBTemplate[V]{db: db}, nil
}

// NewStore returns an empty store independent of every other store made
// from the template.
func (t *MemDBTemplate[V]) NewStore() *MemDBStore[V] {
	return &MemDBStore[V]{db: t.db.Snapshot()}
}

func (m *MemDBStore[V]) first(txn *memdb.Txn, key Key) *record[V] {
	raw, err := txn.First(memoTable, idIndex, key.Pos, key.Atom)
	if err != nil {
		panic(fmt.Errorf("memo lookup %s: %w", key, err))
	}
	if raw == nil {
		return nil
	}
	return raw.(*record[V])
}

func (m *MemDBStore[V]) Load(key Key) (V, bool) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	if rec := m.first(txn, key); rec != nil {
		return rec.Value, true
	}
	var zero V
	return zero, false
}

func (m *MemDBStore[V]) Store(key Key, value V) {
	txn := m.db.Txn(true)
	defer txn.Abort()

	existed := m.first(txn, key) != nil
	if err := txn.Insert(memoTable, &record[V]{Pos: key.Pos, Atom: key.Atom, Value: value}); err != nil {
		panic(fmt.Errorf("memo insert %s: %w", key, err))
	}
	txn.Commit()
	if !existed {
		m.size++
	}
}

func (m *MemDBStore[V]) Delete(key Key) {
	txn := m.db.Txn(true)
	defer txn.Abort()

	rec := m.first(txn, key)
	if rec == nil {
		return
	}
	if err := txn.Delete(memoTable, rec); err != nil {
		panic(fmt.Errorf("memo delete %s: %w", key, err))
	}
	txn.Commit()
	m.size--
}

func (m *MemDBStore[V]) Len() int {
	return m.size
}

// AtPosition returns the atom handles with an entry recorded at pos.
func (m *MemDBStore[V]) AtPosition(pos int) []uint64 {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(memoTable, posIndex, pos)
	if err != nil {
		panic(fmt.Errorf("memo scan at %d: %w", pos, err))
	}
	var handles []uint64
	for raw := it.Next(); raw != nil; raw = it.Next() {
		handles = append(handles, raw.(*record[V]).Atom)
	}
	return handles
}
