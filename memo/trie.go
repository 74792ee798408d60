package memo

// Trie is a two-level table: position first, then atom handle. Sub-tables
// are created on first store and pruned when their last entry is deleted.
type Trie[V any] struct {
	positions map[int]map[uint64]V
	size      int
}

var _ Store[int] = (*Trie[int])(nil)

func NewTrieStore[V any]() *Trie[V] {
	return &Trie[V]{
		positions: make(map[int]map[uint64]V),
	}
}

// traverse returns the atom table for pos. With create set, a missing table
// is inserted first; otherwise nil is returned for it.
func (t *Trie[V]) traverse(pos int, create bool) map[uint64]V {
	atoms, ok := t.positions[pos]
	if !ok && create {
		atoms = make(map[uint64]V)
		t.positions[pos] = atoms
	}
	return atoms
}

func (t *Trie[V]) Load(key Key) (V, bool) {
	v, ok := t.traverse(key.Pos, false)[key.Atom]
	return v, ok
}

func (t *Trie[V]) Store(key Key, value V) {
	atoms := t.traverse(key.Pos, true)
	if _, ok := atoms[key.Atom]; !ok {
		t.size++
	}
	atoms[key.Atom] = value
}

func (t *Trie[V]) Delete(key Key) {
	atoms := t.traverse(key.Pos, false)
	if _, ok := atoms[key.Atom]; !ok {
		return
	}
	delete(atoms, key.Atom)
	t.size--
	if len(atoms) == 0 {
		delete(t.positions, key.Pos)
	}
}

func (t *Trie[V]) Len() int {
	return t.size
}

// Positions reports how many distinct input positions hold at least one entry.
func (t *Trie[V]) Positions() int {
	return len(t.positions)
}
