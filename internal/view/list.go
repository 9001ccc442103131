package view

import "sync"

// ChangeKind identifies a List mutation.
type ChangeKind int

const (
	ChangeReset ChangeKind = iota
	ChangeAppend
	ChangeInsert
	ChangeReplace
	ChangeRemove
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeReset:
		return "reset"
	case ChangeAppend:
		return "append"
	case ChangeInsert:
		return "insert"
	case ChangeReplace:
		return "replace"
	case ChangeRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Change describes one mutation. Index is the position of the first affected
// item; Items holds the items added or, for ChangeRemove, the item removed.
type Change struct {
	Kind  ChangeKind
	Index int
	Items []Item
}

// List is an ordered, observable sequence of items holding at most one item
// per ID. Observers run after the mutation is applied, outside the lock.
type List struct {
	mu        sync.RWMutex
	items     []Item
	observers map[int]func(Change)
	nextObs   int
}

// NewList creates an empty list.
func NewList() *List {
	return &List{observers: make(map[int]func(Change))}
}

// Subscribe registers fn for every subsequent change and returns a function
// that removes it.
func (l *List) Subscribe(fn func(Change)) func() {
	l.mu.Lock()
	id := l.nextObs
	l.nextObs++
	l.observers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.observers, id)
		l.mu.Unlock()
	}
}

// Len returns the number of items.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// At returns the item at index.
func (l *List) At(index int) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.items) {
		return Item{}, false
	}
	return l.items[index], true
}

// IndexOf returns the index of the item with id, or -1.
func (l *List) IndexOf(id int64) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexOf(id)
}

// Get returns the item with id.
func (l *List) Get(id int64) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexOf(id); i >= 0 {
		return l.items[i], true
	}
	return Item{}, false
}

// Snapshot returns a copy of the items in order.
func (l *List) Snapshot() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Reset removes every item.
func (l *List) Reset() {
	l.mu.Lock()
	l.items = nil
	l.notify(Change{Kind: ChangeReset})
}

// Append adds items at the end, skipping IDs already present. It returns the
// number of items added.
func (l *List) Append(items ...Item) int {
	return l.AppendWhen(nil, items...)
}

// AppendWhen is Append guarded by commit, which runs under the list lock
// before anything is added. When commit returns false the list is left
// unchanged. commit must not call back into the list.
func (l *List) AppendWhen(commit func() bool, items ...Item) int {
	l.mu.Lock()
	if commit != nil && !commit() {
		l.mu.Unlock()
		return 0
	}
	start := len(l.items)
	for _, item := range items {
		if l.indexOf(item.ID) >= 0 {
			continue
		}
		l.items = append(l.items, item)
	}
	added := make([]Item, len(l.items)-start)
	copy(added, l.items[start:])
	if len(added) == 0 {
		l.mu.Unlock()
		return 0
	}
	l.notify(Change{Kind: ChangeAppend, Index: start, Items: added})
	return len(added)
}

// InsertFront adds item at index 0. It reports false if the ID is present.
func (l *List) InsertFront(item Item) bool {
	l.mu.Lock()
	if l.indexOf(item.ID) >= 0 {
		l.mu.Unlock()
		return false
	}
	l.items = append([]Item{item}, l.items...)
	l.notify(Change{Kind: ChangeInsert, Index: 0, Items: []Item{item}})
	return true
}

// Replace swaps the item sharing item.ID in place and returns its index.
func (l *List) Replace(item Item) (int, bool) {
	l.mu.Lock()
	i := l.indexOf(item.ID)
	if i < 0 {
		l.mu.Unlock()
		return -1, false
	}
	l.items[i] = item
	l.notify(Change{Kind: ChangeReplace, Index: i, Items: []Item{item}})
	return i, true
}

// Remove deletes the item with id and returns its former index.
func (l *List) Remove(id int64) (int, bool) {
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return -1, false
	}
	removed := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.notify(Change{Kind: ChangeRemove, Index: i, Items: []Item{removed}})
	return i, true
}

func (l *List) indexOf(id int64) int {
	for i, item := range l.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// notify releases the write lock held by the caller, then delivers change.
func (l *List) notify(change Change) {
	observers := make([]func(Change), 0, len(l.observers))
	for _, fn := range l.observers {
		observers = append(observers, fn)
	}
	l.mu.Unlock()

	for _, fn := range observers {
		fn(change)
	}
}
