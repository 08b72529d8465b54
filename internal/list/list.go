// Package list is the session's shopping list.
package list

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

var (
	// ErrItemNotFound is returned when an item id is not on the list.
	ErrItemNotFound = errors.New("list item not found")
	// ErrInvalidCount is returned for counts that are not finite and positive.
	ErrInvalidCount = errors.New("count must be a positive number")
)

// Item is one shopping list entry.
type Item struct {
	ID         string  `json:"id"`
	Count      float64 `json:"count"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
}

// List keeps items in insertion order. It is not safe for concurrent use.
type List struct {
	items map[string]*Item
	order []string
	newID func() string
}

// New creates an empty list with uuid item ids.
func New() *List {
	return NewWithGenerator(uuid.NewString)
}

// NewWithGenerator creates an empty list that takes item ids from gen.
func NewWithGenerator(gen func() string) *List {
	return &List{
		items: make(map[string]*Item),
		newID: gen,
	}
}

// AddItem stores a new entry and returns it. Non-finite counts are stored as 0.
func (l *List) AddItem(count float64, unit, ingredient string) Item {
	if math.IsNaN(count) || math.IsInf(count, 0) {
		count = 0
	}
	id := l.newID()
	for _, taken := l.items[id]; taken; _, taken = l.items[id] {
		id = l.newID()
	}

	item := &Item{ID: id, Count: count, Unit: unit, Ingredient: ingredient}
	l.items[id] = item
	l.order = append(l.order, id)
	return *item
}

// DeleteItem removes the entry. Unknown ids are ignored.
func (l *List) DeleteItem(id string) {
	if _, ok := l.items[id]; !ok {
		return
	}
	delete(l.items, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// UpdateCount replaces the count of an entry.
func (l *List) UpdateCount(id string, count float64) error {
	if !ValidCount(count) {
		return ErrInvalidCount
	}
	item, ok := l.items[id]
	if !ok {
		return ErrItemNotFound
	}
	item.Count = count
	return nil
}

// Get returns a copy of the entry.
func (l *List) Get(id string) (Item, bool) {
	item, ok := l.items[id]
	if !ok {
		return Item{}, false
	}
	return *item, true
}

// Items returns copies of all entries in insertion order.
func (l *List) Items() []Item {
	out := make([]Item, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.items[id])
	}
	return out
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.order) }

// ValidCount reports whether count can be stored by UpdateCount.
func ValidCount(count float64) bool {
	return count > 0 && !math.IsInf(count, 0) && !math.IsNaN(count)
}
