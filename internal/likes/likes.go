// Package likes keeps the liked recipes and mirrors them to a blob store on
// every change.
package likes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"forkify/internal/logger"
	"forkify/internal/storage"
)

// StorageKey is the blob key the likes are persisted under.
const StorageKey = "likes"

// ErrAlreadyLiked is returned by AddLike when the recipe is already liked.
var ErrAlreadyLiked = errors.New("recipe already liked")

// Like is a liked recipe.
type Like struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Img    string `json:"img"`
}

// Likes is the ordered, id-unique set of liked recipes. It is not safe for
// concurrent use.
type Likes struct {
	likes []Like
	store storage.BlobStore
}

// New creates an empty Likes backed by store. Call ReadStorage to restore.
func New(store storage.BlobStore) *Likes {
	return &Likes{likes: []Like{}, store: store}
}

// AddLike appends a like and persists. If id is already liked the existing
// entry is returned with ErrAlreadyLiked and nothing changes. A failed write
// is rolled back.
func (l *Likes) AddLike(ctx context.Context, id, title, author, img string) (Like, error) {
	if i := l.index(id); i >= 0 {
		return l.likes[i], ErrAlreadyLiked
	}

	like := Like{ID: id, Title: title, Author: author, Img: img}
	l.likes = append(l.likes, like)
	if err := l.PersistStorage(ctx); err != nil {
		l.likes = l.likes[:len(l.likes)-1]
		return Like{}, err
	}
	return like, nil
}

// DeleteLike removes the like for id and persists. Unknown ids are ignored.
// A failed write is rolled back.
func (l *Likes) DeleteLike(ctx context.Context, id string) error {
	i := l.index(id)
	if i < 0 {
		return nil
	}

	prev := l.likes
	next := make([]Like, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)
	l.likes = next

	if err := l.PersistStorage(ctx); err != nil {
		l.likes = prev
		return err
	}
	return nil
}

// IsLiked reports whether id is liked.
func (l *Likes) IsLiked(id string) bool {
	return l.index(id) >= 0
}

// NumLikes returns the number of likes.
func (l *Likes) NumLikes() int {
	return len(l.likes)
}

// All returns a copy of the likes in insertion order.
func (l *Likes) All() []Like {
	return append([]Like{}, l.likes...)
}

// ReadStorage replaces the in-memory likes with the persisted ones. A missing,
// unreadable or corrupt blob leaves the likes empty; it is logged, not returned.
func (l *Likes) ReadStorage(ctx context.Context) {
	log := logger.FromContext(ctx)
	l.likes = []Like{}

	raw, ok, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		log.Warn("failed to read likes, starting empty", "error", err)
		return
	}
	if !ok {
		return
	}

	likes, err := Decode(raw)
	if err != nil {
		log.Warn("corrupt likes blob, starting empty", "error", err)
		return
	}
	l.likes = likes
}

// PersistStorage writes the full likes sequence under StorageKey.
func (l *Likes) PersistStorage(ctx context.Context) error {
	raw, err := Encode(l.likes)
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("failed to persist likes: %w", err)
	}
	return nil
}

func (l *Likes) index(id string) int {
	for i, like := range l.likes {
		if like.ID == id {
			return i
		}
	}
	return -1
}

// Encode serializes likes as a JSON array.
func Encode(likes []Like) (string, error) {
	if likes == nil {
		likes = []Like{}
	}
	data, err := json.Marshal(likes)
	if err != nil {
		return "", fmt.Errorf("failed to marshal likes: %w", err)
	}
	return string(data), nil
}

// Decode parses a JSON array of likes. Later duplicates of an id are dropped.
func Decode(raw string) ([]Like, error) {
	var decoded []Like
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal likes: %w", err)
	}

	out := make([]Like, 0, len(decoded))
	seen := make(map[string]bool, len(decoded))
	for _, like := range decoded {
		if seen[like.ID] {
			continue
		}
		seen[like.ID] = true
		out = append(out, like)
	}
	return out, nil
}
