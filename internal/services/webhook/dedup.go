package webhook

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultDedupCapacity = 1000

// Dedup remembers the most recent operation ids. The oldest id is evicted
// once capacity is reached.
type Dedup struct {
	seen *lru.Cache[string, struct{}]
}

func NewDedup(capacity int) (*Dedup, error) {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	c, err := lru.New[string, struct{}](capacity)
	if err != nil {
		return nil, err
	}
	return &Dedup{seen: c}, nil
}

// Seen marks id and reports whether it was already marked.
func (d *Dedup) Seen(id string) bool {
	found, _ := d.seen.ContainsOrAdd(id, struct{}{})
	return found
}

// Forget unmarks id so a redelivery is processed again.
func (d *Dedup) Forget(id string) {
	d.seen.Remove(id)
}

func (d *Dedup) Len() int { return d.seen.Len() }
