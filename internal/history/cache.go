// Package history keeps a short, per-user window of delivered notifications.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stellarwallet/relay/internal/domain/filter"
	"github.com/stellarwallet/relay/internal/domain/operation"
)

type Config struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxPerUser int           `mapstructure:"max_per_user"`
}

func DefaultConfig() Config {
	return Config{TTL: 12 * time.Hour, MaxPerUser: 50}
}

// stroop is the smallest Stellar amount unit.
var stroop = decimal.New(1, -7)

type Record struct {
	ID            string
	OperationType operation.Type
	AssetCode     string
	Amount        float64
	WalletID      int64
	PublicKey     string
	Perspective   operation.Perspective
	CreatedAt     time.Time
}

// Cache is safe for concurrent use. Buckets are newest first.
type Cache struct {
	mu      sync.Mutex
	buckets map[int64][]Record
	cfg     Config
	now     func() time.Time
}

type Option func(*Cache)

// WithClock replaces time.Now as the source of record timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func New(cfg Config, opts ...Option) *Cache {
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.MaxPerUser <= 0 {
		cfg.MaxPerUser = def.MaxPerUser
	}
	c := &Cache{
		buckets: make(map[int64][]Record),
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add records a delivered operation for userID and returns the stored record.
func (c *Cache) Add(userID int64, op operation.Operation, walletID int64, publicKey string) Record {
	rec := Record{
		ID:            shortID(),
		OperationType: op.Type,
		AssetCode:     op.Asset,
		Amount:        op.PrimaryAmount().InexactFloat64(),
		WalletID:      walletID,
		PublicKey:     publicKey,
		Perspective:   op.PerspectiveFor(publicKey),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	rec.CreatedAt = c.now()
	list := c.pruneLocked(userID)

	next := make([]Record, 0, min(len(list)+1, c.cfg.MaxPerUser))
	next = append(next, rec)
	next = append(next, list...)
	if len(next) > c.cfg.MaxPerUser {
		next = next[:c.cfg.MaxPerUser]
	}
	c.buckets[userID] = next
	return rec
}

// GetRecent returns up to limit records, newest first.
func (c *Cache) GetRecent(userID int64, limit int) []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.pruneLocked(userID)
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]Record, limit)
	copy(out, list[:limit])
	return out
}

// GetByID only searches userID's own bucket.
func (c *Cache) GetByID(userID int64, id string) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.pruneLocked(userID) {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Cleanup drops expired records of every user and returns how many were removed.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for userID, list := range c.buckets {
		before := len(list)
		removed += before - len(c.pruneLocked(userID))
	}
	return removed
}

// Users is the number of non-empty buckets.
func (c *Cache) Users() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets)
}

// BuildFilter turns a cached record into a suppression rule for the same
// wallet, asset and type. The threshold is one stroop above the record
// amount, so a repeat of the same amount is muted too.
func (c *Cache) BuildFilter(userID int64, recordID string) (filter.Filter, bool) {
	rec, ok := c.GetByID(userID, recordID)
	if !ok {
		return filter.Filter{}, false
	}
	f := filter.Filter{
		UserID:        userID,
		PublicKey:     rec.PublicKey,
		MinAmount:     decimal.NewFromFloat(rec.Amount).Add(stroop),
		OperationType: rec.OperationType,
	}
	if rec.AssetCode != operation.AssetUnknown {
		f.AssetCode = rec.AssetCode
	}
	return f, true
}

// pruneLocked evicts expired records of one user and removes the bucket
// when nothing is left. Callers hold c.mu.
func (c *Cache) pruneLocked(userID int64) []Record {
	list, ok := c.buckets[userID]
	if !ok {
		return nil
	}
	cutoff := c.now().Add(-c.cfg.TTL)
	// newest first, so everything after the first expired record is expired too
	keep := len(list)
	for i, r := range list {
		if !r.CreatedAt.After(cutoff) {
			keep = i
			break
		}
	}
	if keep == 0 {
		delete(c.buckets, userID)
		return nil
	}
	if keep < len(list) {
		list = list[:keep:keep]
		c.buckets[userID] = list
	}
	return list
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
