package cache

import (
	"fmt"
	"sync"
	"time"

	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

// Cache is the TTL cache sitting between the repositories and the Durable
// Store. The set of tables is fixed at construction, one per data type, so a
// typo in a data-type can't silently create a new segment. A mutex replaces
// the source environment's cooperative single-thread assumption: handlers and
// the sweeper are real goroutines here.
type Cache struct {
	mu     sync.Mutex
	ttl    time.Duration
	clock  clock.Clock
	tables map[traveler.DataType]map[string]slot

	hits          uint64
	misses        uint64
	invalidations uint64
}

type slot struct {
	value     any
	userID    uuid.UUID
	writtenAt time.Time
}

type Stats struct {
	Hits          uint64  `json:"hits"`
	Misses        uint64  `json:"misses"`
	Invalidations uint64  `json:"invalidations"`
	HitRate       float64 `json:"hitRate"`
}

func New(clk clock.Clock, ttl time.Duration) *Cache {
	tables := make(map[traveler.DataType]map[string]slot)
	for _, dt := range []traveler.DataType{
		traveler.DataPassport,
		traveler.DataPersonalInfo,
		traveler.DataFunds,
		traveler.DataTravelInfo,
		traveler.DataEntryRecord,
	} {
		tables[dt] = make(map[string]slot)
	}
	return &Cache{
		ttl:    ttl,
		clock:  clk,
		tables: tables,
	}
}

// UserKey keys single-per-user data (passport, personal info, funds).
func UserKey(userID uuid.UUID) string {
	return userID.String()
}

// DestKey keys per-destination data (travel info, entry records).
func DestKey(userID uuid.UUID, destinationID string) string {
	return fmt.Sprintf("%s_%s", userID, destinationID)
}

// get returns the cached value only while the write stamp is within TTL.
// An expired slot reports a miss but is left in place; the next set
// overwrites it.
func (c *Cache) get(dt traveler.DataType, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.tables[dt][key]
	if !ok || c.clock.Now().Sub(s.writtenAt) >= c.ttl {
		c.misses++
		return nil, false
	}
	c.hits++
	return s.value, true
}

func (c *Cache) set(dt traveler.DataType, key string, userID uuid.UUID, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tables[dt][key] = slot{value: value, userID: userID, writtenAt: c.clock.Now()}
}

func (c *Cache) invalidate(dt traveler.DataType, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tables[dt][key]; ok {
		delete(c.tables[dt], key)
		c.invalidations++
	}
}

// ClearUser drops every entry across every table owned by the user. Used on
// session teardown.
func (c *Cache) ClearUser(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, table := range c.tables {
		for key, s := range table {
			if s.userID == userID {
				delete(table, key)
				c.invalidations++
			}
		}
	}
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Hits:          c.hits,
		Misses:        c.misses,
		Invalidations: c.invalidations,
		HitRate:       rate,
	}
}

func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits, c.misses, c.invalidations = 0, 0, 0
}
