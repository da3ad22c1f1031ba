package hotspot

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"

	"github.com/sells-group/hotspot-cli/internal/model"
)

// Cache memoizes analysis outcomes keyed by an input fingerprint. The
// engine itself is stateless; callers that rerun the same point set and
// parameters (interactive tuning, the HTTP API) hold a Cache beside it and
// control eviction themselves.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Outcome
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Outcome)}
}

// Fingerprint hashes the incident coordinates and parameters into a cache
// key. Coordinate order matters: clustering output depends on input order,
// so a reordered set is a different computation.
func Fingerprint(incidents []model.Incident, params model.Params) string {
	h := sha256.New()
	var buf [8]byte

	for _, inc := range incidents {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(inc.X))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(inc.Y))
		h.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(params.Eps))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(params.MinPts))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(params.SampleSize))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(params.Seed))
	h.Write(buf[:])
	h.Write([]byte(params.District))
	h.Write([]byte{0})
	h.Write([]byte(params.Category))

	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached outcome for key, or nil.
func (c *Cache) Get(key string) *Outcome {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

// Set stores an outcome under key.
func (c *Cache) Set(key string, out *Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = out
}

// Delete evicts a single entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Purge evicts everything.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Outcome)
}

// Len reports the number of cached outcomes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
