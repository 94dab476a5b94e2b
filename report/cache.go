package report

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps recently rendered reports so repeat downloads of the
// same assessment skip PDF generation. Assessments are immutable once
// stored, so entries never go stale.
type Cache struct {
	entries *lru.Cache[int64, []byte]
}

// NewCache creates a cache holding up to size rendered reports.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[int64, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached PDF for an assessment id.
func (c *Cache) Get(id int64) ([]byte, bool) {
	return c.entries.Get(id)
}

// Add stores a rendered PDF.
func (c *Cache) Add(id int64, pdf []byte) {
	c.entries.Add(id, pdf)
}
