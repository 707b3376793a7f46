package view

import (
	"strings"
	"sync"
)

// Controls holds the search, sort and page state of one list page.
type Controls struct {
	mu      sync.Mutex
	query   string
	field   Field
	dir     Direction
	page    int
	version uint64
}

// NewControls starts on page 1 sorted ascending by field.
func NewControls(field Field) *Controls {
	return &Controls{field: field, dir: Asc, page: 1}
}

// SetQuery changes the search query and goes back to page 1.
func (c *Controls) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
	c.page = 1
}

// ToggleSort flips the direction when field is already the sort field,
// otherwise sorts ascending by field.
func (c *Controls) ToggleSort(field Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.field == field {
		c.dir = c.dir.Flip()
		return
	}
	c.field = field
	c.dir = Asc
}

func (c *Controls) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page
}

// Observe goes back to page 1 when version differs from the last one seen.
// Callers pass the version of the records the page is derived from.
func (c *Controls) Observe(version uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.version {
		c.version = version
		c.page = 1
	}
}

// Params returns the current control values.
func (c *Controls) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Params{
		Query:     strings.TrimSpace(c.query),
		Field:     c.field,
		Direction: c.dir,
		Page:      c.page,
	}
}

// Query returns the query as typed, untrimmed.
func (c *Controls) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}
