// Package locations holds the department/municipality catalog of Nicaragua
// and the accent-insensitive queries used by location pickers.
package locations

import (
	"context"
	"sort"
	"strings"
	"sync"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/models"
)

const (
	DefaultPageSize     = 500
	DefaultMaxPages     = 50
	DefaultSuggestLimit = 100
)

// Source pages through the location catalog.
type Source interface {
	GetLocationsNicaragua(ctx context.Context, page, pageSize int) (*models.Page[models.LocationEntry], error)
}

type Options struct {
	PageSize int
	MaxPages int
	Logger   logger.Logger
}

// Catalog is an indexed, read-only view of the location entries. It is
// safe for concurrent readers once loaded.
type Catalog struct {
	source   Source
	pageSize int
	maxPages int
	logger   logger.Logger

	mu      sync.RWMutex
	entries []models.LocationEntry
	// normalized department -> display department
	departments map[string]string
	// normalized department -> display municipalities, sorted, deduped
	cities map[string][]string
}

func NewCatalog(source Source, opts Options) *Catalog {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	c := &Catalog{
		source:   source,
		pageSize: opts.PageSize,
		maxPages: opts.MaxPages,
		logger:   logger.OrNop(opts.Logger).WithFields(map[string]interface{}{"component": "location-catalog"}),
	}
	c.index(nil)
	return c
}

// FromEntries builds a loaded catalog without a source.
func FromEntries(entries []models.LocationEntry) *Catalog {
	c := NewCatalog(nil, Options{})
	c.index(entries)
	return c
}

// Replace swaps in entries, e.g. a snapshot loaded from the shared cache.
func (c *Catalog) Replace(entries []models.LocationEntry) {
	c.index(entries)
}

// Len returns the number of loaded entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// LoadAll fetches pages until a short page, the declared total, or the page
// cap is reached. Pages arriving after ctx is cancelled are discarded and
// the previous index is kept.
func (c *Catalog) LoadAll(ctx context.Context) error {
	if c.source == nil {
		return errors.NewCatalogLoadError(errors.New("no location source configured"))
	}

	var all []models.LocationEntry
	pages := 0
	capped := true
	for page := 1; page <= c.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return errors.NewCatalogLoadError(err)
		}

		result, err := c.source.GetLocationsNicaragua(ctx, page, c.pageSize)
		if err != nil {
			return errors.NewCatalogLoadError(err)
		}
		if err := ctx.Err(); err != nil {
			return errors.NewCatalogLoadError(err)
		}
		pages++
		if result == nil {
			result = &models.Page[models.LocationEntry]{}
		}

		all = append(all, result.Items...)

		if len(result.Items) < c.pageSize || (result.Total > 0 && len(all) >= result.Total) {
			capped = false
			break
		}
	}

	if capped {
		c.logger.Warn("location catalog load stopped at page cap", map[string]interface{}{
			"pages":   pages,
			"entries": len(all),
		})
	}

	c.index(all)
	c.logger.Info("location catalog loaded", map[string]interface{}{
		"pages":       pages,
		"entries":     len(all),
		"departments": len(c.Departments()),
	})
	return nil
}

func (c *Catalog) index(entries []models.LocationEntry) {
	departments := make(map[string]string)
	citySets := make(map[string]map[string]string)

	for _, e := range entries {
		dept := strings.TrimSpace(e.Department)
		city := strings.TrimSpace(e.Municipality)
		if dept == "" {
			continue
		}
		nd := Normalize(dept)
		if _, ok := departments[nd]; !ok {
			departments[nd] = dept
		}
		if city == "" {
			continue
		}
		if citySets[nd] == nil {
			citySets[nd] = make(map[string]string)
		}
		nc := Normalize(city)
		if _, ok := citySets[nd][nc]; !ok {
			citySets[nd][nc] = city
		}
	}

	cities := make(map[string][]string, len(citySets))
	for nd, set := range citySets {
		list := make([]string, 0, len(set))
		for _, display := range set {
			list = append(list, display)
		}
		sortByNormalized(list)
		cities[nd] = list
	}

	c.mu.Lock()
	c.entries = entries
	c.departments = departments
	c.cities = cities
	c.mu.Unlock()
}

// Entries returns the loaded entries in source order.
func (c *Catalog) Entries() []models.LocationEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.LocationEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Departments returns the distinct departments, sorted.
func (c *Catalog) Departments() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.departments))
	for _, d := range c.departments {
		out = append(out, d)
	}
	sortByNormalized(out)
	return out
}

// CitiesOf returns the municipalities of dept, sorted. Unknown departments
// yield an empty list.
func (c *Catalog) CitiesOf(dept string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := c.cities[Normalize(dept)]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// InferDepartment returns the department of the first entry whose
// municipality matches city, or "" when none does. Entries without a
// department are skipped, as the index skips them.
func (c *Catalog) InferDepartment(city string) string {
	nc := Normalize(city)
	if nc == "" {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		dept := strings.TrimSpace(e.Department)
		if dept == "" {
			continue
		}
		if Normalize(e.Municipality) == nc {
			return dept
		}
	}
	return ""
}

// Suggest returns municipalities of dept whose normalized name contains
// partial (so prefixes match too), sorted, at most limit results.
// limit <= 0 selects DefaultSuggestLimit.
func (c *Catalog) Suggest(dept, partial string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	np := Normalize(partial)

	out := []string{}
	for _, city := range c.CitiesOf(dept) {
		if len(out) == limit {
			break
		}
		if strings.Contains(Normalize(city), np) {
			out = append(out, city)
		}
	}
	return out
}

// Contains reports whether city is a municipality of dept.
func (c *Catalog) Contains(dept, city string) bool {
	nc := Normalize(city)
	for _, candidate := range c.CitiesOf(dept) {
		if Normalize(candidate) == nc {
			return true
		}
	}
	return false
}

func sortByNormalized(list []string) {
	sort.SliceStable(list, func(i, j int) bool {
		ni, nj := Normalize(list[i]), Normalize(list[j])
		if ni == nj {
			return list[i] < list[j]
		}
		return ni < nj
	})
}
