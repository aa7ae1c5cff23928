// Package directory resolves opaque department and employee identifiers to
// display values via the identity service, memoizing results in a bounded
// cache so dashboards do not hammer the upstream.
package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Lookup is the upstream read used on cache misses. Implementations must
// honor the context deadline.
type Lookup interface {
	Departments(ctx context.Context, ids []string) (map[string]domain.Department, error)
	Employees(ctx context.Context, ids []string) (map[string]domain.Employee, error)
}

// Store is an optional second-level cache shared across processes.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

type entry struct {
	display  string
	code     string
	filledAt time.Time
}

// Cache memoizes directory lookups. Entries are filled atomically under the
// cache lock, so concurrent readers see either the pre-fill or post-fill
// state. Two racing misses may both hit the upstream; the second fill wins
// harmlessly. The cache is bounded: expired entries are dropped first, then
// the oldest fills.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	ttl        time.Duration

	lookup Lookup
	store  Store
	logger *zap.Logger
}

// Options tunes cache bounds.
type Options struct {
	MaxEntries int
	TTL        time.Duration
}

// NewCache builds a directory cache. store may be nil.
func NewCache(lookup Lookup, store Store, opts Options, logger *zap.Logger) *Cache {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = 4096
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries:    make(map[string]entry),
		maxEntries: opts.MaxEntries,
		ttl:        opts.TTL,
		lookup:     lookup,
		store:      store,
		logger:     logger,
	}
}

const (
	departmentPrefix = "dept:"
	employeePrefix   = "emp:"
)

// DepartmentName resolves one department id to its display name. On any
// lookup failure the raw identifier is returned so callers always have
// something to render.
func (c *Cache) DepartmentName(ctx context.Context, id string) string {
	names := c.ResolveDepartments(ctx, []string{id})
	return names[id]
}

// ResolveDepartments resolves a batch of department ids to display names.
// Every requested id is present in the result; ids the upstream does not
// know fall back to the raw identifier and stay unfilled in the cache.
func (c *Cache) ResolveDepartments(ctx context.Context, ids []string) map[string]string {
	result, missing := c.fromCache(departmentPrefix, ids)
	if len(missing) == 0 {
		return result
	}

	depts, err := c.lookup.Departments(ctx, missing)
	if err != nil {
		c.logger.Warn("department lookup failed; falling back to raw ids",
			zap.Int("requested", len(missing)), zap.Error(err))
		return result
	}
	fills := make(map[string]entry, len(depts))
	for id, dept := range depts {
		fills[departmentPrefix+id] = entry{display: dept.DisplayName, code: dept.Code}
		result[id] = dept.DisplayName
	}
	c.fill(ctx, fills)
	return result
}

// ResolveEmployees resolves a batch of employee ids. Unknown ids fall back
// to a record whose display name is the raw identifier.
func (c *Cache) ResolveEmployees(ctx context.Context, ids []string) map[string]domain.Employee {
	resolved, missing := c.fromCache(employeePrefix, ids)
	result := make(map[string]domain.Employee, len(ids))
	for id, display := range resolved {
		ent := c.peek(employeePrefix + id)
		result[id] = domain.Employee{ID: id, DisplayName: display, Code: ent.code}
	}
	if len(missing) == 0 {
		return result
	}

	employees, err := c.lookup.Employees(ctx, missing)
	if err != nil {
		c.logger.Warn("employee lookup failed; falling back to raw ids",
			zap.Int("requested", len(missing)), zap.Error(err))
		return result
	}
	fills := make(map[string]entry, len(employees))
	for id, emp := range employees {
		fills[employeePrefix+id] = entry{display: emp.DisplayName, code: emp.Code}
		result[id] = emp
	}
	c.fill(ctx, fills)
	return result
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// fromCache returns resolved display names for cached ids (raw-id fallback
// prefilled) plus the list of ids needing an upstream lookup.
func (c *Cache) fromCache(prefix string, ids []string) (map[string]string, []string) {
	now := time.Now()
	result := make(map[string]string, len(ids))
	var missing []string

	c.mu.Lock()
	for _, id := range ids {
		result[id] = id // fallback until resolved
		ent, ok := c.entries[prefix+id]
		if !ok || now.Sub(ent.filledAt) > c.ttl {
			missing = append(missing, id)
			continue
		}
		result[id] = ent.display
	}
	c.mu.Unlock()

	if len(missing) == 0 || c.store == nil {
		return result, missing
	}

	// Second-level store before going upstream.
	stillMissing := missing[:0]
	fills := map[string]entry{}
	for _, id := range missing {
		if val, ok := c.store.Get(context.Background(), prefix+id); ok {
			display, code := splitStoreValue(val)
			result[id] = display
			fills[prefix+id] = entry{display: display, code: code}
			continue
		}
		stillMissing = append(stillMissing, id)
	}
	if len(fills) > 0 {
		c.fillLocal(fills)
	}
	return result, stillMissing
}

func (c *Cache) peek(key string) entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key]
}

func (c *Cache) fill(ctx context.Context, fills map[string]entry) {
	c.fillLocal(fills)
	if c.store == nil {
		return
	}
	for key, ent := range fills {
		c.store.Set(ctx, key, joinStoreValue(ent.display, ent.code), c.ttl)
	}
}

func (c *Cache) fillLocal(fills map[string]entry) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, ent := range fills {
		ent.filledAt = now
		c.entries[key] = ent
	}
	c.evictLocked(now)
}

// evictLocked enforces the size bound: expired entries first, then oldest
// fills until the map fits.
func (c *Cache) evictLocked(now time.Time) {
	if len(c.entries) <= c.maxEntries {
		return
	}
	for key, ent := range c.entries {
		if now.Sub(ent.filledAt) > c.ttl {
			delete(c.entries, key)
		}
	}
	if len(c.entries) <= c.maxEntries {
		return
	}

	type aged struct {
		key      string
		filledAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for key, ent := range c.entries {
		all = append(all, aged{key, ent.filledAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].filledAt.Before(all[j].filledAt) })
	for _, candidate := range all[:len(c.entries)-c.maxEntries] {
		delete(c.entries, candidate.key)
	}
}

const storeValueSep = "\x1f"

func joinStoreValue(display, code string) string {
	return display + storeValueSep + code
}

func splitStoreValue(val string) (display, code string) {
	for i := 0; i < len(val); i++ {
		if val[i] == 0x1f {
			return val[:i], val[i+1:]
		}
	}
	return val, ""
}
