package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Timesheet cache keys
const (
	TimesheetKeyFmt     = "timesheet:%d:%s:%s" // employee, start, end
	TimesheetPatternFmt = "timesheet:%d:*"
	SummaryKeyFmt       = "summary:%d:%s:%s"
	SummaryPatternFmt   = "summary:%d:*"

	TimesheetTTL = 5 * time.Minute
)

// Cache wraps a Redis client. A Cache with no client (Redis unavailable)
// turns every call into a miss or a no-op so callers fall through to the database.
type Cache struct {
	client *redis.Client
}

// New connects to Redis; on failure it returns a disabled Cache and the error
func New(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client for graceful degradation
		client.Close()
		return &Cache{}, err
	}
	return &Cache{client: client}, nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Disabled returns a Cache that never hits
func Disabled() *Cache {
	return &Cache{}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// Get returns cached data for a key
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data with a TTL
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[Redis] Set %s failed: %v", key, err)
	}
}

// InvalidatePattern removes all keys matching a glob pattern
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[Redis] Scan %s failed: %v", pattern, err)
		return
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

// TimesheetKey is the cache key of one employee's fetch response for a range
func TimesheetKey(employeeID int, start, end string) string {
	return fmt.Sprintf(TimesheetKeyFmt, employeeID, start, end)
}

// SummaryKey is the cache key of one employee's summary for a range
func SummaryKey(employeeID int, start, end string) string {
	return fmt.Sprintf(SummaryKeyFmt, employeeID, start, end)
}

// InvalidateTimesheetCaches clears every cached range of the employee.
// Called when: SubmitTimesheet, ReviewTimesheets
func (c *Cache) InvalidateTimesheetCaches(ctx context.Context, employeeID int) {
	c.InvalidatePattern(ctx, fmt.Sprintf(TimesheetPatternFmt, employeeID))
	c.InvalidatePattern(ctx, fmt.Sprintf(SummaryPatternFmt, employeeID))
}

// IsHealthy returns true if Redis connection is working
func (c *Cache) IsHealthy(ctx context.Context) bool {
	if !c.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err() == nil
}
