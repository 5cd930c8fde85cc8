package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/drivedesk/drivedesk-api/pkg/config"
)

// CacheMetrics receives cache hit/miss and write timings for the holiday
// cache.
type CacheMetrics interface {
	RecordCacheOperation(hit bool, duration time.Duration)
	ObserveCacheWrite(duration time.Duration)
}

// Client fetches public holidays from the external calendar feed. Responses
// are cached per year and region; a transient feed failure surfaces as an
// error to the caller, it is never swallowed.
type Client struct {
	baseURL string
	region  string
	http    *http.Client
	cache   *redis.Client
	ttl     time.Duration
	metrics CacheMetrics
	logger  *zap.Logger
}

// SetMetrics attaches a cache metrics recorder.
func (c *Client) SetMetrics(m CacheMetrics) {
	c.metrics = m
}

// New constructs a holiday feed client. The cache client may be nil, lookups
// then always hit the feed.
func New(cfg config.HolidayConfig, cache *redis.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		region:  cfg.Region,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		ttl:     cfg.CacheTTL,
		logger:  logger,
	}
}

type feedEntry struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// PublicHolidays returns the public holidays within [from, to], truncated to
// midnight in from's location.
func (c *Client) PublicHolidays(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var days []time.Time
	for year := from.Year(); year <= to.Year(); year++ {
		entries, err := c.holidaysForYear(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			day, err := time.ParseInLocation("2006-01-02", entry.Date, from.Location())
			if err != nil {
				c.logger.Warn("skipping malformed holiday date", zap.String("date", entry.Date))
				continue
			}
			if day.Before(fromDay(from)) || day.After(fromDay(to)) {
				continue
			}
			days = append(days, day)
		}
	}
	return days, nil
}

func (c *Client) holidaysForYear(ctx context.Context, year int) ([]feedEntry, error) {
	cacheKey := fmt.Sprintf("holidays:%s:%d", c.region, year)
	if c.cache != nil {
		lookupStart := time.Now()
		cached, err := c.cache.Get(ctx, cacheKey).Bytes()
		if c.metrics != nil {
			c.metrics.RecordCacheOperation(err == nil, time.Since(lookupStart))
		}
		if err == nil {
			var entries []feedEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		}
	}

	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, c.region)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday feed returned status %d for %d/%s", resp.StatusCode, year, c.region)
	}

	var entries []feedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode holiday feed response: %w", err)
	}

	if c.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			writeStart := time.Now()
			if err := c.cache.Set(ctx, cacheKey, payload, c.ttl).Err(); err != nil {
				c.logger.Warn("failed to cache holiday feed response", zap.Error(err))
			}
			if c.metrics != nil {
				c.metrics.ObserveCacheWrite(time.Since(writeStart))
			}
		}
	}

	return entries, nil
}

func fromDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
