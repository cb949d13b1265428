package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/n0roo/saju-kit/internal/db"
	"github.com/n0roo/saju-kit/internal/manse"
	"github.com/n0roo/saju-kit/internal/pillars"
)

// 간지 값은 변하지 않으므로 사주 캐시는 넉넉하게 잡는다
const (
	DefaultChartTTL  = 365 * 24 * time.Hour
	DefaultSourceTTL = 30 * 24 * time.Hour
)

// Cache stores chart results and raw source payloads with separate TTLs
type Cache struct {
	db        db.Database
	chartTTL  time.Duration
	sourceTTL time.Duration
}

// New creates a cache. TTL이 0이면 기본값 사용
func New(database db.Database, chartTTL, sourceTTL time.Duration) *Cache {
	if chartTTL <= 0 {
		chartTTL = DefaultChartTTL
	}
	if sourceTTL <= 0 {
		sourceTTL = DefaultSourceTTL
	}
	return &Cache{db: database, chartTTL: chartTTL, sourceTTL: sourceTTL}
}

// GetChart returns a cached chart, honoring the TTL
func (c *Cache) GetChart(key string) (*pillars.Chart, bool) {
	payload, expires, err := c.get("chart_cache", key)
	if err != nil || time.Now().After(expires) {
		return nil, false
	}
	var chart pillars.Chart
	if err := json.Unmarshal([]byte(payload), &chart); err != nil {
		return nil, false
	}
	return &chart, true
}

// SaveChart stores a chart under the request key
func (c *Cache) SaveChart(key string, chart *pillars.Chart) error {
	payload, err := json.Marshal(chart)
	if err != nil {
		return fmt.Errorf("사주 직렬화 실패: %w", err)
	}
	return c.put("chart_cache", key, string(payload), c.chartTTL)
}

// SourceKey builds the raw-payload cache key
func SourceKey(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// GetSource returns a cached raw source response, honoring the TTL
func (c *Cache) GetSource(year, month, day int) (*manse.Response, bool) {
	return c.getSource(year, month, day, false)
}

// GetSourceStale returns a cached raw source response even past its TTL.
// 주소스 장애 시 폴백 값으로 사용
func (c *Cache) GetSourceStale(year, month, day int) (*manse.Response, bool) {
	return c.getSource(year, month, day, true)
}

func (c *Cache) getSource(year, month, day int, allowStale bool) (*manse.Response, bool) {
	payload, expires, err := c.get("source_cache", SourceKey(year, month, day))
	if err != nil {
		return nil, false
	}
	if !allowStale && time.Now().After(expires) {
		return nil, false
	}
	var resp manse.Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// SaveSource stores a raw source response
func (c *Cache) SaveSource(year, month, day int, resp *manse.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("응답 직렬화 실패: %w", err)
	}
	return c.put("source_cache", SourceKey(year, month, day), string(payload), c.sourceTTL)
}

// Clear removes all cached entries and returns the number deleted
func (c *Cache) Clear() (int64, error) {
	var total int64
	for _, table := range []string{"chart_cache", "source_cache"} {
		res, err := c.db.Exec(`DELETE FROM ` + table)
		if err != nil {
			return total, fmt.Errorf("%s 비우기 실패: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	return total, nil
}

func (c *Cache) get(table, key string) (string, time.Time, error) {
	var payload string
	var expires time.Time
	err := c.db.QueryRow(
		`SELECT payload, expires_at FROM `+table+` WHERE key = ?`, key,
	).Scan(&payload, &expires)
	if err == sql.ErrNoRows {
		return "", time.Time{}, err
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return payload, expires, nil
}

func (c *Cache) put(table, key, payload string, ttl time.Duration) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO `+table+` (key, payload, expires_at) VALUES (?, ?, ?)`,
		key, payload, time.Now().UTC().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("%s 저장 실패: %w", table, err)
	}
	return nil
}
