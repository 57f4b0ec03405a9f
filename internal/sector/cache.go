package sector

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dyike/quotebridge/internal/model"
)

const cacheFileName = "industry_sectors_cache.json"

// DailyCache persists one scrape result per calendar day. A cached
// entry is valid only for reads on the same date it was written; stale
// entries are ignored, not deleted.
type DailyCache struct {
	path    string
	enabled bool
	now     func() time.Time
}

type cacheEnvelope struct {
	Date      string            `json:"date"`
	Timestamp string            `json:"timestamp"`
	Data      []model.SectorRow `json:"data"`
}

func NewDailyCache(dataDir string, enabled bool) *DailyCache {
	return &DailyCache{
		path:    filepath.Join(dataDir, cacheFileName),
		enabled: enabled,
		now:     time.Now,
	}
}

// Load returns the cached rows when caching is enabled, the cache file
// exists and it is dated today. The date field is probed before
// decoding the full row set.
func (c *DailyCache) Load() ([]model.SectorRow, bool) {
	if !c.enabled {
		return nil, false
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}

	today := c.now().Format("2006-01-02")
	if date := gjson.GetBytes(data, "date").String(); date != today {
		log.Printf("[chrome] sector cache stale (%s != %s)", date, today)
		return nil, false
	}

	var env cacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("[chrome] sector cache unreadable: %v", err)
		return nil, false
	}
	return env.Data, true
}

// Store overwrites the cache with rows tagged by the current date and
// instant. The write goes to a temp file first and is renamed into
// place so a crash cannot leave a torn cache.
func (c *DailyCache) Store(rows []model.SectorRow) error {
	if !c.enabled {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	now := c.now()
	env := cacheEnvelope{
		Date:      now.Format("2006-01-02"),
		Timestamp: now.Format(time.RFC3339),
		Data:      rows,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
