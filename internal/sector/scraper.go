// Package sector scrapes the industry-sector board from a web listing
// that paginates behind a "next page" control. It drives an
// already-running Chrome over its remote debugging endpoint and keeps a
// per-day cache of the last full scrape.
package sector

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"

	"github.com/dyike/quotebridge/config"
	"github.com/dyike/quotebridge/internal/model"
)

const boardListURL = "https://quote.eastmoney.com/center/gridlist.html#industry_board"

// Pager scripts. The listing renders its pager client-side; the "next
// page" anchor is identified by its title attribute.
const (
	hasNextJS = `Array.from(document.querySelectorAll('.qtpager a')).some(el => el.getAttribute('title') === '下一页')`

	clickNextJS = `(() => {
		const next = Array.from(document.querySelectorAll('.qtpager a'))
			.find(el => el.getAttribute('title') === '下一页');
		if (next) next.click();
	})()`
)

// Scraper extracts the complete deduplicated sector table. It attaches
// to an existing browser; it never launches one.
type Scraper struct {
	debugURL   string
	settle     time.Duration
	navTimeout time.Duration
	cache      *DailyCache
	probe      *resty.Client
}

func NewScraper(cfg *config.Config) *Scraper {
	probe := resty.New()
	probe.SetTimeout(5 * time.Second)

	return &Scraper{
		debugURL:   cfg.ChromeDebugURL,
		settle:     cfg.ScrapeSettle,
		navTimeout: cfg.NavTimeout,
		cache:      NewDailyCache(cfg.DataDir, cfg.CacheEnabled),
		probe:      probe,
	}
}

// Available reports whether the remote debugging endpoint answers.
func (s *Scraper) Available() bool {
	resp, err := s.probe.R().Get(s.debugURL + "/json/version")
	return err == nil && resp.StatusCode() == 200
}

// IndustrySectors returns every sector row on the board, walking the
// pager until no new names appear. The scrape is best-effort: any
// failure logs the remediation and yields an empty result rather than
// an error, since this is a supplementary source.
func (s *Scraper) IndustrySectors(ctx context.Context) []model.SectorRow {
	if rows, ok := s.cache.Load(); ok {
		log.Printf("[chrome] using cached sectors (%d rows)", len(rows))
		return rows
	}

	if !s.Available() {
		s.logRemediation()
		return nil
	}

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, s.debugURL)
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	// Closing the tab and detaching happens on every exit path.
	defer cancelAlloc()
	defer cancelTask()

	navCtx, cancelNav := context.WithTimeout(taskCtx, s.navTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx,
		chromedp.Navigate(boardListURL),
		chromedp.Sleep(s.settle),
	); err != nil {
		log.Printf("[chrome] navigation failed: %v", err)
		s.logRemediation()
		return nil
	}

	var all []model.SectorRow
	seen := make(map[string]bool)

	for page := 1; ; page++ {
		var html string
		if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html)); err != nil {
			log.Printf("[chrome] page %d extraction failed: %v", page, err)
			break
		}

		rows := extractRows(html)
		if len(rows) == 0 {
			log.Printf("[chrome] page %d has no data, stopping", page)
			break
		}

		var added int
		all, added = appendNew(all, seen, rows)
		if added == 0 {
			// Either the pager is exhausted or the site re-rendered the
			// same page; the two are indistinguishable by name dedup.
			log.Printf("[chrome] no new sectors on page %d, pagination done (%d total)", page, len(all))
			break
		}
		log.Printf("[chrome] page %d added %d sectors (%d total)", page, added, len(all))

		var hasNext bool
		if err := chromedp.Run(taskCtx, chromedp.Evaluate(hasNextJS, &hasNext)); err != nil {
			log.Printf("[chrome] pager check failed: %v", err)
			break
		}
		if !hasNext {
			log.Printf("[chrome] no next-page control, pagination done (%d total)", len(all))
			break
		}

		if err := chromedp.Run(taskCtx,
			chromedp.Evaluate(clickNextJS, nil),
			chromedp.Sleep(s.settle),
		); err != nil {
			log.Printf("[chrome] next-page click failed: %v", err)
			break
		}
	}

	if len(all) > 0 {
		if err := s.cache.Store(all); err != nil {
			log.Printf("[chrome] sector cache write failed: %v", err)
		} else {
			log.Printf("[chrome] cached %d sectors", len(all))
		}
	}
	return all
}

func (s *Scraper) logRemediation() {
	log.Printf("[chrome] cannot reach remote debugging endpoint %s", s.debugURL)
	log.Printf("[chrome] start Chrome with --remote-debugging-port=9222 (and a dedicated --user-data-dir), then retry")
}

// extractRows parses the first table with more than one data row out of
// the rendered page.
func extractRows(html string) []model.SectorRow {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var rows []model.SectorRow
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		trs := table.Find("tbody tr")
		if trs.Length() <= 1 {
			return true // keep looking
		}
		trs.Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() < 12 {
				return
			}
			name := cellText(cells, 1)
			if name == "" {
				return
			}
			rows = append(rows, model.SectorRow{
				Name:           name,
				Price:          parseNumber(cellText(cells, 3)),
				ChangeAmount:   parseNumber(cellText(cells, 4)),
				PctChg:         parsePercent(cellText(cells, 5)),
				Turnover:       parseAmount(cellText(cells, 6)),
				AdvanceDecline: cellText(cells, 8) + "/" + cellText(cells, 9),
				Leader:         cellText(cells, 10),
				LeaderPctChg:   parsePercent(cellText(cells, 11)),
			})
		})
		return false
	})
	return rows
}

// appendNew accumulates rows whose sector names have not been collected
// this session and reports how many were added.
func appendNew(all []model.SectorRow, seen map[string]bool, rows []model.SectorRow) ([]model.SectorRow, int) {
	added := 0
	for _, row := range rows {
		if seen[row.Name] {
			continue
		}
		seen[row.Name] = true
		all = append(all, row)
		added++
	}
	return all, added
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}
