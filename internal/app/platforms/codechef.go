package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mionacs/ayycode/internal/app/contrib"
)

// CodeChefConfig configures the CodeChef adapter. CodeChef has no public
// submissions API; the heatmap data is scraped from an inline script on the
// profile page.
type CodeChefConfig struct {
	BaseURL string
}

const defaultCodeChefBaseURL = "https://www.codechef.com/users/"

// CodeChefFetcher scrapes daily submission counts from a CodeChef profile
// page. It implements contrib.Fetcher.
type CodeChefFetcher struct {
	cfg    CodeChefConfig
	client *http.Client
}

func NewCodeChefFetcher(cfg CodeChefConfig) *CodeChefFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCodeChefBaseURL
	}
	return &CodeChefFetcher{cfg: cfg, client: newHTTPClient()}
}

var codechefStatsRe = regexp.MustCompile(`(?s)var\s+userDailySubmissionsStats\s*=\s*(\[.*?\]);`)

type codechefDailyStat struct {
	Date  string          `json:"date"`
	Value json.RawMessage `json:"value"`
}

// FetchYear scrapes the profile page and returns the username's submission
// counts per day. The heatmap covers all years on one page; counts outside
// the requested year come back too and are ignored downstream.
func (f *CodeChefFetcher) FetchYear(ctx context.Context, identity string, year int) (map[string]int, error) {
	username := strings.TrimSpace(identity)
	if username == "" {
		return nil, fmt.Errorf("codechef: empty username")
	}

	page, err := fetchPage(ctx, f.client, f.cfg.BaseURL+url.PathEscape(username))
	if err != nil {
		return nil, err
	}

	match := codechefStatsRe.FindStringSubmatch(page)
	if match == nil {
		return nil, fmt.Errorf("codechef: submission stats not found on profile page")
	}

	var stats []codechefDailyStat
	if err := json.Unmarshal([]byte(match[1]), &stats); err != nil {
		return nil, fmt.Errorf("codechef: bad submission stats: %w", err)
	}

	values := make(map[string]int)
	for _, stat := range stats {
		date, ok := normalizeCodeChefDate(stat.Date)
		if !ok {
			continue
		}
		count, ok := parseLooseCount(stat.Value)
		if !ok {
			continue
		}
		values[date] += count
	}
	return values, nil
}

// normalizeCodeChefDate pads a loose y-m-d string to ISO form.
func normalizeCodeChefDate(raw string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 3 {
		return "", false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// parseLooseCount accepts the count as either a JSON number or a numeric
// string, clamping negatives to zero.
func parseLooseCount(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return max(0, int(n)), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		parsed, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, false
		}
		return max(0, parsed), true
	}
	return 0, false
}

var _ contrib.Fetcher = (*CodeChefFetcher)(nil)
