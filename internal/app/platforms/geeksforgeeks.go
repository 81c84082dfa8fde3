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

// GeeksforGeeksConfig configures the GeeksforGeeks adapter. The profile page
// is a Next.js app; the heatmap ships inside its __NEXT_DATA__ payload.
type GeeksforGeeksConfig struct {
	BaseURL string
}

const defaultGeeksforGeeksBaseURL = "https://www.geeksforgeeks.org/user/"

// GeeksforGeeksFetcher scrapes daily practice counts from a GeeksforGeeks
// profile page. It implements contrib.Fetcher.
type GeeksforGeeksFetcher struct {
	cfg    GeeksforGeeksConfig
	client *http.Client
}

func NewGeeksforGeeksFetcher(cfg GeeksforGeeksConfig) *GeeksforGeeksFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeeksforGeeksBaseURL
	}
	return &GeeksforGeeksFetcher{cfg: cfg, client: newHTTPClient()}
}

var (
	gfgNextDataRe = regexp.MustCompile(`(?si)<script id="__NEXT_DATA__" type="application/json">(.*?)</script>`)
	isoDateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

type gfgNextData struct {
	Props struct {
		PageProps struct {
			HeatMapData struct {
				Result map[string]json.RawMessage `json:"result"`
			} `json:"heatMapData"`
		} `json:"pageProps"`
	} `json:"props"`
}

// FetchYear scrapes the profile page for one year's heatmap and returns the
// day→count map. Dates from other years in the payload mean the page served
// the wrong year's heatmap; when no in-year dates came with them, the result
// is unusable and an error is returned rather than an empty year.
func (f *GeeksforGeeksFetcher) FetchYear(ctx context.Context, identity string, year int) (map[string]int, error) {
	username := strings.TrimSpace(identity)
	if username == "" {
		return nil, fmt.Errorf("geeksforgeeks: empty username")
	}

	u := f.cfg.BaseURL + url.PathEscape(username) + "/?year=" + strconv.Itoa(year)
	page, err := fetchPage(ctx, f.client, u)
	if err != nil {
		return nil, err
	}

	match := gfgNextDataRe.FindStringSubmatch(page)
	if match == nil {
		return nil, fmt.Errorf("geeksforgeeks: __NEXT_DATA__ not found on profile page")
	}

	var data gfgNextData
	if err := json.Unmarshal([]byte(match[1]), &data); err != nil {
		return nil, fmt.Errorf("geeksforgeeks: bad page data: %w", err)
	}

	yearPrefix := fmt.Sprintf("%04d-", year)
	values := make(map[string]int)
	sawOtherYear := false
	for date, raw := range data.Props.PageProps.HeatMapData.Result {
		if !isoDateRe.MatchString(date) {
			continue
		}
		if !strings.HasPrefix(date, yearPrefix) {
			sawOtherYear = true
			continue
		}
		count, ok := parseLooseCount(raw)
		if !ok {
			continue
		}
		values[date] += count
	}

	if len(values) == 0 && sawOtherYear {
		return nil, fmt.Errorf("geeksforgeeks: heatmap served a different year than %d", year)
	}
	return values, nil
}

var _ contrib.Fetcher = (*GeeksforGeeksFetcher)(nil)
