package platforms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mionacs/ayycode/internal/app/contrib"
)

// CodeforcesConfig configures the Codeforces adapter.
type CodeforcesConfig struct {
	BaseURL string
}

const defaultCodeforcesBaseURL = "https://codeforces.com/api"

// Submission listing is paged. Heavy users have tens of thousands of
// submissions, so the per-year walk is capped; anything older than the
// page cap allows is simply not counted.
const (
	codeforcesPageSize = 1000
	codeforcesMaxPages = 30
)

// CodeforcesFetcher counts a handle's accepted submissions per day by
// walking the user.status listing. It implements contrib.Fetcher.
type CodeforcesFetcher struct {
	cfg    CodeforcesConfig
	client *http.Client
}

func NewCodeforcesFetcher(cfg CodeforcesConfig) *CodeforcesFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCodeforcesBaseURL
	}
	return &CodeforcesFetcher{cfg: cfg, client: newHTTPClient()}
}

type codeforcesStatusResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  []struct {
		CreationTimeSeconds int64  `json:"creationTimeSeconds"`
		Verdict             string `json:"verdict"`
	} `json:"result"`
}

// FetchYear returns the handle's accepted-submission counts per day for one
// calendar year. user.status returns newest first, so the walk stops as
// soon as a page reaches past the start of the year.
func (f *CodeforcesFetcher) FetchYear(ctx context.Context, identity string, year int) (map[string]int, error) {
	handle := strings.TrimSpace(identity)
	if handle == "" {
		return nil, fmt.Errorf("codeforces: empty handle")
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	yearEnd := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()

	values := make(map[string]int)
	from := 1
	for page := 0; page < codeforcesMaxPages; page++ {
		body, err := f.fetchStatusPage(ctx, handle, from)
		if err != nil {
			return nil, err
		}
		if len(body.Result) == 0 {
			break
		}

		reachedOlder := false
		for _, sub := range body.Result {
			ts := sub.CreationTimeSeconds
			if ts > yearEnd {
				continue
			}
			if ts < yearStart {
				reachedOlder = true
				continue
			}
			if sub.Verdict != "OK" {
				continue
			}
			date := contrib.ToISODate(time.Unix(ts, 0).UTC())
			values[date]++
		}

		if reachedOlder || len(body.Result) < codeforcesPageSize {
			break
		}
		from += len(body.Result)
	}
	return values, nil
}

func (f *CodeforcesFetcher) fetchStatusPage(ctx context.Context, handle string, from int) (*codeforcesStatusResponse, error) {
	u := f.cfg.BaseURL + "/user.status?handle=" + url.QueryEscape(handle) +
		"&from=" + strconv.Itoa(from) +
		"&count=" + strconv.Itoa(codeforcesPageSize)

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var body codeforcesStatusResponse
	if err := doJSON(ctx, f.client, req, &body); err != nil {
		return nil, err
	}
	if body.Status != "OK" {
		if body.Comment != "" {
			return nil, fmt.Errorf("codeforces: %s", body.Comment)
		}
		return nil, fmt.Errorf("codeforces: status %s", body.Status)
	}
	return &body, nil
}

var _ contrib.Fetcher = (*CodeforcesFetcher)(nil)
