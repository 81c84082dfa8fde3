package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mionacs/ayycode/internal/app/contrib"
)

// LeetCodeConfig configures the LeetCode adapter. Session and CSRFToken are
// optional cookies; the calendar query answers for public profiles without
// them, but authenticated requests are throttled less aggressively.
type LeetCodeConfig struct {
	GraphQLURL string
	Session    string
	CSRFToken  string
}

const defaultLeetCodeGraphQLURL = "https://leetcode.com/graphql"

// LeetCodeFetcher pulls a user's submission calendar for one year. It
// implements contrib.Fetcher.
type LeetCodeFetcher struct {
	cfg    LeetCodeConfig
	client *http.Client
}

func NewLeetCodeFetcher(cfg LeetCodeConfig) *LeetCodeFetcher {
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = defaultLeetCodeGraphQLURL
	}
	return &LeetCodeFetcher{cfg: cfg, client: newHTTPClient()}
}

const leetcodeCalendarQuery = `
query userProfileCalendar($username: String!, $year: Int) {
  userCalendar(username: $username, year: $year) {
    calendarData
  }
}`

type leetcodeCalendarResponse struct {
	Data struct {
		UserCalendar *struct {
			CalendarData string `json:"calendarData"`
		} `json:"userCalendar"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchYear returns the username's day→count map for one calendar year.
// calendarData arrives as a JSON object keyed by unix timestamps.
func (f *LeetCodeFetcher) FetchYear(ctx context.Context, identity string, year int) (map[string]int, error) {
	username := strings.TrimSpace(identity)
	if username == "" {
		return nil, fmt.Errorf("leetcode: empty username")
	}

	payload, err := json.Marshal(map[string]any{
		"query": leetcodeCalendarQuery,
		"variables": map[string]any{
			"username": username,
			"year":     year,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, f.cfg.GraphQLURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com")
	f.addSessionHeaders(req)

	var body leetcodeCalendarResponse
	if err := doJSON(ctx, f.client, req, &body); err != nil {
		return nil, err
	}
	if len(body.Errors) > 0 {
		return nil, fmt.Errorf("leetcode graphql: %s", body.Errors[0].Message)
	}
	if body.Data.UserCalendar == nil {
		return nil, fmt.Errorf("leetcode: user %q has no calendar", username)
	}

	return parseLeetCodeCalendar(body.Data.UserCalendar.CalendarData)
}

func (f *LeetCodeFetcher) addSessionHeaders(req *http.Request) {
	var cookies []string
	if f.cfg.Session != "" {
		cookies = append(cookies, "LEETCODE_SESSION="+f.cfg.Session)
	}
	if f.cfg.CSRFToken != "" {
		cookies = append(cookies, "csrftoken="+f.cfg.CSRFToken)
		req.Header.Set("x-csrftoken", f.cfg.CSRFToken)
	}
	if len(cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(cookies, "; "))
	}
}

// parseLeetCodeCalendar decodes the stringified {"<unix>":count,...} object
// into ISO-dated counts. Unparseable keys are skipped, not fatal.
func parseLeetCodeCalendar(data string) (map[string]int, error) {
	values := make(map[string]int)
	if data == "" {
		return values, nil
	}

	var raw map[string]int
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("leetcode: bad calendar data: %w", err)
	}

	for key, count := range raw {
		ts, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		date := contrib.ToISODate(time.Unix(ts, 0).UTC())
		if count > 0 {
			values[date] += count
		}
	}
	return values, nil
}

var _ contrib.Fetcher = (*LeetCodeFetcher)(nil)
