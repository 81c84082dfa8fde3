package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mionacs/ayycode/internal/app/contrib"
)

// GitHubConfig configures the GitHub adapter. Token is a server-side token
// used for the GraphQL contribution calendar; without one the adapter falls
// back to the public contributions endpoint, which needs no auth but is a
// third-party mirror.
type GitHubConfig struct {
	Token       string
	GraphQLURL  string
	FallbackURL string
}

const (
	defaultGitHubGraphQLURL  = "https://api.github.com/graphql"
	defaultGitHubFallbackURL = "https://github-contributions-api.jogruber.de/v4"
)

// GitHubFetcher pulls one calendar year of contribution counts for a GitHub
// login. It implements contrib.Fetcher.
type GitHubFetcher struct {
	cfg      GitHubConfig
	client   *http.Client
	graphql  *http.Client
	hasToken bool
}

// NewGitHubFetcher builds the adapter. When cfg.Token is set the GraphQL
// client carries it via oauth2; the plain client serves the fallback.
func NewGitHubFetcher(cfg GitHubConfig) *GitHubFetcher {
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = defaultGitHubGraphQLURL
	}
	if cfg.FallbackURL == "" {
		cfg.FallbackURL = defaultGitHubFallbackURL
	}

	f := &GitHubFetcher{
		cfg:    cfg,
		client: newHTTPClient(),
	}
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		f.graphql = oauth2.NewClient(context.Background(), src)
		f.graphql.Timeout = f.client.Timeout
		f.hasToken = true
	}
	return f
}

const contributionCalendarQuery = `
query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        weeks {
          contributionDays {
            date
            contributionCount
          }
        }
      }
    }
  }
}`

type githubCalendarResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					Weeks []struct {
						ContributionDays []struct {
							Date              string `json:"date"`
							ContributionCount int    `json:"contributionCount"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchYear returns the login's day→count map for one calendar year.
func (f *GitHubFetcher) FetchYear(ctx context.Context, identity string, year int) (map[string]int, error) {
	login := strings.TrimSpace(identity)
	if login == "" {
		return nil, fmt.Errorf("github: empty login")
	}

	if f.hasToken {
		values, err := f.fetchGraphQL(ctx, login, year)
		if err == nil {
			return values, nil
		}
		// GraphQL failure is not terminal; the mirror may still answer.
	}
	return f.fetchFallback(ctx, login, year)
}

func (f *GitHubFetcher) fetchGraphQL(ctx context.Context, login string, year int) (map[string]int, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	payload, err := json.Marshal(map[string]any{
		"query": contributionCalendarQuery,
		"variables": map[string]any{
			"login": login,
			"from":  from.Format(time.RFC3339),
			"to":    to.Format(time.RFC3339),
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

	var body githubCalendarResponse
	if err := doJSON(ctx, f.graphql, req, &body); err != nil {
		return nil, err
	}
	if len(body.Errors) > 0 {
		return nil, fmt.Errorf("github graphql: %s", body.Errors[0].Message)
	}
	if body.Data.User == nil {
		return nil, fmt.Errorf("github: user %q not found", login)
	}

	values := make(map[string]int)
	for _, week := range body.Data.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			if day.ContributionCount > 0 {
				values[day.Date] = day.ContributionCount
			}
		}
	}
	return values, nil
}

type githubFallbackResponse struct {
	Contributions []struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	} `json:"contributions"`
}

func (f *GitHubFetcher) fetchFallback(ctx context.Context, login string, year int) (map[string]int, error) {
	u := fmt.Sprintf("%s/%s?y=%d", f.cfg.FallbackURL, url.PathEscape(login), year)
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var body githubFallbackResponse
	if err := doJSON(ctx, f.client, req, &body); err != nil {
		return nil, err
	}

	values := make(map[string]int)
	for _, day := range body.Contributions {
		if day.Count > 0 {
			values[day.Date] = day.Count
		}
	}
	return values, nil
}

var _ contrib.Fetcher = (*GitHubFetcher)(nil)
