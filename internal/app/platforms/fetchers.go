package platforms

import (
	"github.com/mionacs/ayycode/internal/app/contrib"
	"github.com/mionacs/ayycode/internal/domain/models"
)

// Config aggregates the per-platform adapter settings for bootstrap.
type Config struct {
	GitHub        GitHubConfig
	LeetCode      LeetCodeConfig
	Codeforces    CodeforcesConfig
	CodeChef      CodeChefConfig
	GeeksforGeeks GeeksforGeeksConfig
}

// NewFetchers builds one fetch adapter per supported platform.
func NewFetchers(cfg Config) map[models.Platform]contrib.Fetcher {
	return map[models.Platform]contrib.Fetcher{
		models.PlatformGitHub:        NewGitHubFetcher(cfg.GitHub),
		models.PlatformLeetCode:      NewLeetCodeFetcher(cfg.LeetCode),
		models.PlatformCodeforces:    NewCodeforcesFetcher(cfg.Codeforces),
		models.PlatformCodeChef:      NewCodeChefFetcher(cfg.CodeChef),
		models.PlatformGeeksforGeeks: NewGeeksforGeeksFetcher(cfg.GeeksforGeeks),
	}
}
