// internal/domain/models/contribution.go
package models

// Platform identifies one of the external coding platforms a user can link.
type Platform string

const (
	PlatformGitHub        Platform = "github"
	PlatformLeetCode      Platform = "leetcode"
	PlatformCodeforces    Platform = "codeforces"
	PlatformCodeChef      Platform = "codechef"
	PlatformGeeksforGeeks Platform = "geeksforgeeks"
)

// AllPlatforms returns the supported platforms in display order.
// The aggregator emits warnings in this order, so it is stable.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformGitHub,
		PlatformLeetCode,
		PlatformCodeforces,
		PlatformCodeChef,
		PlatformGeeksforGeeks,
	}
}

// IsValidPlatform checks if a platform identifier is supported.
func IsValidPlatform(p Platform) bool {
	for _, known := range AllPlatforms() {
		if p == known {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable platform name used in warnings.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformGitHub:
		return "GitHub"
	case PlatformLeetCode:
		return "LeetCode"
	case PlatformCodeforces:
		return "Codeforces"
	case PlatformCodeChef:
		return "CodeChef"
	case PlatformGeeksforGeeks:
		return "GeeksforGeeks"
	}
	return string(p)
}

// ContributionDay is one platform's activity count on one calendar day.
// Date is always a UTC calendar date in YYYY-MM-DD form.
type ContributionDay struct {
	Date  string `bson:"date" json:"date"`
	Count int    `bson:"count" json:"count"`
}

// ServiceSeries is a gap-free daily series for a single platform.
// Samples holds exactly one entry per calendar day in [StartDate, EndDate].
type ServiceSeries struct {
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Samples   []ContributionDay `json:"samples"`
}

// ContributionSample is one merged day: the summed total plus the
// per-platform breakdown. A platform absent from Sources contributed
// nothing that day; once merged, "no data" and "zero activity" are
// indistinguishable.
type ContributionSample struct {
	Date    string           `json:"date"`
	Total   int              `json:"total"`
	Sources map[Platform]int `json:"sources"`
}

// ContributionSeries is the merged multi-platform series rendered on a
// profile, one ContributionSample per calendar day in [StartDate, EndDate].
type ContributionSeries struct {
	StartDate string               `json:"startDate"`
	EndDate   string               `json:"endDate"`
	Samples   []ContributionSample `json:"samples"`
}

// ActivityStats are derived from a merged series on every aggregation call.
// They are never persisted.
type ActivityStats struct {
	LongestStreak      int `json:"longestStreak"`
	ConsistencyScore   int `json:"consistencyScore"`
	ActiveDaysInWindow int `json:"activeDaysInWindow"`
	WindowDays         int `json:"windowDays"`
}
