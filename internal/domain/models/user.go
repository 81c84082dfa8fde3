// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Username: The public profile handle (lowercase, shareable at /u/{username})
//   - Identity: The username/handle the user holds on an external platform

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account whose coding activity is aggregated.
//
// Authentication fields (email verification, OAuth accounts, password
// hashes) live with the sign-in service; this service only needs the
// identity fields and the platform connections.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Email    string             `bson:"email" json:"email"`

	// Username is the public profile handle (lowercase). UsernameCI is kept
	// lowercase for case-insensitive lookups and carries the unique index.
	Username   string `bson:"username,omitempty" json:"username,omitempty"`
	UsernameCI string `bson:"username_ci,omitempty" json:"-"`

	Connections ConnectionSet `bson:"connections,omitempty" json:"connections,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ConnectionSet holds the optional per-platform connections. A nil entry
// means "not connected"; a present entry with a non-empty identity means
// "attempt fetch" even if the profile turns out to be unreachable.
type ConnectionSet struct {
	GitHub        *GitHubConnection        `bson:"github,omitempty" json:"github,omitempty"`
	LeetCode      *LeetCodeConnection      `bson:"leetcode,omitempty" json:"leetcode,omitempty"`
	Codeforces    *CodeforcesConnection    `bson:"codeforces,omitempty" json:"codeforces,omitempty"`
	CodeChef      *CodeChefConnection      `bson:"codechef,omitempty" json:"codechef,omitempty"`
	GeeksforGeeks *GeeksforGeeksConnection `bson:"geeksforgeeks,omitempty" json:"geeksforgeeks,omitempty"`
}

// GitHubConnection records a linked GitHub account.
type GitHubConnection struct {
	Username     string     `bson:"username" json:"username"`
	ProfileURL   string     `bson:"profile_url,omitempty" json:"profile_url,omitempty"`
	AvatarURL    string     `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	PublicRepos  int        `bson:"public_repos,omitempty" json:"public_repos,omitempty"`
	Followers    int        `bson:"followers,omitempty" json:"followers,omitempty"`
	TotalStars   int        `bson:"total_stars,omitempty" json:"total_stars,omitempty"`
	TopLanguage  string     `bson:"top_language,omitempty" json:"top_language,omitempty"`
	LastSyncedAt *time.Time `bson:"last_synced_at,omitempty" json:"last_synced_at,omitempty"`
}

// LeetCodeConnection records a linked LeetCode account.
type LeetCodeConnection struct {
	Username      string     `bson:"username" json:"username"`
	TotalSolved   int        `bson:"total_solved,omitempty" json:"total_solved,omitempty"`
	ContestRating int        `bson:"contest_rating,omitempty" json:"contest_rating,omitempty"`
	Ranking       int        `bson:"ranking,omitempty" json:"ranking,omitempty"`
	Badges        int        `bson:"badges,omitempty" json:"badges,omitempty"`
	LastSyncedAt  *time.Time `bson:"last_synced_at,omitempty" json:"last_synced_at,omitempty"`
}

// CodeforcesConnection records a linked Codeforces account. Codeforces
// calls its identity a "handle".
type CodeforcesConnection struct {
	Handle        string     `bson:"handle" json:"handle"`
	Rating        int        `bson:"rating,omitempty" json:"rating,omitempty"`
	MaxRating     int        `bson:"max_rating,omitempty" json:"max_rating,omitempty"`
	Rank          string     `bson:"rank,omitempty" json:"rank,omitempty"`
	LastContestAt *time.Time `bson:"last_contest_at,omitempty" json:"last_contest_at,omitempty"`
	LastSyncedAt  *time.Time `bson:"last_synced_at,omitempty" json:"last_synced_at,omitempty"`
}

// CodeChefConnection records a linked CodeChef account.
type CodeChefConnection struct {
	Username      string     `bson:"username" json:"username"`
	Rating        int        `bson:"rating,omitempty" json:"rating,omitempty"`
	HighestRating int        `bson:"highest_rating,omitempty" json:"highest_rating,omitempty"`
	Stars         string     `bson:"stars,omitempty" json:"stars,omitempty"`
	LastSyncedAt  *time.Time `bson:"last_synced_at,omitempty" json:"last_synced_at,omitempty"`
}

// GeeksforGeeksConnection records a linked GeeksforGeeks account.
type GeeksforGeeksConnection struct {
	Username     string     `bson:"username" json:"username"`
	CodingScore  int        `bson:"coding_score,omitempty" json:"coding_score,omitempty"`
	SolvedCount  int        `bson:"solved_count,omitempty" json:"solved_count,omitempty"`
	LastSyncedAt *time.Time `bson:"last_synced_at,omitempty" json:"last_synced_at,omitempty"`
}

// Identity returns the identity string the user has linked for a platform,
// or "" when that platform is not connected. Presence of an identity is the
// only thing the aggregation core cares about; the extra fields above are
// profile-card data maintained by the sync endpoints.
func (c ConnectionSet) Identity(p Platform) string {
	switch p {
	case PlatformGitHub:
		if c.GitHub != nil {
			return c.GitHub.Username
		}
	case PlatformLeetCode:
		if c.LeetCode != nil {
			return c.LeetCode.Username
		}
	case PlatformCodeforces:
		if c.Codeforces != nil {
			return c.Codeforces.Handle
		}
	case PlatformCodeChef:
		if c.CodeChef != nil {
			return c.CodeChef.Username
		}
	case PlatformGeeksforGeeks:
		if c.GeeksforGeeks != nil {
			return c.GeeksforGeeks.Username
		}
	}
	return ""
}
