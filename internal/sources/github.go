// Package sources turns repository references into favorites input.
package sources

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/user/gitstar/internal/favorites"
)

const githubBaseURL = "https://github.com"

var ErrNotRepository = errors.New("not a GitHub repository")

// reservedPaths are top-level GitHub paths that look like an owner but are not.
var reservedPaths = map[string]bool{
	"settings": true, "organizations": true, "orgs": true, "users": true,
	"login": true, "join": true, "pricing": true, "features": true,
	"marketplace": true, "explore": true, "topics": true, "trending": true,
	"collections": true, "events": true, "sponsors": true, "notifications": true,
	"new": true, "codespaces": true, "search": true, "pulls": true,
	"issues": true, "discussions": true, "actions": true, "projects": true,
	"security": true, "insights": true, "wiki": true,
}

// ParseGitHubRepo accepts:
//   - "owner/name"
//   - "github.com/owner/name"
//   - "https://github.com/owner/name/tree/main/docs"
//   - "git@github.com:owner/name.git"
func ParseGitHubRepo(ref string) (*favorites.RepoSummary, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotRepository)
	}

	var segments []string
	switch {
	case strings.HasPrefix(ref, "git@github.com:"):
		segments = splitPath(strings.TrimPrefix(ref, "git@github.com:"))
	case strings.Contains(ref, "://"), strings.HasPrefix(ref, "github.com/"), strings.HasPrefix(ref, "www.github.com/"):
		if !strings.Contains(ref, "://") {
			ref = "https://" + ref
		}
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotRepository, err)
		}
		host := strings.ToLower(u.Hostname())
		if host != "github.com" && host != "www.github.com" {
			return nil, fmt.Errorf("%w: host %s", ErrNotRepository, host)
		}
		segments = splitPath(u.Path)
	default:
		segments = splitPath(ref)
		if len(segments) != 2 {
			return nil, fmt.Errorf("%w: expected owner/name, got %q", ErrNotRepository, ref)
		}
	}

	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: %q has no owner/name", ErrNotRepository, ref)
	}
	owner := segments[0]
	name := strings.TrimSuffix(segments[1], ".git")
	if owner == "" || name == "" {
		return nil, fmt.Errorf("%w: %q has no owner/name", ErrNotRepository, ref)
	}
	if reservedPaths[strings.ToLower(owner)] {
		return nil, fmt.Errorf("%w: /%s is a GitHub page", ErrNotRepository, owner)
	}

	return &favorites.RepoSummary{
		ID:    owner + "/" + name,
		Owner: owner,
		Name:  name,
		URL:   fmt.Sprintf("%s/%s/%s", githubBaseURL, owner, name),
	}, nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
