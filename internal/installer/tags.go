package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// tagsPerPage is the page size requested from the tag listing API.
	tagsPerPage = 100

	// maxTagPages bounds pagination so a misbehaving endpoint cannot stall
	// the run.
	maxTagPages = 3
)

// TagLister enumerates the published release tags of the SDK-fetching tool.
type TagLister interface {
	ListTags(ctx context.Context) ([]string, error)
}

// GitHubTagLister reads tags from the GitHub tags API of the aqtinstall
// repository.
type GitHubTagLister struct {
	BaseURL string
	Client  *http.Client
}

// NewGitHubTagLister builds a lister against api.github.com with a bounded
// request timeout.
func NewGitHubTagLister() *GitHubTagLister {
	return &GitHubTagLister{
		BaseURL: "https://api.github.com/repos/miurahr/aqtinstall",
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type tagEntry struct {
	Name string `json:"name"`
}

// ListTags fetches up to maxTagPages pages of tags, newest first.
func (g *GitHubTagLister) ListTags(ctx context.Context) ([]string, error) {
	var tags []string
	for page := 1; page <= maxTagPages; page++ {
		endpoint := fmt.Sprintf("%s/tags?per_page=%d&page=%d", strings.TrimRight(g.BaseURL, "/"), tagsPerPage, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("User-Agent", "qtsetup/1.0")

		resp, err := g.Client.Do(req)
		if err != nil {
			return nil, err
		}

		var entries []tagEntry
		err = json.NewDecoder(resp.Body).Decode(&entries)
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("tag listing failed: %s", resp.Status)
		}
		if err != nil {
			return nil, fmt.Errorf("decode tag listing: %w", err)
		}

		for _, e := range entries {
			if e.Name != "" {
				tags = append(tags, e.Name)
			}
		}
		if len(entries) < tagsPerPage {
			break
		}
	}
	return tags, nil
}

// highestMatching picks the greatest tag under semantic-version ordering
// whose version starts with "<base>.". Tag names may carry a leading "v".
func highestMatching(tags []string, base string) string {
	best := ""
	for _, tag := range tags {
		version := strings.TrimPrefix(tag, "v")
		if !strings.HasPrefix(version, base+".") {
			continue
		}
		if !semver.IsValid("v" + version) {
			continue
		}
		if best == "" || semver.Compare("v"+version, "v"+best) > 0 {
			best = version
		}
	}
	return best
}
