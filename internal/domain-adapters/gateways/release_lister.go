// Package gateways implements adapters to the release registry, the release store
// and the local compatibility test script.
package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces/gateways"
)

var _ gateways.ReleaseLister = (*GitHubReleaseLister)(nil)

// GitHubReleaseLister lists release tags through the GitHub REST API
type GitHubReleaseLister struct {
	httpClient *http.Client
	baseURL    string
	repository string
	perPage    int
	token      string
	logger     interfaces.Logger
}

// NewGitHubReleaseLister creates a lister for owner/repo on the given API base URL
func NewGitHubReleaseLister(baseURL, repository string, perPage int, logger interfaces.Logger) *GitHubReleaseLister {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &GitHubReleaseLister{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:    strings.TrimRight(baseURL, "/"),
		repository: repository,
		perPage:    perPage,
		token:      tokenFromEnv(),
		logger:     logger,
	}
}

// tokenFromEnv returns GITHUB_TOKEN, falling back to GH_TOKEN
func tokenFromEnv() string {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}
	return token
}

// githubRelease is the subset of the GitHub release payload we read
type githubRelease struct {
	TagName string `json:"tag_name"`
	Draft   bool   `json:"draft"`
}

// ListReleases fetches one page of releases in API order (newest first)
func (l *GitHubReleaseLister) ListReleases(ctx context.Context) ([]entities.Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases", l.baseURL, l.repository)
	if l.perPage > 0 {
		url += "?per_page=" + strconv.Itoa(l.perPage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GitHub API request failed: %w", err)
	}
	//nolint:errcheck // Defer close
	defer resp.Body.Close()

	if err := checkRateLimit(resp, l.logger); err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return nil, fmt.Errorf("GitHub API error %d (failed to read response)", resp.StatusCode)
		}
		return nil, fmt.Errorf("GitHub API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse GitHub response: %w", err)
	}

	releases := make([]entities.Release, 0, len(payload))
	for _, r := range payload {
		releases = append(releases, entities.Release{TagName: r.TagName, Draft: r.Draft})
	}
	return releases, nil
}

// ListTags returns published release tags, newest first. Drafts have no binaries
// in the release store and are skipped.
func (l *GitHubReleaseLister) ListTags(ctx context.Context) ([]string, error) {
	releases, err := l.ListReleases(ctx)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(releases))
	for _, r := range releases {
		tag := strings.TrimSpace(r.TagName)
		if tag == "" || r.Draft {
			continue
		}
		tags = append(tags, tag)
	}

	l.logger.Debug("listed releases", interfaces.F("repository", l.repository), interfaces.F("tags", len(tags)))
	return tags, nil
}

// checkRateLimit checks GitHub API rate limit headers and returns error if exhausted
func checkRateLimit(resp *http.Response, logger interfaces.Logger) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	remainingInt, err := strconv.Atoi(remaining)
	if err != nil {
		return nil
	}

	if remainingInt == 0 {
		resetTime := resp.Header.Get("X-RateLimit-Reset")
		if resetTime != "" {
			if resetUnix, err := strconv.ParseInt(resetTime, 10, 64); err == nil {
				resetAt := time.Unix(resetUnix, 0).UTC()
				return fmt.Errorf("GitHub API rate limit exceeded (0 remaining), resets at %s", resetAt.Format(time.RFC3339))
			}
		}
		return fmt.Errorf("GitHub API rate limit exceeded (0 remaining)")
	}

	if remainingInt <= 10 {
		logger.Warn("GitHub API rate limit low", interfaces.F("remaining", remainingInt))
	}
	return nil
}
