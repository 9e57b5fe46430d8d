package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

// githubAPIBaseURL is the GitHub REST v3 endpoint.
const githubAPIBaseURL = "https://api.github.com"

// Fetch limits keep one collection pass inside a reasonable slice of the
// API rate budget.
const (
	githubPRLimit      = 50
	githubRepoLimit    = 10
	githubCommitLimit  = 20
	githubReviewLimit  = 30
	githubCommentLimit = 20
)

// GitHubAdapter fetches pull requests, commits, reviews and issue
// comments for the authenticated user via the GitHub REST API.
type GitHubAdapter struct {
	store       contract.ActivityStore
	token       string
	baseURL     string
	client      *http.Client
	maxCacheAge time.Duration
}

var _ contract.ServiceAdapter = &GitHubAdapter{} // Compile-time check

// NewGitHubAdapter creates a GitHub adapter. An empty token defers
// failure to the first fetch, which reports a ConfigurationError.
func NewGitHubAdapter(store contract.ActivityStore, token string, client *http.Client, maxCacheAge time.Duration) *GitHubAdapter {
	return &GitHubAdapter{
		store:       store,
		token:       token,
		baseURL:     githubAPIBaseURL,
		client:      client,
		maxCacheAge: maxCacheAge,
	}
}

// Name implements the ServiceAdapter interface.
func (g *GitHubAdapter) Name() schema.Service {
	return schema.GitHubService
}

// TestConnection implements the ServiceAdapter interface.
func (g *GitHubAdapter) TestConnection(ctx context.Context) bool {
	if g.token == "" {
		return false
	}
	var user githubUser
	if err := g.getJSON(ctx, "test connection", g.baseURL+"/user", &user); err != nil {
		contract.LogWarn("GitHub connection test failed", err)
		return false
	}
	return user.Login != ""
}

// GetActivity implements the ServiceAdapter interface. Failures in the
// individual activity fetches are logged and skipped so a partial outage
// still yields a usable bundle; only the initial user lookup is fatal.
func (g *GitHubAdapter) GetActivity(ctx context.Context, start, end time.Time, useCache bool) (*schema.ActivityBundle, error) {
	if useCache {
		if bundle := cachedBundle(g.store, schema.GitHubService, start, end, g.maxCacheAge); bundle != nil {
			return bundle, nil
		}
	}

	if g.token == "" {
		return nil, &contract.ConfigurationError{
			Service: schema.GitHubService,
			EnvVar:  contract.EnvGitHubToken,
			Help:    "Create a Personal Access Token at https://github.com/settings/personal-access-tokens/new with read access to contents, issues and pull requests",
		}
	}

	var user githubUser
	if err := g.getJSON(ctx, "get authenticated user", g.baseURL+"/user", &user); err != nil {
		return nil, err
	}

	bundle := &schema.ActivityBundle{
		User: schema.UserInfo{
			Login: user.Login,
			Name:  user.Name,
			Email: user.Email,
		},
		Summary: map[string]any{},
	}

	prs, prsMerged := g.fetchPullRequests(ctx, user.Login, start, end)
	bundle.Activities = append(bundle.Activities, prs...)
	bundle.Summary["prs_created"] = len(prs)
	bundle.Summary["prs_merged"] = prsMerged

	commits := g.fetchCommits(ctx, user.Login, start, end)
	bundle.Activities = append(bundle.Activities, commits...)
	bundle.Summary["commits"] = len(commits)

	reviews := g.fetchReviews(ctx, user.Login, start, end)
	bundle.Activities = append(bundle.Activities, reviews...)
	bundle.Summary["reviews_given"] = len(reviews)

	comments := g.fetchIssueComments(ctx, user.Login, start, end)
	bundle.Activities = append(bundle.Activities, comments...)
	bundle.Summary["issues_commented"] = len(comments)

	bundle.Summary["repos_contributed"] = contributedRepos(bundle.Activities)

	storeBundle(g.store, schema.GitHubService, bundle, start, end)
	return bundle, nil
}

// fetchPullRequests searches for PRs authored by the user in the window.
// The second return value counts how many of them were merged.
func (g *GitHubAdapter) fetchPullRequests(ctx context.Context, login string, start, end time.Time) ([]schema.ActivityEvent, int) {
	query := fmt.Sprintf("author:%s type:pr created:%s..%s", login, start.Format("2006-01-02"), end.Format("2006-01-02"))
	items, err := g.searchIssues(ctx, "search pull requests", query, githubPRLimit)
	if err != nil {
		contract.LogWarn("error fetching pull requests", err)
		return nil, 0
	}

	merged := 0
	events := make([]schema.ActivityEvent, 0, len(items))
	for _, item := range items {
		if item.merged() {
			merged++
		}
		events = append(events, schema.ActivityEvent{
			Service:   schema.GitHubService,
			Type:      schema.PullRequestActivity,
			Title:     item.Title,
			URL:       item.HTMLURL,
			CreatedAt: item.CreatedAt,
			Repo:      repoNameFromURL(item.RepositoryURL),
			Labels:    item.labelNames(),
		})
	}
	return events, merged
}

// fetchCommits walks the user's most recently updated repos and lists
// their commits in the window.
func (g *GitHubAdapter) fetchCommits(ctx context.Context, login string, start, end time.Time) []schema.ActivityEvent {
	reposURL := fmt.Sprintf("%s/user/repos?type=owner&sort=updated&per_page=%d", g.baseURL, githubRepoLimit)
	var repos []githubRepo
	if err := g.getJSON(ctx, "list repositories", reposURL, &repos); err != nil {
		contract.LogWarn("error fetching repositories", err)
		return nil
	}

	var events []schema.ActivityEvent
	for _, repo := range repos {
		commitsURL := fmt.Sprintf("%s/repos/%s/commits?author=%s&since=%s&until=%s&per_page=%d",
			g.baseURL, repo.FullName, url.QueryEscape(login),
			start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), githubCommitLimit)

		var commits []githubCommit
		if err := g.getJSON(ctx, "list commits", commitsURL, &commits); err != nil {
			contract.LogWarn(fmt.Sprintf("error fetching commits for repo %s", repo.Name), err)
			continue
		}

		for _, commit := range commits {
			events = append(events, schema.ActivityEvent{
				Service:   schema.GitHubService,
				Type:      schema.CommitActivity,
				Title:     commitTitle(commit.Commit.Message),
				URL:       commit.HTMLURL,
				CreatedAt: commit.Commit.Author.Date,
				Repo:      repo.Name,
			})
		}
	}
	return events
}

// fetchReviews searches for PRs the user commented on in the window.
func (g *GitHubAdapter) fetchReviews(ctx context.Context, login string, start, end time.Time) []schema.ActivityEvent {
	query := fmt.Sprintf("commenter:%s type:pr updated:%s..%s", login, start.Format("2006-01-02"), end.Format("2006-01-02"))
	items, err := g.searchIssues(ctx, "search reviews", query, githubReviewLimit)
	if err != nil {
		contract.LogWarn("error fetching reviews", err)
		return nil
	}

	events := make([]schema.ActivityEvent, 0, len(items))
	for _, item := range items {
		events = append(events, schema.ActivityEvent{
			Service:   schema.GitHubService,
			Type:      schema.ReviewActivity,
			Title:     "Review on: " + item.Title,
			URL:       item.HTMLURL,
			CreatedAt: item.UpdatedAt,
			Repo:      repoNameFromURL(item.RepositoryURL),
		})
	}
	return events
}

// fetchIssueComments searches for issues the user commented on in the window.
func (g *GitHubAdapter) fetchIssueComments(ctx context.Context, login string, start, end time.Time) []schema.ActivityEvent {
	query := fmt.Sprintf("commenter:%s type:issue updated:%s..%s", login, start.Format("2006-01-02"), end.Format("2006-01-02"))
	items, err := g.searchIssues(ctx, "search issue comments", query, githubCommentLimit)
	if err != nil {
		contract.LogWarn("error fetching issue comments", err)
		return nil
	}

	events := make([]schema.ActivityEvent, 0, len(items))
	for _, item := range items {
		events = append(events, schema.ActivityEvent{
			Service:   schema.GitHubService,
			Type:      schema.IssueCommentActivity,
			Title:     "Comment on: " + item.Title,
			URL:       item.HTMLURL,
			CreatedAt: item.UpdatedAt,
			Repo:      repoNameFromURL(item.RepositoryURL),
			Labels:    item.labelNames(),
		})
	}
	return events
}

// searchIssues runs a GitHub issue search and returns up to limit items.
func (g *GitHubAdapter) searchIssues(ctx context.Context, op, query string, limit int) ([]githubSearchItem, error) {
	searchURL := fmt.Sprintf("%s/search/issues?q=%s&per_page=%d", g.baseURL, url.QueryEscape(query), limit)
	var result githubSearchResult
	if err := g.getJSON(ctx, op, searchURL, &result); err != nil {
		return nil, err
	}
	if len(result.Items) > limit {
		result.Items = result.Items[:limit]
	}
	return result.Items, nil
}

// getJSON performs an authenticated GET against the GitHub API.
func (g *GitHubAdapter) getJSON(ctx context.Context, op, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &contract.RemoteServiceError{Service: schema.GitHubService, Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return &contract.RemoteServiceError{Service: schema.GitHubService, Op: op, Err: err}
	}
	return decodeJSONResponse(resp, schema.GitHubService, op, out)
}

// githubUser mirrors the GET /user response fields needed here.
type githubUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// githubRepo mirrors the GET /user/repos response fields needed here.
type githubRepo struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// githubCommit mirrors the GET /repos/{repo}/commits response fields needed here.
type githubCommit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// githubSearchResult mirrors the GET /search/issues response envelope.
type githubSearchResult struct {
	TotalCount int                `json:"total_count"`
	Items      []githubSearchItem `json:"items"`
}

// githubSearchItem is one row of a GitHub issue search.
type githubSearchItem struct {
	Title         string `json:"title"`
	HTMLURL       string `json:"html_url"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	State         string `json:"state"`
	Number        int    `json:"number"`
	RepositoryURL string `json:"repository_url"`
	Labels        []struct {
		Name string `json:"name"`
	} `json:"labels"`
	PullRequest *struct {
		MergedAt string `json:"merged_at"`
	} `json:"pull_request"`
}

// merged reports whether the search item is a pull request that has
// been merged. The search API only sets merged_at on merged PRs.
func (i *githubSearchItem) merged() bool {
	return i.PullRequest != nil && i.PullRequest.MergedAt != ""
}

func (i *githubSearchItem) labelNames() []string {
	if len(i.Labels) == 0 {
		return nil
	}
	names := make([]string, 0, len(i.Labels))
	for _, label := range i.Labels {
		names = append(names, label.Name)
	}
	return names
}

// repoNameFromURL extracts the short repo name from an API repository URL.
func repoNameFromURL(repositoryURL string) string {
	if repositoryURL == "" {
		return "unknown"
	}
	parts := strings.Split(strings.TrimSuffix(repositoryURL, "/"), "/")
	return parts[len(parts)-1]
}

// commitTitle reduces a commit message to its truncated first line.
func commitTitle(message string) string {
	title, _, _ := strings.Cut(message, "\n")
	if len(title) > 100 {
		title = title[:100]
	}
	return title
}

// contributedRepos collects the sorted distinct repo names across events.
func contributedRepos(events []schema.ActivityEvent) []string {
	seen := make(map[string]struct{})
	for _, event := range events {
		if event.Repo != "" {
			seen[event.Repo] = struct{}{}
		}
	}
	repos := make([]string, 0, len(seen))
	for repo := range seen {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	return repos
}
