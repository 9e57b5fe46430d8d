package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

// linearAPIURL is the Linear GraphQL endpoint.
const linearAPIURL = "https://api.linear.app/graphql"

const linearViewerQuery = `query {
	viewer {
		id
		name
		displayName
		email
	}
}`

// Server-side date filters are unreliable on this API, so the window
// filter is applied client-side over the most recent issues.
const linearIssuesQuery = `query {
	issues(first: 50) {
		nodes {
			id
			identifier
			title
			state { name type }
			createdAt
			updatedAt
			url
			team { name }
		}
	}
}`

// LinearAdapter fetches recent issue activity for the authenticated user
// via the Linear GraphQL API.
type LinearAdapter struct {
	store       contract.ActivityStore
	apiKey      string
	endpoint    string
	client      *http.Client
	maxCacheAge time.Duration
}

var _ contract.ServiceAdapter = &LinearAdapter{} // Compile-time check

// NewLinearAdapter creates a Linear adapter.
func NewLinearAdapter(store contract.ActivityStore, apiKey string, client *http.Client, maxCacheAge time.Duration) *LinearAdapter {
	return &LinearAdapter{
		store:       store,
		apiKey:      apiKey,
		endpoint:    linearAPIURL,
		client:      client,
		maxCacheAge: maxCacheAge,
	}
}

// Name implements the ServiceAdapter interface.
func (l *LinearAdapter) Name() schema.Service {
	return schema.LinearService
}

// TestConnection implements the ServiceAdapter interface.
func (l *LinearAdapter) TestConnection(ctx context.Context) bool {
	if l.apiKey == "" {
		return false
	}
	var result linearViewerResponse
	if err := l.query(ctx, "test connection", linearViewerQuery, &result); err != nil {
		contract.LogWarn("Linear connection test failed", err)
		return false
	}
	return result.Data.Viewer.ID != ""
}

// GetActivity implements the ServiceAdapter interface. Unlike GitHub, a
// missing API key yields an empty bundle rather than an error; Linear is
// treated as optional.
func (l *LinearAdapter) GetActivity(ctx context.Context, start, end time.Time, useCache bool) (*schema.ActivityBundle, error) {
	if useCache {
		if bundle := cachedBundle(l.store, schema.LinearService, start, end, l.maxCacheAge); bundle != nil {
			return bundle, nil
		}
	}

	if l.apiKey == "" {
		contract.LogWarn("LINEAR_API_KEY not configured, skipping Linear collection", nil)
		return &schema.ActivityBundle{Summary: map[string]any{}}, nil
	}

	var viewerResp linearViewerResponse
	if err := l.query(ctx, "get viewer", linearViewerQuery, &viewerResp); err != nil {
		return nil, err
	}
	viewer := viewerResp.Data.Viewer

	name := viewer.Name
	if name == "" {
		name = viewer.DisplayName
	}
	bundle := &schema.ActivityBundle{
		User: schema.UserInfo{
			Login: viewer.ID,
			Name:  name,
			Email: viewer.Email,
		},
		Summary: map[string]any{},
	}

	var issuesResp linearIssuesResponse
	if err := l.query(ctx, "list issues", linearIssuesQuery, &issuesResp); err != nil {
		return nil, err
	}

	completed := 0
	for _, node := range issuesResp.Data.Issues.Nodes {
		updated, err := time.Parse(time.RFC3339, node.UpdatedAt)
		if err != nil {
			continue
		}
		if updated.Before(start) || updated.After(end) {
			continue
		}

		bundle.Activities = append(bundle.Activities, schema.ActivityEvent{
			Service:   schema.LinearService,
			Type:      schema.IssueActivity,
			Title:     node.Title,
			URL:       node.URL,
			CreatedAt: node.CreatedAt,
			Repo:      node.Team.Name,
			Labels:    []string{node.State.Name},
		})
		if node.State.Type == "completed" {
			completed++
		}
	}

	bundle.Summary["recent_issues_in_timeframe"] = len(bundle.Activities)
	bundle.Summary["issues_completed"] = completed

	storeBundle(l.store, schema.LinearService, bundle, start, end)
	return bundle, nil
}

// query posts a GraphQL request and decodes the response, mapping
// GraphQL-level errors onto RemoteServiceError.
func (l *LinearAdapter) query(ctx context.Context, op, gql string, out linearResponse) error {
	payload, err := json.Marshal(map[string]string{"query": gql})
	if err != nil {
		return &contract.RemoteServiceError{Service: schema.LinearService, Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(payload))
	if err != nil {
		return &contract.RemoteServiceError{Service: schema.LinearService, Op: op, Err: err}
	}
	req.Header.Set("Authorization", l.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return &contract.RemoteServiceError{Service: schema.LinearService, Op: op, Err: err}
	}
	if err := decodeJSONResponse(resp, schema.LinearService, op, out); err != nil {
		return err
	}
	if gqlErr := out.graphqlError(); gqlErr != nil {
		return &contract.RemoteServiceError{Service: schema.LinearService, Op: op, Err: gqlErr}
	}
	return nil
}

// linearResponse lets query surface GraphQL errors uniformly.
type linearResponse interface {
	graphqlError() error
}

// linearErrors is the GraphQL error envelope shared by all responses.
type linearErrors struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *linearErrors) graphqlError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		messages = append(messages, item.Message)
	}
	return &graphqlError{messages: messages}
}

type graphqlError struct {
	messages []string
}

func (e *graphqlError) Error() string {
	if len(e.messages) == 1 {
		return "graphql error: " + e.messages[0]
	}
	out := "graphql errors:"
	for _, msg := range e.messages {
		out += " " + msg + ";"
	}
	return out
}

// linearViewerResponse mirrors the viewer query response.
type linearViewerResponse struct {
	linearErrors
	Data struct {
		Viewer struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
			Email       string `json:"email"`
		} `json:"viewer"`
	} `json:"data"`
}

// linearIssuesResponse mirrors the issues query response.
type linearIssuesResponse struct {
	linearErrors
	Data struct {
		Issues struct {
			Nodes []struct {
				ID         string `json:"id"`
				Identifier string `json:"identifier"`
				Title      string `json:"title"`
				State      struct {
					Name string `json:"name"`
					Type string `json:"type"`
				} `json:"state"`
				CreatedAt string `json:"createdAt"`
				UpdatedAt string `json:"updatedAt"`
				URL       string `json:"url"`
				Team      struct {
					Name string `json:"name"`
				} `json:"team"`
			} `json:"nodes"`
		} `json:"issues"`
	} `json:"data"`
}
