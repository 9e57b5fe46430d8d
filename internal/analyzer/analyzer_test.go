package analyzer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winsfinder/schema"
)

// stubCompleter returns a canned response or error.
type stubCompleter struct {
	response string
	err      error
	calls    int
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.response, s.err
}

func analyzerBundles() map[schema.Service]*schema.ActivityBundle {
	return map[schema.Service]*schema.ActivityBundle{
		schema.GitHubService: {
			User: schema.UserInfo{Login: "octocat"},
			Activities: []schema.ActivityEvent{
				{Type: schema.PullRequestActivity, Title: "Ship billing migration", CreatedAt: "2026-08-25T09:00:00Z"},
			},
		},
		schema.LinearService: {
			Activities: []schema.ActivityEvent{
				{Service: schema.LinearService, Type: schema.IssueActivity, Title: "Billing migration rollout", CreatedAt: "2026-08-25T15:00:00Z"},
			},
		},
	}
}

func TestAnalyzeWins_NilCompleterUsesHeuristic(t *testing.T) {
	a := New(nil)
	report := a.AnalyzeWins(context.Background(), analyzerBundles(), schema.SelfAudience, nil)
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Summary.TotalActivities)
	assert.NotEmpty(t, report.Correlations)
}

func TestAnalyzeWins_CompleterSuccess(t *testing.T) {
	completer := &stubCompleter{response: validReportJSON}
	a := New(completer)

	report := a.AnalyzeWins(context.Background(), analyzerBundles(), schema.ManagerAudience, []string{"technical"})
	require.NotNil(t, report)
	assert.Equal(t, 1, completer.calls)

	// The LLM report is returned verbatim, not the heuristic one
	assert.Equal(t, 7, report.Summary.TotalActivities)
	assert.Equal(t, schema.ManagerAudience, report.Audience)
}

func TestAnalyzeWins_CompleterErrorFallsBack(t *testing.T) {
	completer := &stubCompleter{err: errors.New("rate limited")}
	a := New(completer)

	report := a.AnalyzeWins(context.Background(), analyzerBundles(), schema.SelfAudience, nil)
	require.NotNil(t, report)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, 2, report.Summary.TotalActivities)
}

func TestAnalyzeWins_UnparsableResponseFallsBack(t *testing.T) {
	completer := &stubCompleter{response: "Sorry, I cannot analyze that."}
	a := New(completer)

	report := a.AnalyzeWins(context.Background(), analyzerBundles(), schema.SelfAudience, nil)
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Summary.TotalActivities)
}

func TestNewCompleterFromEnv(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	assert.Nil(t, NewCompleterFromEnv())

	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	assert.NotNil(t, NewCompleterFromEnv())
}

func TestOpenRouterClient_Complete(t *testing.T) {
	var gotAuth string
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "analysis text"}}]}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient("sk-or-test", server.Client())
	client.baseURL = server.URL

	content, err := client.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "analysis text", content)
	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	assert.Contains(t, gotBody, openRouterModel)
	assert.Contains(t, gotBody, "system prompt")
}

func TestOpenRouterClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error status", http.StatusTooManyRequests, `{"error": {"message": "slow down"}}`, "unexpected status 429"},
		{"api error payload", http.StatusOK, `{"error": {"message": "invalid model"}}`, "invalid model"},
		{"empty choices", http.StatusOK, `{"choices": []}`, "no choices"},
		{"malformed body", http.StatusOK, `not json`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewOpenRouterClient("sk-or-test", server.Client())
			client.baseURL = server.URL

			_, err := client.Complete(context.Background(), "system", "prompt")
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should contain %q", err, tt.wantErr)
		})
	}
}
