package services

import (
	"context"
	"errors"
	"net/http"
)

// SlackNotifier posts rendered reports to a Slack webhook. Delivery is
// not implemented yet; the type exists so the tool surface can report a
// stable "not implemented" message instead of an unknown-tool error.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Slack notifier.
func NewSlackNotifier(webhookURL string, client *http.Client) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     client,
	}
}

// PostMessage sends a message to the configured channel.
func (s *SlackNotifier) PostMessage(ctx context.Context, message, channel string) error {
	return errors.New("Slack integration not implemented yet")
}
