package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"statebot/app/config"

	"github.com/samber/do"
)

const sendTimeout = 60 * time.Second

type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

type sendRequest struct {
	Recipient recipient    `json:"recipient"`
	Message   ReplyPayload `json:"message"`
}

type recipient struct {
	ID string `json:"id"`
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg: do.MustInvoke[*config.Config](di),
		httpClient: &http.Client{
			Timeout: sendTimeout,
		},
	}, nil
}

// SendContent posts a formatted message object to the platform's messages
// endpoint. Non-200 responses come back as errors; retrying is the caller's
// decision.
func (c *Client) SendContent(ctx context.Context, recipientID string, content ReplyPayload) error {
	body, err := json.Marshal(sendRequest{
		Recipient: recipient{ID: recipientID},
		Message:   content,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	endpoint := c.cfg.Messenger.Endpoint + "?access_token=" + url.QueryEscape(c.cfg.Messenger.PageToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("Sending message",
		"recipient_id", recipientID,
		"text", content.Text)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("send failed with status %d: %s", resp.StatusCode, respBody)
	}

	return nil
}

// SendText is a higher level interface that only needs a string.
func (c *Client) SendText(ctx context.Context, recipientID, text string) error {
	return c.SendContent(ctx, recipientID, Format(text, nil, nil))
}

// RequestLocation sends the location quick-reply prompt.
func (c *Client) RequestLocation(ctx context.Context, recipientID string) error {
	return c.SendContent(ctx, recipientID, LocationPrompt())
}
