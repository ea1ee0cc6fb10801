// Package notify sends Pushover push notifications.
package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultPushoverURL = "https://api.pushover.net/1/messages.json"

// Client sends Pushover notifications for a fixed application/user pair.
type Client struct {
	Token string
	User  string

	httpClient  *http.Client
	pushoverURL string
}

// NewClient creates a Pushover client. An empty token or user makes Send
// a no-op, matching the teacher's "only notify if both flags are set"
// behavior.
func NewClient(token, user string) *Client {
	return &Client{
		Token:       token,
		User:        user,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		pushoverURL: defaultPushoverURL,
	}
}

// Enabled reports whether both a token and user key were configured.
func (c *Client) Enabled() bool {
	return c.Token != "" && c.User != ""
}

// Send posts a notification. It is a no-op if the client isn't Enabled.
func (c *Client) Send(title, message string) error {
	if !c.Enabled() {
		return nil
	}

	form := url.Values{}
	form.Set("token", c.Token)
	form.Set("user", c.User)
	form.Set("title", title)
	form.Set("message", message)

	req, err := http.NewRequest("POST", c.pushoverURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-OK response from Pushover: %s", resp.Status)
	}
	return nil
}
