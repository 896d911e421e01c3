package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const resendAPI = "https://api.resend.com/emails"

// Message is one transactional email ready to send.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
	Headers map[string]string
	Tags    map[string]string
}

// Sender sends transactional emails. A client with an empty API key is a no-op,
// so local/dev runs never hit the provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// resendSendRequest matches the Resend API v1 send body.
type resendSendRequest struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	ReplyTo string            `json:"reply_to,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Tags    []resendTag       `json:"tags,omitempty"`
}

type resendTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResendClient sends emails via the Resend HTTP API.
type ResendClient struct {
	APIKey       string
	MailFrom     string
	ContactEmail string
	Client       *http.Client
}

func (c *ResendClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@badir.space"
}

func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	if c.APIKey == "" {
		return nil
	}
	to := msg.ToEmail
	if msg.ToName != "" {
		to = fmt.Sprintf("%q <%s>", msg.ToName, msg.ToEmail)
	}
	body := resendSendRequest{
		From:    c.from(),
		To:      []string{to},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		ReplyTo: c.ContactEmail,
		Headers: msg.Headers,
	}
	for name, value := range msg.Tags {
		body.Tags = append(body.Tags, resendTag{Name: name, Value: value})
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resend send failed: status %d", resp.StatusCode)
	}
	return nil
}
