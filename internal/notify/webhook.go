package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/graalonline/support-service/internal/model"
)

const webhookTimeout = 5 * time.Second

// Embed colors used by the support channel.
const (
	colorNewTicket = 5763719
	colorNewReply  = 3447003
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields"`
	URL         string       `json:"url,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// Webhook posts ticket alerts to a Discord-style webhook. A zero URL makes
// every call a no-op.
type Webhook struct {
	url        string
	baseURL    string
	httpClient *http.Client
	sink       Sink
}

func NewWebhook(url, baseURL string, sink Sink) *Webhook {
	return &Webhook{
		url:     url,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: webhookTimeout,
		},
		sink: sink,
	}
}

func (w *Webhook) post(ctx context.Context, p webhookPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}

// NewTicket announces a freshly created ticket.
func (w *Webhook) NewTicket(ctx context.Context, t *model.Ticket) error {
	fields := []embedField{
		{Name: "Ticket ID", Value: "#" + t.ID, Inline: true},
		{Name: "User", Value: t.Email, Inline: true},
		{Name: "Game", Value: model.GameDisplayName(t.Game), Inline: true},
		{Name: "Installed?", Value: yesNo(t.Installed == "1"), Inline: true},
	}
	if t.Installed == "1" && t.Started != nil {
		fields = append(fields, embedField{Name: "Started?", Value: yesNo(*t.Started == "1"), Inline: true})
	}
	if t.ProblemType != nil && *t.ProblemType != "" {
		fields = append(fields, embedField{Name: "Problem Type", Value: *t.ProblemType, Inline: true})
	}
	if t.SubProblem != nil && *t.SubProblem != "" {
		fields = append(fields, embedField{Name: "Sub-Problem", Value: *t.SubProblem, Inline: true})
	}
	fields = append(fields, embedField{Name: "Description", Value: t.Description})
	return w.post(ctx, webhookPayload{Embeds: []embed{{
		Title:       "New Support Ticket Created",
		Description: "A new issue has been reported.",
		Color:       colorNewTicket,
		Fields:      fields,
		URL:         w.baseURL + "/admin/tickets/" + t.ID,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}}})
}

// NewReply announces a user reply on an existing ticket.
func (w *Webhook) NewReply(ctx context.Context, ticketID, by, text string) error {
	return w.post(ctx, webhookPayload{Embeds: []embed{{
		Title: "New Ticket Reply",
		Color: colorNewReply,
		Fields: []embedField{
			{Name: "Ticket ID", Value: "#" + ticketID, Inline: true},
			{Name: "Replied by", Value: by, Inline: true},
			{Name: "Response", Value: text},
		},
		URL:       w.baseURL + "/admin/tickets/" + ticketID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}}})
}

// NewTicketAsync posts the new-ticket alert without blocking the request.
func (w *Webhook) NewTicketAsync(t *model.Ticket) {
	if w.url == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()
		if err := w.NewTicket(ctx, t); err != nil {
			w.sink.ReportError("webhook", err)
		}
	}()
}

// NewReplyAsync posts the new-reply alert without blocking the request.
func (w *Webhook) NewReplyAsync(ticketID, by, text string) {
	if w.url == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()
		if err := w.NewReply(ctx, ticketID, by, text); err != nil {
			w.sink.ReportError("webhook", err)
		}
	}()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
