package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SaveResult is what the spreadsheet bridge reports back.
type SaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Webhook forwards saved records to an external endpoint (originally a
// Google Apps Script bridge writing to a spreadsheet). A failed forward is
// reported to the caller and nothing else; the in-memory run and the local
// record are unaffected.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook returns a forwarder for url, or nil when url is empty
// (forwarding disabled). The timeout mirrors the original bridge's 10s.
func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) Forward(ctx context.Context, r Record) SaveResult {
	body, err := json.Marshal(r)
	if err != nil {
		return SaveResult{Success: false, Message: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return SaveResult{Success: false, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return SaveResult{Success: false, Message: fmt.Sprintf("forward failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SaveResult{Success: false, Message: fmt.Sprintf("endpoint returned %d", resp.StatusCode)}
	}
	var sr SaveResult
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		// 2xx with an unreadable body still counts as delivered
		return SaveResult{Success: true}
	}
	return sr
}
