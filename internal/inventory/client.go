// Package inventory talks to the external inventory/reward HTTP
// service. Reward delivery is best-effort: callers log failures and
// never roll back game state because of them.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/constants"
)

// Rewards is the credits/exp part of the payload.
type Rewards struct {
	PlayerRewarded string `json:"playerRewarded"`
	Credits        int    `json:"credits"`
	Exp            int    `json:"exp"`
}

// WonItem attributes a dropped item to its origin player. Empty fields
// are sent as-is; the payload shape is fixed by the inventory team.
type WonItem struct {
	OriginPlayer string `json:"originPlayer"`
	ItemName     string `json:"itemName"`
}

// RewardPayload is the wire contract of the inventory service.
type RewardPayload struct {
	Rewards Rewards   `json:"Rewards"`
	WonItem []WonItem `json:"WonItem"`
}

// Client posts reward payloads with a static bearer key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendReward posts one payload and fails on any non-2xx response.
func (c *Client) SendReward(ctx context.Context, payload RewardPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	if c.apiKey != "" {
		req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("inventory API %d: %s", resp.StatusCode, string(text))
	}
	return nil
}
