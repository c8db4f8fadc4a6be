package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gymbro-be/internal/dto"
)

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 3 * time.Minute},
	}
}

// envelope mirrors serverutils.Response with a typed payload.
type envelope[T any] struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func (c *client) send(ctx context.Context, message string) (*dto.SendChatResponse, error) {
	var out envelope[*dto.SendChatResponse]
	if err := c.do(ctx, http.MethodPost, "/gymbro/v1/chat", dto.SendChatRequest{Message: message}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *client) reset(ctx context.Context) error {
	var out envelope[*dto.ResetConversationResponse]
	return c.do(ctx, http.MethodPost, "/gymbro/v1/reset", nil, &out)
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &failure)
		if failure.Message == "" {
			failure.Message = strings.TrimSpace(string(raw))
		}
		return fmt.Errorf("%s: %s", resp.Status, failure.Message)
	}
	return json.Unmarshal(raw, out)
}
