package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ServerClient is a thin HTTP client for the clipchat API.
type ServerClient struct {
	baseURL string
	client  *http.Client
}

// NewServerClient creates a new API client.
func NewServerClient(baseURL string) *ServerClient {
	return &ServerClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Turn is one prior message in the conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ToolCall is one operation the server's model proposed.
type ToolCall struct {
	Name  string         `json:"name"`
	Args  map[string]any `json:"args"`
	Error string         `json:"error,omitempty"`
}

// ChatReply is the server's answer to one chat message.
type ChatReply struct {
	Text  string     `json:"text,omitempty"`
	Calls []ToolCall `json:"calls,omitempty"`
}

// Health checks whether the server is up and counts its operations.
func (c *ServerClient) Health() (int, error) {
	resp, err := c.client.Get(c.baseURL + "/api/health")
	if err != nil {
		return 0, fmt.Errorf("server unreachable: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	resp, err = c.client.Get(c.baseURL + "/api/operations")
	if err != nil {
		return 0, fmt.Errorf("failed to list operations: %w", err)
	}
	defer resp.Body.Close()
	var listing struct {
		Operations []json.RawMessage `json:"operations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return 0, fmt.Errorf("failed to decode operations: %w", err)
	}
	return len(listing.Operations), nil
}

// Chat sends one message plus history to the server.
func (c *ServerClient) Chat(message string, history []Turn) (*ChatReply, error) {
	payload, err := json.Marshal(map[string]any{
		"message": message,
		"history": history,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Post(c.baseURL+"/api/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var reply ChatReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &reply, nil
}
