// Package llm turns natural-language editing requests into operation calls
// through Cohere's tool-use chat API.
package llm

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"clipchat/ops"
)

const defaultModel = "command-r-08-2024"

const preamble = `You are a media editing assistant. The user describes an edit in
plain language; you pick the matching tool and fill in its parameters. Call at
most one tool per message. If the request does not map to any tool, answer in
text and say what you can do instead. Never invent parameter values the user
did not give, except where a tool documents a default.`

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role string `json:"role"` // "user" or "chatbot"
	Text string `json:"text"`
}

// ToolCall is one operation the model decided to invoke.
type ToolCall struct {
	Name string   `json:"name"`
	Args ops.Args `json:"args"`
}

// Reply is the model's answer: free text, tool calls, or both.
type Reply struct {
	Text  string     `json:"text,omitempty"`
	Calls []ToolCall `json:"calls,omitempty"`
}

// chatAPI is the slice of the Cohere client the package uses; tests
// substitute a canned implementation.
type chatAPI interface {
	Chat(ctx context.Context, request *cohere.ChatRequest) (*cohere.NonStreamedChatResponse, error)
}

// Client relays chat messages to Cohere with the registry's operations
// attached as tools.
type Client struct {
	api   chatAPI
	model string
	tools []*cohere.Tool
}

// New builds a chat client for the given registry. model may be empty.
func New(apiKey, model string, registry *ops.Registry) *Client {
	if model == "" {
		model = defaultModel
	}
	// Force HTTP/1.1: the Cohere endpoint intermittently resets HTTP/2
	// streams on long tool-use responses.
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	api := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &Client{
		api:   cohereWrapper{api},
		model: model,
		tools: ToolsFromRegistry(registry),
	}
}

// cohereWrapper adapts the generated client's variadic option type to the
// chatAPI interface.
type cohereWrapper struct {
	client *cohereclient.Client
}

func (w cohereWrapper) Chat(ctx context.Context, request *cohere.ChatRequest) (*cohere.NonStreamedChatResponse, error) {
	return w.client.Chat(ctx, request)
}

// Chat sends one user message with the prior turns as history and returns
// the model's text and any tool calls, normalized to registry argument bags.
func (c *Client) Chat(ctx context.Context, message string, history []Turn) (*Reply, error) {
	if message == "" {
		return nil, errors.New("empty message")
	}
	req := &cohere.ChatRequest{
		Message:     message,
		Model:       cohere.String(c.model),
		Preamble:    cohere.String(preamble),
		Tools:       c.tools,
		ChatHistory: chatHistory(history),
	}
	resp, err := c.api.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	if resp == nil {
		return nil, errors.New("chat request: empty response")
	}

	reply := &Reply{Text: resp.Text}
	for _, call := range resp.ToolCalls {
		if call == nil {
			continue
		}
		args := make(ops.Args, len(call.Parameters))
		for k, v := range call.Parameters {
			args[k] = v
		}
		reply.Calls = append(reply.Calls, ToolCall{Name: call.Name, Args: args})
	}
	return reply, nil
}

func chatHistory(turns []Turn) []*cohere.Message {
	var history []*cohere.Message
	for _, t := range turns {
		switch t.Role {
		case "chatbot":
			history = append(history, &cohere.Message{
				Role:    "CHATBOT",
				Chatbot: &cohere.ChatMessage{Message: t.Text},
			})
		default:
			history = append(history, &cohere.Message{
				Role: "USER",
				User: &cohere.ChatMessage{Message: t.Text},
			})
		}
	}
	return history
}
