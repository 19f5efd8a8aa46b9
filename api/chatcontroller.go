package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clipchat/llm"
)

// RegisterChatRoutes registers the natural-language endpoint.
func RegisterChatRoutes(g *gin.RouterGroup, d *Deps) {
	g.POST("/chat", d.handleChat)
}

// ChatRequest is one conversational message plus prior turns.
type ChatRequest struct {
	Message string     `json:"message" binding:"required"`
	History []llm.Turn `json:"history"`
}

// ChatToolCall is one operation the model proposed, validated against the
// dispatch table so the client learns about bad arguments before uploading
// anything.
type ChatToolCall struct {
	Name  string         `json:"name"`
	Args  map[string]any `json:"args"`
	Error string         `json:"error,omitempty"`
}

// ChatResponse carries the model's text and its proposed operations.
type ChatResponse struct {
	Text  string         `json:"text,omitempty"`
	Calls []ChatToolCall `json:"calls,omitempty"`
}

func (d *Deps) handleChat(c *gin.Context) {
	if d.Chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat is not configured"})
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := d.Chat.Chat(c.Request.Context(), req.Message, req.History)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "chat backend unavailable"})
		return
	}

	resp := ChatResponse{Text: reply.Text}
	for _, call := range reply.Calls {
		out := ChatToolCall{Name: call.Name, Args: call.Args}
		if op, err := d.Registry.Resolve(call.Name); err != nil {
			out.Error = err.Error()
		} else if normalized, err := d.Registry.Validate(op, call.Args); err != nil {
			out.Error = err.Error()
		} else {
			out.Args = normalized
		}
		resp.Calls = append(resp.Calls, out)
	}
	c.JSON(http.StatusOK, resp)
}
