package api

import (
	"context"
	"encoding/json"

	"github.com/mpetrov/studhelper-go/internal/model"
)

// SendMessageRequest carries one user turn to the backend. Image is a raw
// base64 payload, not the display URI.
type SendMessageRequest struct {
	SessionID string `json:"session_id"`
	Image     string `json:"image,omitempty"`
	Message   string `json:"message"`
}

// SendMessageResponse is the assistant turn produced for a send.
type SendMessageResponse struct {
	ID    string
	Reply string
}

// The backend emits numeric message ids; the client models ids as strings.
type sendMessageWire struct {
	ID    json.Number `json:"id"`
	Reply string      `json:"reply"`
}

type historyMessageWire struct {
	ID      json.Number `json:"id"`
	Role    string      `json:"role"`
	Content string      `json:"content"`
	Image   string      `json:"image"`
}

type historySessionWire struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Date     string               `json:"date"`
	Messages []historyMessageWire `json:"messages"`
}

// SendMessage posts a user message and returns the assistant reply.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (SendMessageResponse, error) {
	var wire sendMessageWire
	if err := c.post(ctx, "/chat/message", req, &wire); err != nil {
		return SendMessageResponse{}, err
	}
	return SendMessageResponse{ID: wire.ID.String(), Reply: wire.Reply}, nil
}

// ChatHistory fetches the authoritative session list, newest first. A non-array
// body is reported as an error so callers can fall back to an empty state.
func (c *Client) ChatHistory(ctx context.Context) ([]model.ChatSession, error) {
	var wire []historySessionWire
	if err := c.get(ctx, "/chat/history", &wire); err != nil {
		return nil, err
	}

	sessions := make([]model.ChatSession, 0, len(wire))
	for _, ws := range wire {
		messages := make([]model.ChatMessage, 0, len(ws.Messages))
		for _, wm := range ws.Messages {
			messages = append(messages, model.ChatMessage{
				ID:      wm.ID.String(),
				Role:    wm.Role,
				Content: wm.Content,
				Image:   wm.Image,
			})
		}
		sessions = append(sessions, model.ChatSession{
			ID:       ws.ID,
			Title:    ws.Title,
			Date:     ws.Date,
			Messages: messages,
		})
	}
	return sessions, nil
}
