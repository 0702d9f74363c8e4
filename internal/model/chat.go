package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles. A message's role never changes after creation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ImageFallbackTitle labels sessions whose first message carries only an image.
const ImageFallbackTitle = "Image Analysis"

const titleMaxLen = 20

// Attachment is a pending image selected for the next message: the display
// URI shown in the transcript and the raw base64 payload sent to the backend.
type Attachment struct {
	URI    string
	Base64 string
}

// ChatMessage is a single immutable turn in a session. Image holds the
// display URI and is only ever set on user messages.
type ChatMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

// ChatSession is one conversation thread. Messages are append-only and
// insertion order equals chronological order.
type ChatSession struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Date     string        `json:"date"`
	Messages []ChatMessage `json:"messages"`
}

// NewUserMessage builds a user turn with a freshly generated id.
func NewUserMessage(content, imageURI string) ChatMessage {
	return ChatMessage{
		ID:      uuid.NewString(),
		Role:    RoleUser,
		Content: content,
		Image:   imageURI,
	}
}

// NewAssistantMessage builds an assistant turn from a backend reply.
// The id is the one assigned by the backend, not a client id.
func NewAssistantMessage(id, content string) ChatMessage {
	return ChatMessage{
		ID:      id,
		Role:    RoleAssistant,
		Content: content,
	}
}

// NewSession builds an empty session dated today.
func NewSession(title string) ChatSession {
	return ChatSession{
		ID:       uuid.NewString(),
		Title:    title,
		Date:     time.Now().Format("2006-01-02"),
		Messages: []ChatMessage{},
	}
}

// DeriveTitle labels a session from its first user message: the leading 20
// characters of the text, or the image fallback when the text is empty.
func DeriveTitle(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ImageFallbackTitle
	}
	runes := []rune(trimmed)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen])
	}
	return trimmed
}
