// Package session manages the lifecycle of chat sessions and the send
// protocol. The Manager owns the pending draft (input text plus image
// attachment) on behalf of the UI and mutates the session store optimistically
// before the backend confirms anything.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/qmuntal/stateless"

	"github.com/mpetrov/studhelper-go/internal/api"
	"github.com/mpetrov/studhelper-go/internal/logger"
	"github.com/mpetrov/studhelper-go/internal/model"
	"github.com/mpetrov/studhelper-go/internal/store"
)

// ErrEmptyMessage is returned when a send is attempted with no text and no
// attachment. Nothing is mutated and no request is issued.
var ErrEmptyMessage = errors.New("nothing to send")

// Backend is the subset of the api client the dispatcher needs; it is easy to
// mock in tests.
type Backend interface {
	SendMessage(ctx context.Context, req api.SendMessageRequest) (api.SendMessageResponse, error)
}

// Notifier surfaces a user-visible error, e.g. an alert dialog.
type Notifier func(title, message string)

// Manager is the conversation session manager: lifecycle controller and
// message dispatcher over a shared SessionStore.
//
// New-chat policy: creation is lazy. StartNewChat only deactivates the
// current session; the session record is synthesized the moment the first
// message is sent.
type Manager struct {
	store   *store.SessionStore
	backend Backend
	notify  Notifier

	mu         sync.Mutex
	draftText  string
	draftImage *model.Attachment

	inflight atomic.Int32
}

// NewManager creates a Manager. notify may be nil.
func NewManager(s *store.SessionStore, backend Backend, notify Notifier) *Manager {
	return &Manager{store: s, backend: backend, notify: notify}
}

// Store exposes the shared session store for readers and subscribers.
func (m *Manager) Store() *store.SessionStore { return m.store }

// StartNewChat discards the pending draft and deactivates the current
// session. No session record is created until the first send.
func (m *Manager) StartNewChat() {
	m.mu.Lock()
	m.draftText = ""
	m.draftImage = nil
	m.mu.Unlock()
	m.store.Clear()
}

// SelectSession makes the given session active. An id that matches nothing
// leaves the store reporting no current session.
func (m *Manager) SelectSession(id string) {
	m.store.Select(id)
}

// SetInput replaces the pending input text.
func (m *Manager) SetInput(text string) {
	m.mu.Lock()
	m.draftText = text
	m.mu.Unlock()
}

// Input returns the pending input text.
func (m *Manager) Input() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draftText
}

// AttachImage stages an image for the next send.
func (m *Manager) AttachImage(att model.Attachment) {
	m.mu.Lock()
	m.draftImage = &att
	m.mu.Unlock()
}

// ClearAttachment removes the staged image.
func (m *Manager) ClearAttachment() {
	m.mu.Lock()
	m.draftImage = nil
	m.mu.Unlock()
}

// Attachment returns the staged image, or nil.
func (m *Manager) Attachment() *model.Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draftImage
}

// Sending reports whether any send is awaiting its backend reply.
func (m *Manager) Sending() bool {
	return m.inflight.Load() > 0
}

// Send dispatches the pending draft:
//
//  1. reject when both text and attachment are empty
//  2. resolve the target session, synthesizing one when none is active
//  3. append the user message optimistically
//  4. clear the draft
//  5. post to the backend
//  6. append the assistant reply on success
//  7. notify on failure, keeping the optimistic message
//
// Steps 5-7 run through a per-dispatch state machine. Concurrent sends are
// allowed; each operates on the session id captured here, so a late reply
// still lands in the session it was sent for. Within one session, replies
// append in response-arrival order.
func (m *Manager) Send(ctx context.Context) error {
	m.mu.Lock()
	text := m.draftText
	att := m.draftImage
	m.mu.Unlock()

	if strings.TrimSpace(text) == "" && att == nil {
		return ErrEmptyMessage
	}

	targetID := m.store.CurrentID()
	if targetID == "" {
		newSession := model.NewSession(model.DeriveTitle(text))
		m.store.Upsert(newSession)
		m.store.Select(newSession.ID)
		targetID = newSession.ID
		logger.L.Info("session created", "session_id", targetID, "title", newSession.Title)
	}

	var imageURI, imageB64 string
	if att != nil {
		imageURI = att.URI
		imageB64 = att.Base64
	}

	userMsg := model.NewUserMessage(text, imageURI)
	m.store.AppendMessage(targetID, userMsg)

	m.mu.Lock()
	m.draftText = ""
	m.draftImage = nil
	m.mu.Unlock()

	return m.dispatch(ctx, targetID, text, imageB64)
}

// FSM states for one dispatch.
type FSMState stateless.State

var (
	StateReadyToSend   FSMState = "ReadyToSend"
	StateAwaitingReply FSMState = "AwaitingReply"
	StateDelivered     FSMState = "Delivered"
	StateFailed        FSMState = "Failed"
)

// FSM triggers.
type FSMTrigger stateless.Trigger

var (
	TriggerDispatch      FSMTrigger = "Dispatch"
	TriggerReplyReceived FSMTrigger = "ReplyReceived"
	TriggerSendFailed    FSMTrigger = "SendFailed"
)

// dispatch runs the network half of the send protocol. The sending indicator
// stays up for the duration regardless of outcome.
func (m *Manager) dispatch(ctx context.Context, sessionID, text, imageB64 string) error {
	m.inflight.Add(1)
	defer m.inflight.Add(-1)

	type dispatchContext struct {
		reply     api.SendMessageResponse
		lastError error
	}
	dc := &dispatchContext{}

	fsm := stateless.NewStateMachine(StateReadyToSend)

	fsm.Configure(StateReadyToSend).
		PermitReentry(TriggerDispatch).
		OnEntry(func(ctx context.Context, _ ...any) error {
			resp, err := m.backend.SendMessage(ctx, api.SendMessageRequest{
				SessionID: sessionID,
				Image:     imageB64,
				Message:   text,
			})
			if err != nil {
				dc.lastError = err
				return fsm.FireCtx(ctx, TriggerSendFailed)
			}
			dc.reply = resp
			return fsm.FireCtx(ctx, TriggerReplyReceived)
		}).
		Permit(TriggerReplyReceived, StateDelivered).
		Permit(TriggerSendFailed, StateFailed)

	fsm.Configure(StateDelivered).
		OnEntry(func(ctx context.Context, _ ...any) error {
			m.store.AppendMessage(sessionID, model.NewAssistantMessage(dc.reply.ID, dc.reply.Reply))
			return nil
		})

	// The optimistic user message is deliberately kept on failure so the
	// student's input is not lost.
	fsm.Configure(StateFailed).
		OnEntry(func(ctx context.Context, _ ...any) error {
			logger.L.Error("send failed", "session_id", sessionID, "error", dc.lastError)
			if m.notify != nil {
				m.notify("Error", "Server unreachable")
			}
			return nil
		})

	if err := fsm.FireCtx(ctx, TriggerDispatch); err != nil {
		logger.L.Warn("dispatch fire error", "error", err)
	}

	state, err := fsm.State(ctx)
	if err != nil {
		return err
	}
	if state == StateFailed {
		return dc.lastError
	}
	return nil
}
