package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpetrov/studhelper-go/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler, onAuthFailure func()) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.APIConfig{BaseURL: srv.URL}, StaticToken("tok-123"), onAuthFailure)
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}), nil)

	_, err := c.ChatHistory(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestLoginSkipsBearerToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		require.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"access_token":"fresh"}`))
	}), nil)

	token, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "fresh", token)
}

func TestRejectedTokenForcesSignOut(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusUnprocessableEntity} {
		var signedOut bool
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}), func() { signedOut = true })

		_, err := c.MyInfo(context.Background())
		require.ErrorIs(t, err, ErrSessionExpired)
		require.True(t, signedOut, "status %d should force sign-out", status)
	}
}

func TestServerRejectionBecomesStatusError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Empty message"}`))
	}), nil)

	_, err := c.SendMessage(context.Background(), SendMessageRequest{SessionID: "s1"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.Code)
	require.Equal(t, "Empty message", statusErr.Message)
}

func TestSendMessageDecodesNumericID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/message", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"status":"success","id":42,"reply":"Photosynthesis is..."}`))
	}), nil)

	resp, err := c.SendMessage(context.Background(), SendMessageRequest{SessionID: "s1", Message: "Explain photosynthesis"})
	require.NoError(t, err)
	require.Equal(t, "42", resp.ID)
	require.Equal(t, "Photosynthesis is...", resp.Reply)
}

func TestChatHistoryMapsWireShape(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"s1","title":"Algebra","date":"2025-01-10","messages":[
				{"id":1,"role":"user","content":"hi"},
				{"id":2,"role":"assistant","content":"hello"}
			]}
		]`))
	}), nil)

	sessions, err := c.ChatHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "Algebra", sessions[0].Title)
	require.Len(t, sessions[0].Messages, 2)
	require.Equal(t, "1", sessions[0].Messages[0].ID)
	require.Equal(t, "assistant", sessions[0].Messages[1].Role)
}

func TestChatHistoryNonArrayBodyIsError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"boom"}`))
	}), nil)

	_, err := c.ChatHistory(context.Background())
	require.Error(t, err)
}

func TestEventsRoundTrip(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/events":
			if r.Method == http.MethodGet {
				w.Write([]byte(`{"2025-01-10":[{"id":7,"type":"test","description":"math exam"}]}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"Event created successfully","data":{"id":8,"date":"2025-01-11","type":"homework","description":"essay"}}`))
		case "/events/delete":
			w.Write([]byte(`{"success":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}), nil)

	ctx := context.Background()

	events, err := c.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events["2025-01-10"], 1)
	require.Equal(t, "math exam", events["2025-01-10"][0].Description)

	created, err := c.CreateEvent(ctx, "2025-01-11", "homework", "essay")
	require.NoError(t, err)
	require.Equal(t, 8, created.ID)

	require.NoError(t, c.DeleteEvent(ctx, 8, "", ""))
}

func TestQuizGrade(t *testing.T) {
	quiz := Quiz{Questions: []Question{
		{Question: "2+2", Options: []string{"3", "4"}, Correct: "4"},
		{Question: "3+3", Options: []string{"6", "7"}, Correct: "6"},
		{Question: "4+4", Options: []string{"8", "9"}, Correct: "8"},
	}}

	correct, total := quiz.Grade([]string{"4", "7"})
	require.Equal(t, 1, correct)
	require.Equal(t, 3, total)
}

func TestStatusErrorWithoutBody(t *testing.T) {
	err := &StatusError{Code: 500}
	require.Equal(t, "backend returned 500", err.Error())
	require.False(t, errors.Is(err, ErrSessionExpired))
}
