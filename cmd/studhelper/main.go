package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/mpetrov/studhelper-go/internal/api"
	"github.com/mpetrov/studhelper-go/internal/config"
	"github.com/mpetrov/studhelper-go/internal/dashboard"
	"github.com/mpetrov/studhelper-go/internal/history"
	"github.com/mpetrov/studhelper-go/internal/logger"
	"github.com/mpetrov/studhelper-go/internal/model"
	"github.com/mpetrov/studhelper-go/internal/session"
	"github.com/mpetrov/studhelper-go/internal/store"
)

// tokenHolder is the read-only token capability handed to the api client.
type tokenHolder struct {
	mu    sync.RWMutex
	token string
}

func (h *tokenHolder) CurrentToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *tokenHolder) set(token string) {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
}

func main() {
	// .env is optional; real config lives in config.yaml.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Log.Level)

	ctx := context.Background()

	tokens := &tokenHolder{}
	client := api.New(cfg.API, tokens, func() {
		fmt.Fprintln(os.Stderr, "Session expired, please sign in again.")
		os.Exit(1)
	})

	if cfg.Auth.Token != "" {
		tokens.set(cfg.Auth.Token)
	} else {
		token, err := client.Login(ctx, api.Credentials{Email: cfg.Auth.Email, Password: cfg.Auth.Password})
		if err != nil {
			logger.L.Error("login failed", "error", err)
			os.Exit(1)
		}
		tokens.set(token)
	}

	printGreeting(dashboard.New(client).Load(ctx))

	sessions := store.New()
	manager := session.NewManager(sessions, client, func(title, message string) {
		fmt.Printf("[%s] %s\n", title, message)
	})

	// Print new messages of the active session as they land, including
	// replies that resolve after the prompt has already returned.
	printed := make(map[string]int)
	var printedMu sync.Mutex
	sessions.Subscribe(func() {
		cur := sessions.Current()
		if cur == nil {
			return
		}
		printedMu.Lock()
		defer printedMu.Unlock()
		for _, msg := range cur.Messages[printed[cur.ID]:] {
			printMessage(msg)
		}
		printed[cur.ID] = len(cur.Messages)
	})

	history.New(client, sessions).Sync(ctx)
	fmt.Printf("%d saved conversations. /history to browse, /new to start fresh, /quit to exit.\n", sessions.Len())

	runREPL(ctx, manager)
}

func printGreeting(snap dashboard.Snapshot) {
	if snap.User != nil {
		fmt.Printf("Signed in as %s.\n", snap.User.Email)
	}
	if snap.Scores != nil && snap.Scores.TotalTests > 0 {
		fmt.Printf("Quizzes so far: %d, average %.1f%%.\n", snap.Scores.TotalTests, snap.Scores.AvgPercentage)
	}
	for _, r := range snap.Recents {
		fmt.Printf("Recent analysis: %s — %s (%s)\n", r.Subject, r.Topic, r.Date)
	}
}

func runREPL(ctx context.Context, manager *session.Manager) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return
		case line == "/new":
			manager.StartNewChat()
			fmt.Println("Started a new chat.")
		case line == "/history":
			for i, s := range manager.Store().Sessions() {
				fmt.Printf("%2d. %s (%s, %d messages)\n", i+1, s.Title, s.Date, len(s.Messages))
			}
		case strings.HasPrefix(line, "/open "):
			openSession(manager, strings.TrimPrefix(line, "/open "))
		case strings.HasPrefix(line, "/attach "):
			attachImage(manager, strings.TrimPrefix(line, "/attach "))
		case line == "":
			continue
		default:
			manager.SetInput(line)
			if err := manager.Send(ctx); err != nil {
				if err == session.ErrEmptyMessage {
					continue
				}
				logger.L.Debug("send returned error", "error", err)
			}
		}
	}
}

func openSession(manager *session.Manager, arg string) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	sessions := manager.Store().Sessions()
	if err != nil || n < 1 || n > len(sessions) {
		fmt.Println("Usage: /open N (see /history)")
		return
	}
	target := sessions[n-1]
	manager.SelectSession(target.ID)
	fmt.Printf("Opened %q.\n", target.Title)
	for _, msg := range target.Messages {
		printMessage(msg)
	}
}

func attachImage(manager *session.Manager, arg string) {
	path := strings.TrimSpace(arg)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Cannot read %s: %v\n", path, err)
		return
	}
	manager.AttachImage(model.Attachment{
		URI:    "file://" + path,
		Base64: base64.StdEncoding.EncodeToString(data),
	})
	fmt.Printf("Attached %s; it will be sent with your next message.\n", path)
}

func printMessage(msg model.ChatMessage) {
	prefix := "you"
	if msg.Role == model.RoleAssistant {
		prefix = "tutor"
	}
	if msg.Image != "" {
		fmt.Printf("%s: [%s] %s\n", prefix, msg.Image, msg.Content)
		return
	}
	fmt.Printf("%s: %s\n", prefix, msg.Content)
}
