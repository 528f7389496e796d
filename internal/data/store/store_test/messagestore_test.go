package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/data/store"
	"github.com/akolanti/ragassistant/internal/domain/jobModel"
)

func TestMessageStores(t *testing.T) {
	_, internalStore := newRedisStore(t)
	stores := map[string]jobModel.MessageStore{
		"redis":    store.NewRedisMessageStore(internalStore),
		"inMemory": store.InitMessageStore(),
	}

	for name, ms := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "msg-trace")
			chatID := "chat_" + name

			if ms.ValidateChatId(ctx, chatID) {
				t.Fatal("chat should not exist before init")
			}
			if err := ms.TrySaveChat(ctx, chatID, jobModel.JobPayload{Question: "q"}); !errors.Is(err, store.ErrUnknownChat) {
				t.Errorf("expected ErrUnknownChat, got %v", err)
			}

			if err := ms.InitNewChat(ctx, chatID); err != nil {
				t.Fatalf("init failed: %v", err)
			}
			if !ms.ValidateChatId(ctx, chatID) {
				t.Fatal("chat should exist after init")
			}

			history, err := ms.GetMessageHistory(ctx, chatID)
			if err != nil || len(history) != 0 {
				t.Fatalf("expected empty history, got %v (%v)", history, err)
			}

			total := config.ChatHistoryLength + 3
			for i := 0; i < total; i++ {
				turn := jobModel.JobPayload{Question: fmt.Sprintf("q%d", i), Answer: fmt.Sprintf("a%d", i)}
				if err := ms.TrySaveChat(ctx, chatID, turn); err != nil {
					t.Fatalf("save %d failed: %v", i, err)
				}
			}

			history, err = ms.GetMessageHistory(ctx, chatID)
			if err != nil {
				t.Fatal(err)
			}
			if len(history) != config.ChatHistoryLength {
				t.Fatalf("expected %d turns, got %d", config.ChatHistoryLength, len(history))
			}
			if history[0].Question != "q3" || history[len(history)-1].Question != fmt.Sprintf("q%d", total-1) {
				t.Errorf("expected newest turns oldest first, got %q .. %q", history[0].Question, history[len(history)-1].Question)
			}
		})
	}
}
