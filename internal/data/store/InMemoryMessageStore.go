package store

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/jobModel"
)

var ErrUnknownChat = errors.New("invalid chat id")

type InMemoryMessageStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]jobModel.JobPayload
}

func InitMessageStore() *InMemoryMessageStore {
	return &InMemoryMessageStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]jobModel.JobPayload),
	}
}

func (store *InMemoryMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemoryMessageStore) TrySaveChat(ctx context.Context, id string, conversation jobModel.JobPayload) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	history, ok := store.chatMap[id]
	if !ok {
		return ErrUnknownChat
	}
	store.chatMap[id] = append(history, conversation)
	inMemLogger.Debug("Saved turn to chat", "chatId", id)
	return nil
}

func (store *InMemoryMessageStore) InitNewChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = make([]jobModel.JobPayload, 0)
	return nil
}

// GetMessageHistory returns the newest turns of a chat, oldest first.
func (store *InMemoryMessageStore) GetMessageHistory(ctx context.Context, chatId string) ([]jobModel.JobPayload, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	history, ok := store.chatMap[chatId]
	if !ok {
		return nil, ErrUnknownChat
	}
	if len(history) > config.ChatHistoryLength {
		history = history[len(history)-config.ChatHistoryLength:]
	}
	out := make([]jobModel.JobPayload, len(history))
	copy(out, history)
	return out, nil
}
