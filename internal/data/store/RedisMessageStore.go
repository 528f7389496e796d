package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/data/redisStore"
	"github.com/akolanti/ragassistant/internal/domain/jobModel"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

type RedisMessageStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisMessageStore(store *redisStore.Store) *RedisMessageStore {
	return &RedisMessageStore{
		store:  store,
		logger: logger_i.NewLogger("MessageStore"),
	}
}

func (s *RedisMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	isFound, err := s.store.Exists(ctx, chatId)
	if err != nil {
		s.logger.Error("Failed to check if chatId exists", "traceId", config.TraceID(ctx), "chatId", chatId, "error", err)
		return false
	}
	return isFound
}

func (s *RedisMessageStore) TrySaveChat(ctx context.Context, id string, conversation jobModel.JobPayload) error {
	if !s.ValidateChatId(ctx, id) {
		return ErrUnknownChat
	}
	return s.saveChat(ctx, id, conversation)
}

func (s *RedisMessageStore) saveChat(ctx context.Context, id string, conversation jobModel.JobPayload) error {
	log := s.logger.With("traceId", config.TraceID(ctx), "chatId", id)
	data, err := json.Marshal(conversation)
	if err != nil {
		return err
	}
	if err = s.store.ListPush(ctx, id, data, config.RedisMessageStoreTTL); err != nil {
		log.Error("Error saving chat", "error", err)
		return err
	}
	log.Debug("Saved chat")
	return nil
}

// InitNewChat clears any list under id and seeds it with an empty turn so
// that the key exists before the first answer lands.
func (s *RedisMessageStore) InitNewChat(ctx context.Context, id string) error {
	if err := s.store.Del(ctx, id); err != nil {
		return err
	}
	return s.saveChat(ctx, id, jobModel.JobPayload{})
}

func (s *RedisMessageStore) GetMessageHistory(ctx context.Context, chatId string) ([]jobModel.JobPayload, error) {
	log := s.logger.With("traceId", config.TraceID(ctx), "chatId", chatId)

	// one extra for the seed entry
	raw, err := s.store.ListGetLast(ctx, chatId, config.ChatHistoryLength+1)
	if err != nil {
		log.Error("Error getting history", "error", err)
		return nil, err
	}

	history := make([]jobModel.JobPayload, 0, len(raw))
	for _, entry := range raw {
		var turn jobModel.JobPayload
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			log.Warn("Skipping unreadable chat entry", "error", err)
			continue
		}
		if turn.Question == "" && turn.Answer == "" {
			continue
		}
		history = append(history, turn)
	}
	if len(history) > config.ChatHistoryLength {
		history = history[len(history)-config.ChatHistoryLength:]
	}
	return history, nil
}
