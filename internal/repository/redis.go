package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aircare/internal/config"
	"aircare/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisDraftRepository(client *redis.Client, ttl time.Duration) *RedisDraftRepository {
	return &RedisDraftRepository{
		client: client,
		ttl:    ttl,
	}
}

func draftKey(sessionID string) string {
	return fmt.Sprintf("draft:%s", sessionID)
}

func (r *RedisDraftRepository) GetDraft(ctx context.Context, sessionID string) (*models.Draft, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, draftKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from redis: %w", err)
	}

	var draft models.Draft
	if err := json.Unmarshal([]byte(val), &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	return &draft, nil
}

func (r *RedisDraftRepository) SaveDraft(ctx context.Context, sessionID string, draft *models.Draft) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := r.client.Set(ctx, draftKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set draft in redis: %w", err)
	}

	return nil
}

func (r *RedisDraftRepository) ClearDraft(ctx context.Context, sessionID string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from redis: %w", err)
	}
	return nil
}

// SavePartnerCache mirrors the selected partner into standalone keys so other
// flows can read them without deserializing the whole draft. The draft stays
// authoritative; these keys are a convenience cache.
func (r *RedisDraftRepository) SavePartnerCache(ctx context.Context, sessionID string, partner models.PartnerInfo) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	fields := map[string]string{
		"partner_uid":            partner.UID,
		"partner_name":           partner.Name,
		"partner_address":        partner.Address,
		"partner_address_detail": partner.AddressDetail,
	}

	pipe := r.client.Pipeline()
	for field, value := range fields {
		key := fmt.Sprintf("draft:%s:%s", sessionID, field)
		pipe.Set(ctx, key, value, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache partner fields: %w", err)
	}

	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
