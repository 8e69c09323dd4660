// Package eventsink publishes booking state-change events.
package eventsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/m04kA/consult-booking/internal/domain"
)

var (
	// ErrMarshal возвращается, если событие не удалось сериализовать
	ErrMarshal = errors.New("eventsink: failed to marshal event")

	// ErrPublish возвращается, если Redis отклонил публикацию
	ErrPublish = errors.New("eventsink: failed to publish event")
)

// RedisClient часть *redis.Client, нужная издателю
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher публикует события в канал Redis в формате JSON
type RedisPublisher struct {
	client  RedisClient
	channel string
	timeout time.Duration
}

// NewRedisPublisher создает издателя. timeout ограничивает одну публикацию.
func NewRedisPublisher(client RedisClient, channel string, timeout time.Duration) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, timeout: timeout}
}

// Publish назначает событию id (если его нет) и отправляет в канал
func (p *RedisPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMarshal, event.Type, err)
	}

	// Публикация не должна зависеть от отмены запроса, который ее вызвал
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.client.Publish(pubCtx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: %s booking=%d: %v", ErrPublish, event.Type, event.BookingID, err)
	}
	return nil
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("eventsink: redis ping %s: %w", addr, err)
	}
	return client, nil
}

// NopPublisher отбрасывает события (sink выключен в конфигурации)
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.BookingEvent) error {
	return nil
}
