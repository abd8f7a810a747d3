package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cityListKey     = "weather:cities"
	lastCityKey     = "weather:last_city"
	cityListChannel = "weather:cities:changed"
)

// RedisStore persists the city list and last-viewed city in redis and uses
// pub/sub to deliver cross-process change notifications.
type RedisStore struct {
	client *redis.Client

	// writerID tags published changes so a process can ignore its own.
	writerID string
}

// changeEnvelope is the pub/sub payload for city-list changes.
type changeEnvelope struct {
	Writer string   `json:"writer"`
	Cities []string `json:"cities"`
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:   client,
		writerID: uuid.NewString(),
	}
}

// ConnectRedis parses the URL, connects and verifies the connection.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]string, error) {
	data, err := s.client.Get(ctx, cityListKey).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load city list: %w", err)
	}

	var cities []string
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, fmt.Errorf("decode city list: %w", err)
	}
	return cities, nil
}

func (s *RedisStore) Save(ctx context.Context, cities []string) error {
	data, err := json.Marshal(cities)
	if err != nil {
		return fmt.Errorf("encode city list: %w", err)
	}

	if err := s.client.Set(ctx, cityListKey, data, 0).Err(); err != nil {
		return fmt.Errorf("save city list: %w", err)
	}

	payload, err := json.Marshal(changeEnvelope{Writer: s.writerID, Cities: cities})
	if err != nil {
		return fmt.Errorf("encode change notification: %w", err)
	}
	if err := s.client.Publish(ctx, cityListChannel, payload).Err(); err != nil {
		// The write itself succeeded; other processes will catch up on
		// their next load.
		log.Printf("store: publish city list change failed: %v", err)
	}
	return nil
}

// Changes subscribes to city-list updates published by other processes.
// The returned channel closes when ctx is cancelled.
func (s *RedisStore) Changes(ctx context.Context) (<-chan []string, error) {
	sub := s.client.Subscribe(ctx, cityListChannel)
	if _, err := sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("subscribe to city list changes: %w", err)
	}

	out := make(chan []string)
	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}

				var envelope changeEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
					log.Printf("store: malformed city list notification: %v", err)
					continue
				}
				if envelope.Writer == s.writerID {
					continue
				}

				select {
				case out <- envelope.Cities:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *RedisStore) LastCity(ctx context.Context) (string, error) {
	city, err := s.client.Get(ctx, lastCityKey).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load last city: %w", err)
	}
	return city, nil
}

func (s *RedisStore) SetLastCity(ctx context.Context, city string) error {
	if err := s.client.Set(ctx, lastCityKey, city, 0).Err(); err != nil {
		return fmt.Errorf("save last city: %w", err)
	}
	return nil
}
