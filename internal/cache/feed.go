package cache

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"KidFlex/internal/model/dto"
	"KidFlex/pkg/logger"
	"KidFlex/storage/redis"
)

const preferenceChannel = "day-preferences:changes"

// RedisPreferenceFeed fans preference snapshots out to watchers through
// Redis pub/sub, so watchers on any server instance see every change.
type RedisPreferenceFeed struct{}

func NewRedisPreferenceFeed() *RedisPreferenceFeed {
	return &RedisPreferenceFeed{}
}

func (f *RedisPreferenceFeed) Publish(ctx context.Context, snapshot dto.PreferenceSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	channel := redis.Key(preferenceChannel)
	return redis.Client().Publish(ctx, channel, data).Err()
}

// Subscribe returns a channel of snapshots and a cancel function. The
// channel closes when ctx ends, cancel is called, or the subscription
// fails.
func (f *RedisPreferenceFeed) Subscribe(ctx context.Context) (<-chan dto.PreferenceSnapshot, func(), error) {
	channel := redis.Key(preferenceChannel)
	sub := redis.Client().Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan dto.PreferenceSnapshot, 8)
	done := make(chan struct{})

	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var snapshot dto.PreferenceSnapshot
				if err := json.Unmarshal([]byte(msg.Payload), &snapshot); err != nil {
					logger.Logger.Warn("Dropping undecodable preference event", zap.Error(err))
					continue
				}

				select {
				case out <- snapshot:
				default:
					// Slow watchers skip intermediate snapshots.
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}

	return out, cancel, nil
}
