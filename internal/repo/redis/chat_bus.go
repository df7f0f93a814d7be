package redis

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

const chatChannelPrefix = "chat:match:"

// ChatBus fans message payloads out to every subscriber of a match channel.
// Redis pub/sub preserves publish order per channel, which is what gives each
// subscriber the append order of the conversation.
type ChatBus struct {
	client *goredis.Client
}

func NewChatBus(client *goredis.Client) *ChatBus {
	return &ChatBus{client: client}
}

func (b *ChatBus) Publish(ctx context.Context, matchID int64, payload []byte) error {
	if b.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if matchID <= 0 || len(payload) == 0 {
		return fmt.Errorf("invalid chat publish payload")
	}

	if err := b.client.Publish(ctx, chatChannel(matchID), payload).Err(); err != nil {
		return fmt.Errorf("publish chat payload: %w", err)
	}

	return nil
}

// Subscribe opens a live feed for one match. The subscription is confirmed
// before returning, so everything published afterwards is delivered. The
// returned stop func closes the feed; the payload channel closes after stop
// or when the connection drops.
func (b *ChatBus) Subscribe(ctx context.Context, matchID int64) (<-chan []byte, func(), error) {
	if b.client == nil {
		return nil, nil, fmt.Errorf("redis client is nil")
	}
	if matchID <= 0 {
		return nil, nil, fmt.Errorf("invalid match id")
	}

	sub := b.client.Subscribe(ctx, chatChannel(matchID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("confirm chat subscription: %w", err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		_ = sub.Close()
	}

	return out, stop, nil
}

func chatChannel(matchID int64) string {
	return chatChannelPrefix + strconv.FormatInt(matchID, 10)
}
