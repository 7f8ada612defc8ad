// Package broadcast publishes state-change events to a Redis pub/sub
// channel, grounded on the playlist-service's own publishEvent helper.
package broadcast

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/arcflow/core/internal/core"
)

// Publisher fans a Store's post-reduce state out to a Redis channel so
// other processes (a companion UI, a second device) can mirror playback.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

// New connects a Publisher using a redis:// URL and the channel name to
// publish on.
func New(redisURL, channel string) (*Publisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Publisher{rdb: redis.NewClient(opt), channel: channel}, nil
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}

// event is the wire shape of a broadcast message: a type tag plus an
// arbitrary payload, matching the {"type":..., "payload":...} shape the
// playlist-service already publishes.
type event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// PublishStateChanged sends a snapshot of the queue's playback cursor.
// Intended to be registered with Store.OnStateChanged.
func (p *Publisher) PublishStateChanged(ctx context.Context, state core.State) {
	p.publish(ctx, event{
		Type: "queue.changed",
		Payload: map[string]any{
			"selectedPlaylistId": state.Queue.SelectedPlaylistID,
			"currentItemId":      state.Queue.CurrentItemID,
			"playerKind":         int(state.Player.Kind),
		},
	})
}

// Listener adapts PublishStateChanged to the core.Listener signature so it
// can be passed directly to Store.OnStateChanged.
func (p *Publisher) Listener() func(core.State) {
	return func(state core.State) {
		p.PublishStateChanged(context.Background(), state)
	}
}

func (p *Publisher) publish(ctx context.Context, e event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("arcflow: broadcast: marshal event: %v", err)
		return
	}
	if err := p.rdb.Publish(ctx, p.channel, string(data)).Err(); err != nil {
		log.Printf("arcflow: broadcast: publish event: %v", err)
	}
}
