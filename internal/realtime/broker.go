package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const changesChannel = "genova:changes"

// ChangeEvent mirrors one record-store mutation to subscribers. Channel is
// the collection name, optionally scoped ("project_messages:<projectID>").
type ChangeEvent struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"` // insert | update | delete
	Record  interface{} `json:"record"`
}

// Broker publishes change events through Redis so every instance's hub
// sees them; the bridge goroutine feeds received events into the local hub.
type Broker struct {
	Hub *Hub
	RDB *redis.Client
}

func NewBroker(hub *Hub, rdb *redis.Client) *Broker {
	return &Broker{Hub: hub, RDB: rdb}
}

// Publish emits a change event. Delivery is best-effort: a failed publish
// is logged and the mutation proceeds.
func (b *Broker) Publish(ctx context.Context, channel, event string, record interface{}) {
	payload, err := json.Marshal(ChangeEvent{Channel: channel, Event: event, Record: record})
	if err != nil {
		log.Printf("realtime: marshal change event: %v", err)
		return
	}
	if err := b.RDB.Publish(ctx, changesChannel, payload).Err(); err != nil {
		log.Printf("realtime: publish change event: %v", err)
	}
}

// Bridge subscribes to the shared Redis channel and fans received events
// out to local websocket clients. Runs until ctx is cancelled.
func (b *Broker) Bridge(ctx context.Context) {
	sub := b.RDB.Subscribe(ctx, changesChannel)
	defer sub.Close()

	for {
		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("realtime: bridge receive: %v", err)
			continue
		}

		var ev ChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("realtime: bridge decode: %v", err)
			continue
		}
		b.Hub.Fanout(ev.Channel, []byte(msg.Payload))
	}
}
