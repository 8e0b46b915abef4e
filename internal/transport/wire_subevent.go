package transport

import (
	"encoding/json"

	"github.com/chatzone/chatsync/internal/domain"
)

// Flat topic-subscription framing with the event named beside the topic:
// {"topic": "chat:<id>", "event": "message", "data": {...}}.
type subEventCodec struct{}

type subEventFrame struct {
	Topic string          `json:"topic"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (subEventCodec) Name() string { return "subevent" }

func (subEventCodec) Decode(data []byte) (domain.Event, bool) {
	var f subEventFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.Event{}, false
	}
	if f.Event == "" {
		return domain.Event{}, false
	}
	kind, ok := knownKind(f.Event)
	if !ok {
		return domain.Event{}, false
	}
	channelID, _, _ := channelFromTopic(f.Topic)
	return buildEvent(kind, channelID, f.Data)
}

func (subEventCodec) Encode(channelID domain.ChannelID, kind domain.EventKind, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"topic": topicPrefix + string(channelID),
		"event": string(kind),
		"data":  payload,
	})
}
