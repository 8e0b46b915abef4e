package transport

import (
	"encoding/json"

	"github.com/chatzone/chatsync/internal/domain"
)

// Wildcard dispatch: the event rides in the topic itself,
// {"topic": "chat:<id>:<event>", "data": {...}}.
type wildcardCodec struct{}

type wildcardFrame struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

func (wildcardCodec) Name() string { return "wildcard" }

func (wildcardCodec) Decode(data []byte) (domain.Event, bool) {
	var f wildcardFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.Event{}, false
	}
	channelID, suffix, ok := channelFromTopic(f.Topic)
	if !ok || suffix == "" {
		return domain.Event{}, false
	}
	kind, ok := knownKind(suffix)
	if !ok {
		return domain.Event{}, false
	}
	return buildEvent(kind, channelID, f.Data)
}

func (wildcardCodec) Encode(channelID domain.ChannelID, kind domain.EventKind, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"topic": topicPrefix + string(channelID) + ":" + string(kind),
		"data":  payload,
	})
}
