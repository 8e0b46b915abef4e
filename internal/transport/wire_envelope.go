package transport

import (
	"encoding/json"

	"github.com/chatzone/chatsync/internal/domain"
)

// Adonis-style typed envelope: {"t": 7, "d": {"topic", "event", "data"}}.
// Frames with any other t value are protocol chatter and are ignored. A
// bare {"event", "data"} frame is accepted as a degraded fallback.
type envelopeCodec struct{}

const envelopeTypeEvent = 7

type envelopeFrame struct {
	T int `json:"t"`
	D struct {
		Topic string          `json:"topic"`
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	} `json:"d"`
	// fallback flat shape
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (envelopeCodec) Name() string { return "envelope" }

func (envelopeCodec) Decode(data []byte) (domain.Event, bool) {
	var f envelopeFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.Event{}, false
	}

	if f.T == envelopeTypeEvent && f.D.Event != "" {
		kind, ok := knownKind(f.D.Event)
		if !ok {
			return domain.Event{}, false
		}
		channelID, _, _ := channelFromTopic(f.D.Topic)
		return buildEvent(kind, channelID, f.D.Data)
	}

	if f.Event != "" {
		kind, ok := knownKind(f.Event)
		if !ok {
			return domain.Event{}, false
		}
		return buildEvent(kind, "", f.Data)
	}

	return domain.Event{}, false
}

func (envelopeCodec) Encode(channelID domain.ChannelID, kind domain.EventKind, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"t": envelopeTypeEvent,
		"d": map[string]any{
			"topic": topicPrefix + string(channelID),
			"event": string(kind),
			"data":  payload,
		},
	})
}
