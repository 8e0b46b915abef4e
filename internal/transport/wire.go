package transport

import (
	"encoding/json"
	"strings"

	"github.com/chatzone/chatsync/internal/domain"
)

// WireCodec translates between one deployment's wire framing and the
// normalized event vocabulary. New deployments add a codec; consumers
// of the bus never change.
type WireCodec interface {
	Name() string
	// Decode returns the normalized event, or ok=false when the frame
	// is not one of ours. Unrecognized frames are dropped silently for
	// forward compatibility, never treated as errors.
	Decode(data []byte) (domain.Event, bool)
	// Encode frames an outbound event for the channel topic.
	Encode(channelID domain.ChannelID, kind domain.EventKind, payload any) ([]byte, error)
}

// CodecFor selects a codec by its configured name.
func CodecFor(name string) WireCodec {
	switch name {
	case "subevent":
		return subEventCodec{}
	case "wildcard":
		return wildcardCodec{}
	default:
		return envelopeCodec{}
	}
}

const topicPrefix = "chat:"

// channelFromTopic extracts the channel ID from "chat:<id>" or
// "chat:<id>:<event>" topics.
func channelFromTopic(topic string) (domain.ChannelID, string, bool) {
	if !strings.HasPrefix(topic, topicPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(topic, topicPrefix)
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		return domain.ChannelID(rest[:i]), rest[i+1:], true
	}
	return domain.ChannelID(rest), "", true
}

func knownKind(s string) (domain.EventKind, bool) {
	switch k := domain.EventKind(s); k {
	case domain.EventMessage, domain.EventTyping, domain.EventJoin,
		domain.EventLeave, domain.EventPresence, domain.EventPin,
		domain.EventReadReceipt:
		return k, true
	}
	return "", false
}

// eventPayload is the union of domain fields any wire variant may carry
// alongside a frame. ChannelID inside the payload wins over the topic
// only when the topic carried none.
type eventPayload struct {
	ChannelID domain.ChannelID    `json:"channel_id"`
	Message   *domain.Message     `json:"message"`
	UserID    domain.UserID       `json:"user_id"`
	Nickname  string              `json:"nickname"`
	Status    domain.Status       `json:"status"`
	Typing    bool                `json:"typing"`
	MessageID domain.MessageID    `json:"message_id"`
	Pinned    bool                `json:"pinned"`
	ReadAt    json.RawMessage     `json:"read_at"`
	Receipt   *domain.ReadReceipt `json:"receipt"`
}

func buildEvent(kind domain.EventKind, channelID domain.ChannelID, raw json.RawMessage) (domain.Event, bool) {
	var p eventPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return domain.Event{}, false
		}
	}
	if channelID == "" {
		channelID = p.ChannelID
	}
	if channelID == "" {
		return domain.Event{}, false
	}

	ev := domain.Event{
		Kind:      kind,
		ChannelID: channelID,
		UserID:    p.UserID,
		Nickname:  p.Nickname,
		Status:    p.Status,
		Typing:    p.Typing,
		MessageID: p.MessageID,
		Pinned:    p.Pinned,
		Receipt:   p.Receipt,
	}

	switch kind {
	case domain.EventMessage:
		// the message may be nested or be the payload itself
		if p.Message != nil {
			ev.Message = p.Message
		} else {
			var m domain.Message
			if err := json.Unmarshal(raw, &m); err != nil || m.ID == "" {
				return domain.Event{}, false
			}
			ev.Message = &m
		}
		if ev.Message.ChannelID == "" {
			ev.Message.ChannelID = channelID
		}
	case domain.EventPresence:
		if !domain.ValidStatus(ev.Status) {
			return domain.Event{}, false
		}
	case domain.EventReadReceipt:
		if ev.Receipt == nil && ev.UserID != "" {
			ev.Receipt = &domain.ReadReceipt{UserID: ev.UserID}
		}
		if ev.Receipt == nil || ev.MessageID == "" {
			return domain.Event{}, false
		}
	}
	return ev, true
}
