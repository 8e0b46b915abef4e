package messages

import "github.com/chatzone/chatsync/internal/domain"

// Search results live beside the primary log and never leak into it:
// a search is read-only with respect to the channel window.

func (e *Engine) SetSearchResults(channelID domain.ChannelID, results []*domain.Message) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search[channelID] = results
}

func (e *Engine) SearchResults(channelID domain.ChannelID) []*domain.Message {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*domain.Message, len(e.search[channelID]))
	copy(out, e.search[channelID])
	return out
}

func (e *Engine) ClearSearch(channelID domain.ChannelID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.search, channelID)
}
