package app

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

// FilterCache holds the compiled rejection patterns per channel. Patterns are
// stored as plain strings in the channel options; compiling them on every
// callback would be wasted work, so compiled patterns are cached and
// invalidated whenever the channel record changes.
type FilterCache struct {
	mu      sync.RWMutex
	entries map[int64]*filterEntry
}

type filterEntry struct {
	version time.Time
	content *regexp.Regexp
	sender  *regexp.Regexp
}

func NewFilterCache() *FilterCache {
	return &FilterCache{entries: make(map[int64]*filterEntry)}
}

// For returns the compiled content and sender rejection patterns of the
// channel. A nil pattern means the corresponding stage is skipped.
func (c *FilterCache) For(channel *domain.Channel) (content, sender *regexp.Regexp, err error) {
	c.mu.RLock()
	entry, ok := c.entries[channel.ID]
	c.mu.RUnlock()
	if ok && entry.version.Equal(channel.UpdatedAt) {
		return entry.content, entry.sender, nil
	}

	entry = &filterEntry{version: channel.UpdatedAt}
	if pattern := channel.Options.RejectMsg; pattern != "" {
		entry.content, err = regexp.Compile(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid reject_msg pattern on channel %d: %w", channel.ID, err)
		}
	}
	if pattern := channel.Options.RejectSender; pattern != "" {
		entry.sender, err = regexp.Compile(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid reject_sender pattern on channel %d: %w", channel.ID, err)
		}
	}

	c.mu.Lock()
	c.entries[channel.ID] = entry
	c.mu.Unlock()
	return entry.content, entry.sender, nil
}
