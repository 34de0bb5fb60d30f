package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

func TestFilterCache_EmptyPatternsSkipStages(t *testing.T) {
	cache := NewFilterCache()
	channel := &domain.Channel{ID: 1, UpdatedAt: time.Now()}

	content, sender, err := cache.For(channel)
	require.NoError(t, err)
	assert.Nil(t, content)
	assert.Nil(t, sender)
}

func TestFilterCache_CompilesAndReuses(t *testing.T) {
	cache := NewFilterCache()
	channel := &domain.Channel{
		ID:        1,
		Options:   domain.ChannelOptions{RejectMsg: ".*loop_check.*", RejectSender: "spam_number"},
		UpdatedAt: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	content, sender, err := cache.For(channel)
	require.NoError(t, err)
	require.NotNil(t, content)
	require.NotNil(t, sender)
	assert.True(t, content.MatchString("a loop_check probe"))
	assert.True(t, sender.MatchString("spam_number here"))

	// Same version hands back the same compiled patterns.
	content2, sender2, err := cache.For(channel)
	require.NoError(t, err)
	assert.Same(t, content, content2)
	assert.Same(t, sender, sender2)
}

func TestFilterCache_RecompilesOnChannelChange(t *testing.T) {
	cache := NewFilterCache()
	channel := &domain.Channel{
		ID:        1,
		Options:   domain.ChannelOptions{RejectMsg: "old_pattern"},
		UpdatedAt: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	content, _, err := cache.For(channel)
	require.NoError(t, err)
	assert.True(t, content.MatchString("old_pattern"))

	channel.Options.RejectMsg = "new_pattern"
	channel.UpdatedAt = channel.UpdatedAt.Add(time.Minute)

	content, _, err = cache.For(channel)
	require.NoError(t, err)
	assert.False(t, content.MatchString("old_pattern"))
	assert.True(t, content.MatchString("new_pattern"))
}

func TestFilterCache_InvalidPattern(t *testing.T) {
	cache := NewFilterCache()
	channel := &domain.Channel{
		ID:        1,
		Options:   domain.ChannelOptions{RejectMsg: "("},
		UpdatedAt: time.Now(),
	}

	_, _, err := cache.For(channel)
	assert.Error(t, err)
}
