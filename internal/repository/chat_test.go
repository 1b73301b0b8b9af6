package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livioambr/CLDE-Gruppe-6/testing/suite"
)

func TestChatRepository_AppendAndHistory(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewChatRepository(st.Storage)

	// Given: a player message and a system line
	first := &ChatMessage{PlayerID: "player-1", PlayerName: "Ann", Text: "hi", SentAt: time.Now().UTC()}
	second := &ChatMessage{Text: "Spiel gestartet!", System: true, SentAt: time.Now().UTC()}

	require.NoError(t, repo.Append(ctx, "session-1", first))
	require.NoError(t, repo.Append(ctx, "session-1", second))

	// When: the history is read back
	history, err := repo.History(ctx, "session-1", 0)
	require.NoError(t, err)

	// Then: messages come back in send order
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0].Text)
	assert.Equal(t, "Ann", history[0].PlayerName)
	assert.True(t, history[1].System)
}

func TestChatRepository_HistoryIsCapped(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewChatRepository(st.Storage)

	// Given: more messages than the cap allows
	for i := 0; i < maxChatHistory+20; i++ {
		message := &ChatMessage{Text: fmt.Sprintf("message %d", i), SentAt: time.Now().UTC()}
		require.NoError(t, repo.Append(ctx, "session-1", message))
	}

	history, err := repo.History(ctx, "session-1", 0)
	require.NoError(t, err)

	// Then: only the newest messages survive
	require.Len(t, history, maxChatHistory)
	assert.Equal(t, "message 20", history[0].Text)
}

func TestChatRepository_Clear(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewChatRepository(st.Storage)

	require.NoError(t, repo.Append(ctx, "session-1", &ChatMessage{Text: "hi", SentAt: time.Now().UTC()}))
	require.NoError(t, repo.Clear(ctx, "session-1"))

	history, err := repo.History(ctx, "session-1", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}
