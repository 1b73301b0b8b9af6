package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livioambr/CLDE-Gruppe-6/internal/apperror"
	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
)

func turnOrders(session *entity.Session) []int {
	orders := make([]int, 0, len(session.Players))
	for _, player := range session.ConnectedPlayers() {
		orders = append(orders, player.TurnOrder)
	}

	return orders
}

func TestAddPlayer_AssignsDenseTurnOrder(t *testing.T) {
	// Given: an empty waiting session
	session := &entity.Session{ID: "session-1", Status: entity.StatusWaiting}

	// When: three players join one after the other
	ann := AddPlayer(session, "player-1", "Ann")
	bob := AddPlayer(session, "player-2", "Bob")
	eve := AddPlayer(session, "player-3", "Eve")

	// Then: turn orders are assigned densely in join order
	assert.Equal(t, 0, ann.TurnOrder)
	assert.Equal(t, 1, bob.TurnOrder)
	assert.Equal(t, 2, eve.TurnOrder)

	// Then: joining never moves the turn pointer
	assert.Equal(t, 0, session.CurrentTurnIndex)
}

func TestRemovePlayer_DensifiesAndRepairsIndex(t *testing.T) {
	t.Run("removing before the current player shifts the index down", func(t *testing.T) {
		// Given: three players with the turn at the last one
		session := newPlayingSession("SHIP", "Ann", "Bob", "Eve")
		session.CurrentTurnIndex = 2

		// When: the middle player leaves
		RemovePlayer(session, "player-2")

		// Then: remaining orders are dense again and the index followed its player
		assert.Equal(t, []int{0, 1}, turnOrders(session))
		assert.Equal(t, 1, session.CurrentTurnIndex)
	})

	t.Run("removing after the current player leaves the index alone", func(t *testing.T) {
		session := newPlayingSession("SHIP", "Ann", "Bob", "Eve")
		session.CurrentTurnIndex = 0

		RemovePlayer(session, "player-3")

		assert.Equal(t, []int{0, 1}, turnOrders(session))
		assert.Equal(t, 0, session.CurrentTurnIndex)
	})

	t.Run("removing the current last player wraps the index to the front", func(t *testing.T) {
		session := newPlayingSession("SHIP", "Ann", "Bob")
		session.CurrentTurnIndex = 1

		RemovePlayer(session, "player-2")

		assert.Equal(t, []int{0}, turnOrders(session))
		assert.Equal(t, 0, session.CurrentTurnIndex)
	})

	t.Run("removing an unknown player is a no-op", func(t *testing.T) {
		session := newPlayingSession("SHIP", "Ann", "Bob")

		RemovePlayer(session, "nobody")

		assert.Equal(t, []int{0, 1}, turnOrders(session))
		assert.Len(t, session.Players, 2)
	})

	t.Run("removing the last player leaves an unplayable session", func(t *testing.T) {
		session := newPlayingSession("SHIP", "Ann")

		RemovePlayer(session, "player-1")

		assert.Empty(t, session.ConnectedPlayers())
		assert.Equal(t, 0, session.CurrentTurnIndex)
	})
}

func TestRemovePlayer_OrdersStayDenseForAnyLeaveSequence(t *testing.T) {
	// Given: five players
	session := newPlayingSession("SHIP", "Ann", "Bob", "Eve", "Max", "Zoe")
	session.CurrentTurnIndex = 3

	// When: players leave in an arbitrary order
	for _, id := range []string{"player-4", "player-1", "player-5"} {
		RemovePlayer(session, id)

		// Then: after every removal the orders are exactly 0..N-1
		count := len(session.ConnectedPlayers())
		expected := make([]int, count)
		for i := range expected {
			expected[i] = i
		}
		assert.Equal(t, expected, turnOrders(session))

		if count > 0 {
			assert.Less(t, session.CurrentTurnIndex, count)
		}
	}
}

func TestAdvanceTurn(t *testing.T) {
	t.Run("rotates through all players and wraps", func(t *testing.T) {
		session := newPlayingSession("SHIP", "Ann", "Bob", "Eve")

		for _, expected := range []int{1, 2, 0, 1} {
			require.NoError(t, AdvanceTurn(session))
			assert.Equal(t, expected, session.CurrentTurnIndex)
		}
	})

	t.Run("fails without connected players", func(t *testing.T) {
		session := &entity.Session{ID: "session-1", Status: entity.StatusPlaying}

		err := AdvanceTurn(session)
		require.ErrorIs(t, err, apperror.ErrNoPlayers)
	})
}
