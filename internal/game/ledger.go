package game

import (
	"github.com/livioambr/CLDE-Gruppe-6/internal/apperror"
	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
)

// The turn ledger is the single authority for turn-order arithmetic.
// Callers never recompute indices inline; they route every join, leave
// and rotation through these functions so the invariants hold in one
// place: connected turn orders form the dense range 0..N-1 and the
// current turn index stays inside it whenever N > 0.

// AddPlayer registers a new connected player at the end of the turn
// order. The current turn index is left untouched.
func AddPlayer(session *entity.Session, id, name string) *entity.Player {
	player := &entity.Player{
		ID:          id,
		Name:        name,
		TurnOrder:   len(session.ConnectedPlayers()),
		IsConnected: true,
	}

	session.Players = append(session.Players, player)

	return player
}

// RemovePlayer drops a player from the session, re-densifies the
// remaining turn orders and repairs the current turn index:
// removing a player at or before the current index shifts the index
// down by one (floored at 0), and an index that ends up past the new
// player count wraps to 0.
func RemovePlayer(session *entity.Session, playerID string) {
	removed := session.PlayerByID(playerID)
	if removed == nil {
		return
	}

	oldOrder := removed.TurnOrder
	oldIndex := session.CurrentTurnIndex

	players := make([]*entity.Player, 0, len(session.Players)-1)
	for _, player := range session.Players {
		if player.ID != playerID {
			players = append(players, player)
		}
	}
	session.Players = players

	order := 0
	for _, player := range session.Players {
		if player.IsConnected {
			player.TurnOrder = order
			order++
		}
	}

	index := oldIndex
	if removed.IsConnected && oldOrder <= oldIndex {
		index--
		if index < 0 {
			index = 0
		}
	}

	remaining := len(session.ConnectedPlayers())
	if remaining == 0 || index >= remaining {
		index = 0
	}

	session.CurrentTurnIndex = index
}

// AdvanceTurn rotates the current turn index to the next connected
// player. A session without connected players has no valid turn.
func AdvanceTurn(session *entity.Session) error {
	count := len(session.ConnectedPlayers())
	if count == 0 {
		return apperror.ErrNoPlayers
	}

	session.CurrentTurnIndex = (session.CurrentTurnIndex + 1) % count

	return nil
}
