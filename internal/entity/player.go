package entity

// Player is one participant of a session. TurnOrder values of connected
// players always form the contiguous range 0..N-1; the turn ledger
// re-densifies them whenever somebody leaves.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TurnOrder   int    `json:"turn_order"`
	IsHost      bool   `json:"is_host"`
	IsConnected bool   `json:"is_connected"`
}
