package entity

import (
	"strings"
	"time"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Placeholder is shown for every letter of the word that was not guessed yet.
const Placeholder = "_"

// Guess records the most recent guess so late joiners can render it.
type Guess struct {
	PlayerID string `json:"player_id"`
	Letter   string `json:"letter"`
	Correct  bool   `json:"correct"`
}

// Session is the authoritative state of one hosted game: the lobby, its
// players and the current round. It is persisted and broadcast as a whole,
// never in parts.
type Session struct {
	ID   string `json:"id"`
	Code string `json:"code"`

	// Word is the secret word, always uppercase. It must never leave the
	// server while the round is running; see PublicView.
	Word string `json:"word"`

	Status           string    `json:"status"`
	AttemptsLeft     int       `json:"attempts_left"`
	MaxAttempts      int       `json:"max_attempts"`
	CurrentTurnIndex int       `json:"current_turn_index"`
	GuessedLetters   []string  `json:"guessed_letters"`
	IncorrectGuesses []string  `json:"incorrect_guesses"`
	LastGuess        *Guess    `json:"last_guess,omitempty"`
	Players          []*Player `json:"players"`

	// Closing marks a session whose host left; every mutating operation
	// checks it before touching state, so teardown can't race a write.
	Closing bool `json:"closing,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	LastActivity time.Time  `json:"last_activity"`
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Session) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

// ConnectedPlayers returns the connected players ordered by turn order.
// Players is kept sorted by turn order, so no re-sort is needed here.
func (that *Session) ConnectedPlayers() []*Player {
	players := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		if player.IsConnected {
			players = append(players, player)
		}
	}

	return players
}

func (that *Session) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

func (that *Session) Host() *Player {
	for _, player := range that.Players {
		if player.IsHost {
			return player
		}
	}

	return nil
}

func (that *Session) HasGuessed(letter string) bool {
	for _, guessed := range that.GuessedLetters {
		if guessed == letter {
			return true
		}
	}

	return false
}

// WordProgress maps every character of the word to itself if guessed and
// to the placeholder otherwise, joined with single spaces.
func (that *Session) WordProgress() string {
	chars := make([]string, 0, len(that.Word))
	for _, r := range that.Word {
		char := string(r)
		if that.HasGuessed(char) {
			chars = append(chars, char)
		} else {
			chars = append(chars, Placeholder)
		}
	}

	return strings.Join(chars, " ")
}

// Touch bumps the activity timestamp; the stale-session reaper only
// deletes sessions whose LastActivity fell behind the configured window.
func (that *Session) Touch(now time.Time) {
	that.LastActivity = now
}
