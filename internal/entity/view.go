package entity

// SessionView is the subset of session state that is safe to send to
// clients. The secret word is only present after the round ended, when it
// is revealed to everyone.
type SessionView struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	Status           string    `json:"status"`
	Word             string    `json:"word,omitempty"`
	WordProgress     string    `json:"word_progress"`
	AttemptsLeft     int       `json:"attempts_left"`
	MaxAttempts      int       `json:"max_attempts"`
	CurrentTurnIndex int       `json:"current_turn_index"`
	GuessedLetters   []string  `json:"guessed_letters"`
	IncorrectGuesses []string  `json:"incorrect_guesses"`
	LastGuess        *Guess    `json:"last_guess,omitempty"`
	Players          []*Player `json:"players"`
}

// PublicView builds the client-facing snapshot. This is the only shape
// transports are allowed to serialize; it keeps the secret word masked
// until the session is finished.
func (that *Session) PublicView() *SessionView {
	view := &SessionView{
		ID:               that.ID,
		Code:             that.Code,
		Status:           that.Status,
		WordProgress:     that.WordProgress(),
		AttemptsLeft:     that.AttemptsLeft,
		MaxAttempts:      that.MaxAttempts,
		CurrentTurnIndex: that.CurrentTurnIndex,
		GuessedLetters:   that.GuessedLetters,
		IncorrectGuesses: that.IncorrectGuesses,
		LastGuess:        that.LastGuess,
		Players:          that.Players,
	}

	if that.IsFinished() {
		view.Word = that.Word
	}

	return view
}
