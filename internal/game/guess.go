package game

import (
	"strings"

	"github.com/livioambr/CLDE-Gruppe-6/internal/apperror"
	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
)

// Result describes the outcome of one applied guess. Word is only filled
// when the round just ended, because that is the terminal reveal.
type Result struct {
	Letter           string   `json:"letter"`
	Correct          bool     `json:"correct"`
	WordProgress     string   `json:"word_progress"`
	AttemptsLeft     int      `json:"attempts_left"`
	GuessedLetters   []string `json:"guessed_letters"`
	IncorrectGuesses []string `json:"incorrect_guesses"`
	NextTurnIndex    int      `json:"next_turn_index"`
	Won              bool     `json:"won"`
	Lost             bool     `json:"lost"`
	Word             string   `json:"word,omitempty"`
}

// NormalizeLetter folds a raw guess to its uppercase form and rejects
// anything that is not exactly one letter A-Z.
func NormalizeLetter(raw string) (string, error) {
	letter := strings.ToUpper(strings.TrimSpace(raw))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return "", apperror.ErrInvalidLetter
	}

	return letter, nil
}

// ApplyGuess validates and applies one guessed letter. Preconditions are
// checked in a fixed order and the first violation returns without any
// mutation. On success the session carries the complete new state: guess
// sets, attempts, word progress, status and the advanced turn.
func ApplyGuess(session *entity.Session, playerID, rawLetter string) (*Result, error) {
	letter, err := NormalizeLetter(rawLetter)
	if err != nil {
		return nil, err
	}

	if !session.IsPlaying() {
		return nil, apperror.ErrNotActive
	}

	player := session.PlayerByID(playerID)
	if player == nil || !player.IsConnected {
		return nil, apperror.ErrUnknownPlayer
	}

	if player.TurnOrder != session.CurrentTurnIndex {
		return nil, apperror.ErrNotYourTurn
	}

	if session.HasGuessed(letter) {
		return nil, apperror.ErrAlreadyGuessed
	}

	if len(session.ConnectedPlayers()) == 0 {
		return nil, apperror.ErrNoPlayers
	}

	session.GuessedLetters = append(session.GuessedLetters, letter)

	correct := strings.Contains(session.Word, letter)
	if !correct {
		session.AttemptsLeft--
		session.IncorrectGuesses = append(session.IncorrectGuesses, letter)
	}

	session.LastGuess = &entity.Guess{
		PlayerID: playerID,
		Letter:   letter,
		Correct:  correct,
	}

	progress := session.WordProgress()
	won := !strings.Contains(progress, entity.Placeholder)
	lost := !won && session.AttemptsLeft <= 0

	if won || lost {
		session.Status = entity.StatusFinished
	} else if err = AdvanceTurn(session); err != nil {
		return nil, err
	}

	result := &Result{
		Letter:           letter,
		Correct:          correct,
		WordProgress:     progress,
		AttemptsLeft:     session.AttemptsLeft,
		GuessedLetters:   session.GuessedLetters,
		IncorrectGuesses: session.IncorrectGuesses,
		NextTurnIndex:    session.CurrentTurnIndex,
		Won:              won,
		Lost:             lost,
	}

	if won || lost {
		result.Word = session.Word
	}

	return result, nil
}
