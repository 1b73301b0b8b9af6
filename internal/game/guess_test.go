package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livioambr/CLDE-Gruppe-6/internal/apperror"
	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
)

func newPlayingSession(word string, names ...string) *entity.Session {
	session := &entity.Session{
		ID:               "session-1",
		Code:             "ABCDEF",
		Word:             word,
		Status:           entity.StatusPlaying,
		AttemptsLeft:     6,
		MaxAttempts:      6,
		GuessedLetters:   []string{},
		IncorrectGuesses: []string{},
	}

	for i, name := range names {
		player := AddPlayer(session, fmt.Sprintf("player-%d", i+1), name)
		if i == 0 {
			player.IsHost = true
		}
	}

	return session
}

func TestApplyGuess_CorrectLetter(t *testing.T) {
	// Given: a running game on "SHIP" with Ann and Bob, Ann to move
	session := newPlayingSession("SHIP", "Ann", "Bob")

	// When: Ann guesses a letter that is in the word
	result, err := ApplyGuess(session, "player-1", "H")
	require.NoError(t, err)

	// Then: the letter is revealed, no attempt is lost, turn passes to Bob
	assert.Equal(t, "_ H _ _", result.WordProgress)
	assert.Equal(t, 6, result.AttemptsLeft)
	assert.True(t, result.Correct)
	assert.Equal(t, 1, result.NextTurnIndex)
	assert.False(t, result.Won)
	assert.False(t, result.Lost)
	assert.Empty(t, result.Word)

	// Then: the session carries the same state
	assert.Equal(t, entity.StatusPlaying, session.Status)
	assert.Equal(t, []string{"H"}, session.GuessedLetters)
	assert.Empty(t, session.IncorrectGuesses)
	assert.Equal(t, 1, session.CurrentTurnIndex)
}

func TestApplyGuess_WrongLetter(t *testing.T) {
	// Given: Ann already revealed 'H', Bob to move
	session := newPlayingSession("SHIP", "Ann", "Bob")
	_, err := ApplyGuess(session, "player-1", "H")
	require.NoError(t, err)

	// When: Bob guesses a letter that is not in the word
	result, err := ApplyGuess(session, "player-2", "Z")
	require.NoError(t, err)

	// Then: one attempt is lost, the miss is recorded, turn passes back to Ann
	assert.False(t, result.Correct)
	assert.Equal(t, 5, result.AttemptsLeft)
	assert.Equal(t, []string{"Z"}, result.IncorrectGuesses)
	assert.Equal(t, 0, result.NextTurnIndex)
	assert.Equal(t, entity.StatusPlaying, session.Status)
}

func TestApplyGuess_WinRevealsWord(t *testing.T) {
	// Given: a short word with one letter missing
	session := newPlayingSession("GO", "Ann")
	_, err := ApplyGuess(session, "player-1", "G")
	require.NoError(t, err)

	// When: the last letter is guessed
	result, err := ApplyGuess(session, "player-1", "O")
	require.NoError(t, err)

	// Then: the game finishes won and the word is revealed
	assert.True(t, result.Won)
	assert.False(t, result.Lost)
	assert.Equal(t, "G O", result.WordProgress)
	assert.Equal(t, "GO", result.Word)
	assert.Equal(t, entity.StatusFinished, session.Status)
}

func TestApplyGuess_LossRevealsWord(t *testing.T) {
	// Given: a game with a single attempt left
	session := newPlayingSession("SHIP", "Ann", "Bob")
	session.AttemptsLeft = 1

	// When: the current player guesses wrong
	result, err := ApplyGuess(session, "player-1", "Q")
	require.NoError(t, err)

	// Then: the game finishes lost and the word is revealed
	assert.True(t, result.Lost)
	assert.False(t, result.Won)
	assert.Equal(t, 0, result.AttemptsLeft)
	assert.Equal(t, "SHIP", result.Word)
	assert.Equal(t, entity.StatusFinished, session.Status)
}

func TestApplyGuess_Preconditions(t *testing.T) {
	t.Run("rejects non-letters before anything else", func(t *testing.T) {
		// Given: a session that is not even playing
		session := newPlayingSession("SHIP", "Ann")
		session.Status = entity.StatusWaiting

		// When/Then: the invalid letter wins over the inactive status
		for _, raw := range []string{"", "1", "AB", "?"} {
			_, err := ApplyGuess(session, "player-1", raw)
			require.ErrorIs(t, err, apperror.ErrInvalidLetter, "input %q", raw)
		}
	})

	t.Run("rejects guesses outside a running game", func(t *testing.T) {
		session := newPlayingSession("SHIP", "Ann")
		session.Status = entity.StatusWaiting

		_, err := ApplyGuess(session, "player-1", "A")
		require.ErrorIs(t, err, apperror.ErrNotActive)
	})

	t.Run("rejects unknown players", func(t *testing.T) {
		session := newPlayingSession("SHIP", "Ann")

		_, err := ApplyGuess(session, "nobody", "A")
		require.ErrorIs(t, err, apperror.ErrUnknownPlayer)
	})

	t.Run("rejects guesses out of turn", func(t *testing.T) {
		session := newPlayingSession("SHIP", "Ann", "Bob")

		_, err := ApplyGuess(session, "player-2", "A")
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("second guess of the same letter changes nothing", func(t *testing.T) {
		// Given: Ann guessed 'S', Bob guessed 's' is the same letter
		session := newPlayingSession("SHIP", "Ann", "Bob")
		_, err := ApplyGuess(session, "player-1", "S")
		require.NoError(t, err)

		attemptsBefore := session.AttemptsLeft
		guessedBefore := len(session.GuessedLetters)
		indexBefore := session.CurrentTurnIndex

		// When: the same letter is guessed again, case-folded
		_, err = ApplyGuess(session, "player-2", "s")

		// Then: AlreadyGuessed, and the session state is untouched
		require.ErrorIs(t, err, apperror.ErrAlreadyGuessed)
		assert.Equal(t, attemptsBefore, session.AttemptsLeft)
		assert.Len(t, session.GuessedLetters, guessedBefore)
		assert.Equal(t, indexBefore, session.CurrentTurnIndex)
	})
}

func TestApplyGuess_LowercaseIsFolded(t *testing.T) {
	session := newPlayingSession("SHIP", "Ann")

	result, err := ApplyGuess(session, "player-1", "h")
	require.NoError(t, err)

	assert.Equal(t, "H", result.Letter)
	assert.True(t, result.Correct)
}

func TestApplyGuess_AttemptsNeverIncrease(t *testing.T) {
	// Given: a running single-player game
	session := newPlayingSession("SHIP", "Ann")

	// When: a mix of right and wrong guesses is applied
	previous := session.AttemptsLeft
	for _, letter := range []string{"S", "Q", "H", "X", "I"} {
		_, err := ApplyGuess(session, "player-1", letter)
		require.NoError(t, err)

		// Then: attempts never go up while the game runs
		assert.LessOrEqual(t, session.AttemptsLeft, previous)
		previous = session.AttemptsLeft
	}
}
