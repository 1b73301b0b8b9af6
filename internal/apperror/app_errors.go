package apperror

import "errors"

// Error is a validation failure with a stable machine code. Transports
// serialize the code and message to the requesting client; nothing is
// broadcast and no state is mutated when one of these is returned.
type Error struct {
	Code    string
	Message string
}

func (that *Error) Error() string {
	return that.Message
}

var (
	ErrNotActive      = &Error{Code: "NotActive", Message: "game is not active"}
	ErrNotYourTurn    = &Error{Code: "NotYourTurn", Message: "it's not your turn"}
	ErrAlreadyGuessed = &Error{Code: "AlreadyGuessed", Message: "letter was already guessed"}
	ErrInvalidLetter  = &Error{Code: "InvalidLetter", Message: "guess must be a single letter A-Z"}
	ErrUnknownPlayer  = &Error{Code: "UnknownPlayer", Message: "player is not in this session"}
	ErrNameTaken      = &Error{Code: "NameTaken", Message: "name is already in use, pick another one"}
	ErrGameInProgress = &Error{Code: "GameInProgress", Message: "game is already running"}
	ErrNoPlayers      = &Error{Code: "NoPlayers", Message: "no connected players in this session"}
	ErrAlreadyStarted = &Error{Code: "AlreadyStarted", Message: "game was already started"}
	ErrNotFinished    = &Error{Code: "NotFinished", Message: "game can only be reset after it finished"}
	ErrSessionClosing = &Error{Code: "SessionClosing", Message: "session is closing"}
	ErrNotFound       = &Error{Code: "NotFound", Message: "session not found"}
)

// CodeOf extracts the stable code from err, or "Internal" for
// infrastructure failures that must never look like validation errors.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return "Internal"
}

// IsValidation reports whether err is a recoverable validation failure.
func IsValidation(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr)
}
