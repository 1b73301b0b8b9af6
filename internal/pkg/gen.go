package pkg

import (
	"crypto/rand"
	"encoding/base64"
)

// CodeAlphabet contains the characters used for join codes. Ambiguous
// characters (I, O, 0, 1) are excluded so codes survive being read aloud.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of generated join codes.
const CodeLength = 6

// GenerateSessionCode - generates a human-shareable join code.
func GenerateSessionCode() string {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		return ""
	}

	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = CodeAlphabet[int(b[i])%len(CodeAlphabet)]
	}

	return string(code)
}

// GenerateNewSessionID - generates a new unique session identifier.
func GenerateNewSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "error-generating-session-id"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
