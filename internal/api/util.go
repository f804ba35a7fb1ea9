package api

import (
	"math/rand"
	"regexp"
	"strings"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 8

// generateRoomCode creates a short alphanumeric code players share to
// join a room.
func generateRoomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

var roomCodeRegex = regexp.MustCompile("^[A-Z0-9]{8}$")

func normalizeRoomCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
