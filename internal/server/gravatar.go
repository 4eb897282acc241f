package server

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// avatarURL builds a gravatar URL for the comment section.
func avatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=100&d=retro&r=g", hex.EncodeToString(sum[:]))
}
