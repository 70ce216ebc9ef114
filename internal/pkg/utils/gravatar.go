package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultAvatarSize is used when size is not positive.
const DefaultAvatarSize = 200

// GetGravatarURL returns the "mystery person" fallback avatar for accounts
// without an uploaded picture.
func GetGravatarURL(email string, size int) string {
	if size <= 0 {
		size = DefaultAvatarSize
	}
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=mp", hex.EncodeToString(sum[:]), size)
}
