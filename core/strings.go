package core

import (
	"crypto/md5"
	"fmt"
)

// MD5 returns the hex-encoded MD5 of s. Used for cache sharding, not for security.
func MD5(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}
