package words

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// PickForDate returns the word of the day: HMAC(salt, YYYY-MM-DD) mod len(list).
// Every call for the same UTC date and salt yields the same word.
func PickForDate(list []Word, date time.Time, salt string) (Word, error) {
	if len(list) == 0 {
		return "", ErrEmptyBank
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return list[int(n%uint64(len(list)))], nil
}
