package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Record locators use the airline convention: no digits 0/1 and no letters
// I/O, so a locator read over the phone is unambiguous. The first character
// additionally excludes F, P, T and M so RT<locator> never resolves to the
// RTF/RTP/RTT/RTM lookup verbs.
const (
	locatorChars      = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	locatorFirstChars = "ABCDEGHJKLNQRSUVWXYZ23456789"
	locatorLength     = 6
)

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateRecordLocator returns a 6-character locator candidate. Uniqueness
// is enforced by the PNR store's primary key; callers retry on collision.
func GenerateRecordLocator() string {
	out := make([]byte, locatorLength)
	out[0] = randomChar(locatorFirstChars)
	for i := 1; i < locatorLength; i++ {
		out[i] = randomChar(locatorChars)
	}
	return string(out)
}

func randomChar(alphabet string) byte {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	return alphabet[n.Int64()]
}
