package linkkey

import (
	"crypto/rand"
	"math/big"
)

// KeyLength public davet anahtarının uzunluğudur (/:key rotası).
const KeyLength = 11

// Karışıklığa yol açan karakterler (0/O, 1/l/I) alfabede yok.
const alphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Generate kriptografik olarak rastgele bir davet anahtarı üretir.
func Generate() (string, error) {
	buf := make([]byte, KeyLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsValid bir anahtarın formatça geçerli olup olmadığını kontrol eder.
func IsValid(key string) bool {
	if len(key) != KeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		found := false
		for j := 0; j < len(alphabet); j++ {
			if key[i] == alphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
