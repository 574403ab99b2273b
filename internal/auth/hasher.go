package auth

import "golang.org/x/crypto/bcrypt"

// hashCost matches the work factor the mobile app's accounts were created with.
const hashCost = 12

// Hasher is the one-way password transform. Stateless; safe for concurrent use.
type Hasher struct{}

func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash derives a salted bcrypt digest from the plaintext password.
func (Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored digest.
func (Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
