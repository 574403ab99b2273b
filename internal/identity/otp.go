package identity

import (
	"fmt"
	"math/rand"
)

// codeDigits is the width of every verification code. Codes are drawn from
// [0, 10000) and zero-padded, so "0042" and "42" can never be confused.
const codeDigits = 4

func generateCode() string {
	return fmt.Sprintf("%0*d", codeDigits, rand.Intn(10000))
}
