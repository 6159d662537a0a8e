package pkg

import (
	cryptoRand "crypto/rand"
	"math/big"
	"strings"
)

const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// InviteCodeLength is the length of generated community invite codes.
const InviteCodeLength = 10

// RandInviteCode returns a URL-safe code without easily confused characters.
func RandInviteCode() (string, error) {
	return randFrom(inviteAlphabet, InviteCodeLength)
}

func randFrom(alphabet string, n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[x.Int64()])
	}
	return b.String(), nil
}
