package math

import (
	"math/big"
)

// CongruentModN checks that N divides (a - b). A non-positive N is never satisfied.
func CongruentModN(a *big.Int, b *big.Int, N *big.Int) bool {
	if N.Sign() <= 0 {
		return false
	}
	aModN := new(big.Int).Mod(a, N)
	bModN := new(big.Int).Mod(b, N)

	return aModN.Cmp(bModN) == 0
}
