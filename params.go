package rsapem

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	rsamath "github.com/bastionzero/rsapem/math"
)

// KeyParameters holds the raw parameters of an RSA key as unsigned big-endian
// byte strings with no superfluous leading zeros.
//
// A public key carries only Modulus and Exponent. A private key carries all
// eight fields; anything in between is rejected when encoding. Values returned
// by this package are never modified afterwards and should be treated as
// read-only by callers too.
type KeyParameters struct {
	Modulus  []byte // public part
	Exponent []byte // public part

	D        []byte // private exponent
	P        []byte // first prime factor
	Q        []byte // second prime factor
	DP       []byte // D mod (P-1)
	DQ       []byte // D mod (Q-1)
	InverseQ []byte // Q^-1 mod P
}

type field struct {
	name  string
	value *[]byte
}

// fields lists the parameters in RSAPrivateKey order
func (p *KeyParameters) fields() []field {
	return []field{
		{"Modulus", &p.Modulus},
		{"Exponent", &p.Exponent},
		{"D", &p.D},
		{"P", &p.P},
		{"Q", &p.Q},
		{"DP", &p.DP},
		{"DQ", &p.DQ},
		{"InverseQ", &p.InverseQ},
	}
}

// privateCount returns how many of the six private fields are set
func (p *KeyParameters) privateCount() int {
	n := 0
	for _, f := range p.fields()[2:] {
		if len(*f.value) > 0 {
			n++
		}
	}
	return n
}

// leadingZeroField returns the first field carrying a superfluous leading zero.
// Such a zero would be read back as the DER sign guard and lost.
func (p *KeyParameters) leadingZeroField() (string, bool) {
	for _, f := range p.fields() {
		if v := *f.value; len(v) > 1 && v[0] == 0x00 {
			return f.name, true
		}
	}
	return "", false
}

func (p *KeyParameters) hasPublic() bool {
	return p != nil && len(p.Modulus) > 0 && len(p.Exponent) > 0
}

// IsPrivate reports whether all eight parameters are present
func (p *KeyParameters) IsPrivate() bool {
	return p.hasPublic() && p.privateCount() == 6
}

// PublicOnly returns a copy of p with the private fields dropped
func (p *KeyParameters) PublicOnly() *KeyParameters {
	return &KeyParameters{
		Modulus:  append([]byte(nil), p.Modulus...),
		Exponent: append([]byte(nil), p.Exponent...),
	}
}

// Equal reports whether p and other hold byte-identical parameters
func (p *KeyParameters) Equal(other *KeyParameters) bool {
	if p == nil || other == nil {
		return p == other
	}
	mine, theirs := p.fields(), other.fields()
	for i := range mine {
		if !bytes.Equal(*mine[i].value, *theirs[i].value) {
			return false
		}
	}
	return true
}

// Size returns the modulus length in bytes
func (p *KeyParameters) Size() int {
	return len(p.Modulus)
}

// Bits returns the modulus length in bits
func (p *KeyParameters) Bits() int {
	return new(big.Int).SetBytes(p.Modulus).BitLen()
}

// Check verifies that the parameters are well formed and, for a private key,
// that the CRT values agree with the primes:
//
//	N = P * Q
//	E * D ≡ 1 (mod P-1) and (mod Q-1)
//	DP ≡ D (mod P-1), DQ ≡ D (mod Q-1)
//	InverseQ * Q ≡ 1 (mod P)
func (p *KeyParameters) Check() error {
	if !p.hasPublic() {
		return errors.Wrap(ErrIncompleteKeyParameters, "modulus and exponent are required")
	}
	if name, ok := p.leadingZeroField(); ok {
		return errors.Wrapf(ErrUnsupportedKeyFormat, "%s has a leading zero byte", name)
	}

	switch p.privateCount() {
	case 0:
		return nil
	case 6:
	default:
		return errors.Wrap(ErrIncompleteKeyParameters, "private fields must be all present or all absent")
	}

	n := new(big.Int).SetBytes(p.Modulus)
	e := new(big.Int).SetBytes(p.Exponent)
	d := new(big.Int).SetBytes(p.D)
	prime1 := new(big.Int).SetBytes(p.P)
	prime2 := new(big.Int).SetBytes(p.Q)
	dp := new(big.Int).SetBytes(p.DP)
	dq := new(big.Int).SetBytes(p.DQ)
	qinv := new(big.Int).SetBytes(p.InverseQ)

	one := big.NewInt(1)
	if prime1.Cmp(one) <= 0 || prime2.Cmp(one) <= 0 {
		return errors.Wrap(ErrUnsupportedKeyFormat, "prime factors must be greater than 1")
	}
	if new(big.Int).Mul(prime1, prime2).Cmp(n) != 0 {
		return errors.Wrap(ErrUnsupportedKeyFormat, "modulus is not P * Q")
	}

	p1 := new(big.Int).Sub(prime1, one)
	q1 := new(big.Int).Sub(prime2, one)
	ed := new(big.Int).Mul(e, d)
	if !rsamath.CongruentModN(ed, one, p1) || !rsamath.CongruentModN(ed, one, q1) {
		return errors.Wrap(ErrUnsupportedKeyFormat, "D is not the inverse of the public exponent")
	}
	if !rsamath.CongruentModN(dp, d, p1) {
		return errors.Wrap(ErrUnsupportedKeyFormat, "DP does not match D mod (P-1)")
	}
	if !rsamath.CongruentModN(dq, d, q1) {
		return errors.Wrap(ErrUnsupportedKeyFormat, "DQ does not match D mod (Q-1)")
	}
	if !rsamath.CongruentModN(new(big.Int).Mul(qinv, prime2), one, prime1) {
		return errors.Wrap(ErrUnsupportedKeyFormat, "InverseQ is not the inverse of Q mod P")
	}
	return nil
}

// keyJSON is the flat JSON projection of KeyParameters. encoding/json writes
// []byte values as standard base64.
type keyJSON struct {
	Modulus  []byte `json:"Modulus"`
	Exponent []byte `json:"Exponent"`
	P        []byte `json:"P,omitempty"`
	Q        []byte `json:"Q,omitempty"`
	DP       []byte `json:"DP,omitempty"`
	DQ       []byte `json:"DQ,omitempty"`
	InverseQ []byte `json:"InverseQ,omitempty"`
	D        []byte `json:"D,omitempty"`
}

func toKeyJSON(p *KeyParameters) keyJSON {
	return keyJSON{
		Modulus:  p.Modulus,
		Exponent: p.Exponent,
		P:        p.P,
		Q:        p.Q,
		DP:       p.DP,
		DQ:       p.DQ,
		InverseQ: p.InverseQ,
		D:        p.D,
	}
}

func fromKeyJSON(k keyJSON) (*KeyParameters, error) {
	p := &KeyParameters{
		Modulus:  k.Modulus,
		Exponent: k.Exponent,
		D:        k.D,
		P:        k.P,
		Q:        k.Q,
		DP:       k.DP,
		DQ:       k.DQ,
		InverseQ: k.InverseQ,
	}
	if !p.hasPublic() {
		return nil, errors.Wrap(ErrInvalidKeyJSON, "Modulus and Exponent are required")
	}
	if c := p.privateCount(); c != 0 && c != 6 {
		return nil, errors.Wrapf(ErrInvalidKeyJSON, "found %d of 6 private fields", c)
	}
	if name, ok := p.leadingZeroField(); ok {
		return nil, errors.Wrapf(ErrInvalidKeyJSON, "%s has a leading zero byte", name)
	}
	return p, nil
}

// ToJSON returns the JSON projection of p: a flat object whose values are
// base64 strings. Private fields are left out of a public key.
func ToJSON(p *KeyParameters) ([]byte, error) {
	if !p.hasPublic() {
		return nil, errors.Wrap(ErrIncompleteKeyParameters, "modulus and exponent are required")
	}
	b, err := json.Marshal(toKeyJSON(p))
	if err != nil {
		return nil, errors.Wrap(err, "failed to JSON-encode key parameters")
	}
	return b, nil
}

// LoadFromJSON is the inverse of ToJSON. Absent and null fields are treated
// the same.
func LoadFromJSON(data []byte) (*KeyParameters, error) {
	var k keyJSON
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, errors.Wrapf(ErrInvalidKeyJSON, "%s", err)
	}
	return fromKeyJSON(k)
}
