package rsapem

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"math/big"

	"github.com/pkg/errors"
)

const (
	// DefaultKeyBits is the modulus size used when no size is given
	DefaultKeyBits = 2048

	// MinKeyBits is the smallest modulus GenerateKey will produce
	MinKeyBits = 1024

	maxPublicExponent = 1<<31 - 1
)

// GenerateKey creates a new two-prime RSA key of the given size and exports
// all eight of its parameters. The arithmetic is left to crypto/rsa.
func GenerateKey(bits int) (*KeyParameters, error) {
	if bits < MinKeyBits {
		return nil, errors.Errorf("cannot generate a %d-bit key, the minimum is %d", bits, MinKeyBits)
	}

	log.WithField("bits", bits).Debug("generating RSA key")
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate %d-bit RSA key", bits)
	}
	return ExportParameters(key, true)
}

// ExportPublicParameters returns the modulus and exponent of pub
func ExportPublicParameters(pub *rsa.PublicKey) *KeyParameters {
	return &KeyParameters{
		Modulus:  pub.N.Bytes(),
		Exponent: big.NewInt(int64(pub.E)).Bytes(),
	}
}

// ExportParameters returns the parameters of key. With includePrivate set the
// private exponent and CRT values are included as well, which is only
// possible for two-prime keys.
func ExportParameters(key *rsa.PrivateKey, includePrivate bool) (*KeyParameters, error) {
	if key == nil {
		return nil, errors.New("cannot export a nil key")
	}
	params := ExportPublicParameters(&key.PublicKey)
	if !includePrivate {
		return params, nil
	}
	if len(key.Primes) != 2 {
		return nil, errors.Wrapf(ErrUnsupportedKeyFormat, "cannot export a key with %d primes", len(key.Primes))
	}

	key.Precompute()
	params.D = key.D.Bytes()
	params.P = key.Primes[0].Bytes()
	params.Q = key.Primes[1].Bytes()
	params.DP = key.Precomputed.Dp.Bytes()
	params.DQ = key.Precomputed.Dq.Bytes()
	params.InverseQ = key.Precomputed.Qinv.Bytes()
	return params, nil
}

// ImportPublicKey turns the public part of p back into an *rsa.PublicKey
func (p *KeyParameters) ImportPublicKey() (*rsa.PublicKey, error) {
	if !p.hasPublic() {
		return nil, errors.Wrap(ErrIncompleteKeyParameters, "modulus and exponent are required")
	}
	e := new(big.Int).SetBytes(p.Exponent)
	if !e.IsInt64() || e.Int64() < 2 || e.Int64() > maxPublicExponent {
		return nil, errors.Wrapf(ErrUnsupportedKeyFormat, "public exponent %s is out of range", e)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(p.Modulus),
		E: int(e.Int64()),
	}, nil
}

// ImportPrivateKey turns p into an *rsa.PrivateKey after checking that its
// parameters are complete and consistent.
func (p *KeyParameters) ImportPrivateKey() (*rsa.PrivateKey, error) {
	if !p.IsPrivate() {
		return nil, errors.Wrap(ErrIncompleteKeyParameters, "private key needs all eight parameters")
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	pub, err := p.ImportPublicKey()
	if err != nil {
		return nil, err
	}

	key := &rsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(p.D),
		Primes: []*big.Int{
			new(big.Int).SetBytes(p.P),
			new(big.Int).SetBytes(p.Q),
		},
	}
	if err := key.Validate(); err != nil {
		return nil, errors.Wrapf(ErrUnsupportedKeyFormat, "%s", err)
	}
	key.Precompute()
	return key, nil
}

// Sign computes an RSASSA-PKCS1-V1_5 signature over hashed, which must be the
// output of hash.
func Sign(p *KeyParameters, hash crypto.Hash, hashed []byte) ([]byte, error) {
	priv, err := p.ImportPrivateKey()
	if err != nil {
		return nil, err
	}
	return rsa.SignPKCS1v15(rand.Reader, priv, hash, hashed)
}

// Verify checks an RSASSA-PKCS1-V1_5 signature. A nil error means the signature is valid.
func Verify(p *KeyParameters, hash crypto.Hash, hashed []byte, sig []byte) error {
	pub, err := p.ImportPublicKey()
	if err != nil {
		return err
	}
	return rsa.VerifyPKCS1v15(pub, hash, hashed, sig)
}

// Encrypt encrypts data using RSA-OAEP with SHA-256.
func Encrypt(p *KeyParameters, data []byte) ([]byte, error) {
	pub, err := p.ImportPublicKey()
	if err != nil {
		return nil, err
	}
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, data, nil)
}

// Decrypt decrypts data using RSA-OAEP with SHA-256.
func Decrypt(p *KeyParameters, data []byte) ([]byte, error) {
	priv, err := p.ImportPrivateKey()
	if err != nil {
		return nil, err
	}
	return rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, data, nil)
}
