package rsapem

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// These are fixed DER fragments shared by every RSA key:
//
//	AlgorithmIdentifier ::= SEQUENCE {
//	  algorithm   OBJECT IDENTIFIER,  -- 1.2.840.113549.1.1.1 rsaEncryption
//	  parameters  NULL
//	}
//
// As with the digest prefixes in PKCS#1 v1.5 signing, it is simpler to match
// and emit them as byte strings than to run them through an ASN.1 encoder.
var (
	rsaAlgorithmIdentifier = []byte{0x30, 0x0d, 0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01, 0x05, 0x00}

	// INTEGER 0, the only version of RSAPrivateKey and PrivateKeyInfo we accept
	versionZero = []byte{0x02, 0x01, 0x00}
)

// parsePublicKeyDER reads a SubjectPublicKeyInfo:
//
//	SEQUENCE {
//	  AlgorithmIdentifier,
//	  BIT STRING { 0x00, SEQUENCE { INTEGER modulus, INTEGER publicExponent } }
//	}
func parsePublicKeyDER(der []byte) (*KeyParameters, error) {
	s := cryptobyte.String(der)

	if err := enter(&s, cbasn1.SEQUENCE); err != nil {
		return nil, err
	}
	if !matchPrefix(&s, rsaAlgorithmIdentifier) {
		return nil, errors.Wrap(ErrUnsupportedKeyFormat, "public key algorithm is not rsaEncryption")
	}
	if err := enter(&s, cbasn1.BIT_STRING); err != nil {
		return nil, err
	}
	// unused bits count, always zero for a whole number of octets
	if !s.Skip(1) {
		return nil, errors.Wrap(ErrMalformedDer, "BIT STRING is missing its unused bits byte")
	}
	if err := enter(&s, cbasn1.SEQUENCE); err != nil {
		return nil, err
	}

	modulus, err := decodeInteger(&s)
	if err != nil {
		return nil, errors.WithMessage(err, "modulus")
	}
	exponent, err := decodeInteger(&s)
	if err != nil {
		return nil, errors.WithMessage(err, "public exponent")
	}

	return &KeyParameters{
		Modulus:  modulus,
		Exponent: exponent,
	}, nil
}

// parsePrivateKeyDER reads either a bare PKCS#1 RSAPrivateKey or one wrapped
// in a PKCS#8 PrivateKeyInfo:
//
//	SEQUENCE {                          SEQUENCE {
//	  INTEGER 0,                          INTEGER 0,
//	  INTEGER modulus,                    AlgorithmIdentifier,
//	  ... seven more INTEGERs             OCTET STRING { RSAPrivateKey }
//	}                                   }
func parsePrivateKeyDER(der []byte) (*KeyParameters, error) {
	s := cryptobyte.String(der)

	if err := enter(&s, cbasn1.SEQUENCE); err != nil {
		return nil, err
	}
	if !matchPrefix(&s, versionZero) {
		return nil, errors.Wrap(ErrUnsupportedKeyFormat, "private key version is not 0")
	}

	// matchPrefix leaves s alone when it fails, so a PKCS#1 key just falls through.
	// An RSAPrivateKey continues with an INTEGER, so a SEQUENCE here can only
	// be the AlgorithmIdentifier of some other kind of PKCS#8 key.
	switch {
	case matchPrefix(&s, rsaAlgorithmIdentifier):
		if err := enter(&s, cbasn1.OCTET_STRING); err != nil {
			return nil, err
		}
		if err := enter(&s, cbasn1.SEQUENCE); err != nil {
			return nil, err
		}
		if !matchPrefix(&s, versionZero) {
			return nil, errors.Wrap(ErrUnsupportedKeyFormat, "wrapped RSA private key version is not 0")
		}
		log.Debug("reading PKCS#8 private key")
	case len(s) > 0 && cbasn1.Tag(s[0]) == cbasn1.SEQUENCE:
		return nil, errors.Wrap(ErrUnsupportedKeyFormat, "private key algorithm is not rsaEncryption")
	default:
		log.Debug("reading PKCS#1 private key")
	}

	params := &KeyParameters{}
	for _, f := range params.fields() {
		v, err := decodeInteger(&s)
		if err != nil {
			return nil, errors.WithMessage(err, f.name)
		}
		*f.value = v
	}

	return params, nil
}

// buildPublicKeyDER is the inverse of parsePublicKeyDER. Each level is
// serialized first and then framed by its parent.
func buildPublicKeyDER(p *KeyParameters) ([]byte, error) {
	ints, err := encodeIntegers(p.Modulus, p.Exponent)
	if err != nil {
		return nil, err
	}
	rsaPublicKey, err := frame(cbasn1.SEQUENCE, ints)
	if err != nil {
		return nil, err
	}
	bitString, err := frame(cbasn1.BIT_STRING, concat([]byte{0x00}, rsaPublicKey))
	if err != nil {
		return nil, err
	}
	return frame(cbasn1.SEQUENCE, concat(rsaAlgorithmIdentifier, bitString))
}

// buildPrivateKeyDER is the inverse of parsePrivateKeyDER. p must carry all
// eight fields.
func buildPrivateKeyDER(p *KeyParameters, pkcs8 bool) ([]byte, error) {
	if !p.IsPrivate() {
		return nil, errors.Wrap(ErrIncompleteKeyParameters, "private key needs all eight parameters")
	}

	fields := p.fields()
	values := make([][]byte, len(fields))
	for i, f := range fields {
		values[i] = *f.value
	}
	ints, err := encodeIntegers(values...)
	if err != nil {
		return nil, err
	}
	rsaPrivateKey, err := frame(cbasn1.SEQUENCE, concat(versionZero, ints))
	if err != nil {
		return nil, err
	}
	if !pkcs8 {
		return rsaPrivateKey, nil
	}

	octetString, err := frame(cbasn1.OCTET_STRING, rsaPrivateKey)
	if err != nil {
		return nil, err
	}
	return frame(cbasn1.SEQUENCE, concat(versionZero, rsaAlgorithmIdentifier, octetString))
}

// encodeIntegers returns the INTEGER TLVs for each magnitude, back to back
func encodeIntegers(magnitudes ...[]byte) ([]byte, error) {
	encoded := make([][]byte, len(magnitudes))
	for i, m := range magnitudes {
		if len(m) > 1 && m[0] == 0x00 {
			return nil, errors.Wrapf(ErrMalformedDer, "INTEGER %d has a superfluous leading zero", i)
		}
		enc, err := encodeInteger(m)
		if err != nil {
			return nil, err
		}
		encoded[i] = enc
	}
	return concat(encoded...), nil
}
