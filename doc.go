/*
Package rsapem converts RSA keys between raw parameters, a compact JSON form and PEM

# Overview

An RSA key is held as a [KeyParameters]: eight unsigned big-endian byte strings,
of which a public key only uses the modulus and exponent. From there it can be
written out as PEM, in the same layouts OpenSSL produces:

	PUBLIC KEY        SubjectPublicKeyInfo wrapping the modulus and exponent
	RSA PRIVATE KEY   PKCS#1 RSAPrivateKey
	PRIVATE KEY       PKCS#8 PrivateKeyInfo wrapping the PKCS#1 structure

and read back with [FromPem], which accepts any of the three regardless of the
label on the armor:

	params, err := rsapem.FromPem(text)
	private, err := rsapem.ToPem(params, true, false)

# The DER encoder

The DER is read and written by hand rather than through encoding/asn1. Only
the handful of structures above are supported, so the decoder matches the
fixed algorithm identifier and version bytes directly and reads nothing but
INTEGERs in between. Lengths are limited to the short form and the two byte
long form, which is all an RSA key ever needs.

Encoding works inside out: each node is serialized into its own buffer and
the parent then writes tag and length in front of it.

# JSON

[ToJSON] and [LoadFromJSON] use a flat object with the field names Modulus,
Exponent, P, Q, DP, DQ, InverseQ and D, each a base64 string. This is a local
convention, not a standard like JWK.

# Errors

All errors wrap one of [ErrInvalidPemArmor], [ErrInvalidBase64],
[ErrMalformedDer], [ErrUnsupportedKeyFormat], [ErrIncompleteKeyParameters]
or [ErrInvalidKeyJSON], so they can be told apart with errors.Is. Any key
that fails to parse should be treated as unusable.

Key generation and the RSA operations themselves are left to crypto/rsa,
see [GenerateKey], [Sign], [Verify], [Encrypt] and [Decrypt].
*/
package rsapem
