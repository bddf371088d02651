package rsapem

import (
	"github.com/pkg/errors"
)

// Every failure returned by this package wraps exactly one of these values.
// Use errors.Is to tell them apart.
var (
	// ErrInvalidPemArmor is returned when the BEGIN/END markers are missing or
	// do not name a public or private key.
	ErrInvalidPemArmor = errors.New("pem need 'BEGIN' and 'END'")

	// ErrInvalidBase64 is returned when the body between the markers is not base64
	ErrInvalidBase64 = errors.New("pem body is not valid base64")

	// ErrMalformedDer is returned for a bad tag or length byte, or a TLV that runs past the end of the input
	ErrMalformedDer = errors.New("malformed DER")

	// ErrUnsupportedKeyFormat is returned when the OID or version bytes are not the rsaEncryption ones.
	// Non-RSA keys and corrupted headers both end up here.
	ErrUnsupportedKeyFormat = errors.New("unknown pem format")

	// ErrIncompleteKeyParameters is returned when private key output is requested without all eight fields
	ErrIncompleteKeyParameters = errors.New("incomplete key parameters")

	// ErrInvalidKeyJSON is returned for a JSON key object that is malformed or misses required fields
	ErrInvalidKeyJSON = errors.New("invalid key json")
)
