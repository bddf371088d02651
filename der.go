package rsapem

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Lengths that need more than two bytes never occur in RSA key material.
const maxDERLength = 0xffff

// decodeLength reads a DER length header from the front of s and returns the
// length along with the number of header bytes it used.
//
// Only the short form and the 0x81 / 0x82 long forms are accepted.
func decodeLength(s *cryptobyte.String) (length int, consumed int, err error) {
	var b uint8
	if !s.ReadUint8(&b) {
		return 0, 0, errors.Wrap(ErrMalformedDer, "missing length byte")
	}

	switch {
	case b < 0x80:
		return int(b), 1, nil
	case b == 0x81:
		var n uint8
		if !s.ReadUint8(&n) {
			return 0, 0, errors.Wrap(ErrMalformedDer, "truncated 0x81 length")
		}
		return int(n), 2, nil
	case b == 0x82:
		var n uint16
		if !s.ReadUint16(&n) {
			return 0, 0, errors.Wrap(ErrMalformedDer, "truncated 0x82 length")
		}
		return int(n), 3, nil
	default:
		return 0, 0, errors.Wrapf(ErrMalformedDer, "unsupported length header 0x%02x", b)
	}
}

// encodeLength is the inverse of decodeLength. It always picks the shortest form.
func encodeLength(n int) ([]byte, error) {
	switch {
	case n < 0 || n > maxDERLength:
		return nil, errors.Wrapf(ErrMalformedDer, "length %d cannot be encoded", n)
	case n < 0x80:
		return []byte{byte(n)}, nil
	case n <= 0xff:
		return []byte{0x81, byte(n)}, nil
	default:
		return []byte{0x82, byte(n >> 8), byte(n)}, nil
	}
}

// expectTag consumes a single tag byte, failing if it is not the wanted one
func expectTag(s *cryptobyte.String, tag cbasn1.Tag) error {
	var got uint8
	if !s.ReadUint8(&got) {
		return errors.Wrapf(ErrMalformedDer, "missing tag 0x%02x", uint8(tag))
	}
	if cbasn1.Tag(got) != tag {
		return errors.Wrapf(ErrMalformedDer, "expected tag 0x%02x, found 0x%02x", uint8(tag), got)
	}
	return nil
}

// enter consumes the tag and length header of a constructed node and leaves s
// pointing at its first child. The length is only checked against what is left.
func enter(s *cryptobyte.String, tag cbasn1.Tag) error {
	if err := expectTag(s, tag); err != nil {
		return err
	}
	length, _, err := decodeLength(s)
	if err != nil {
		return err
	}
	if length > len(*s) {
		return errors.Wrapf(ErrMalformedDer, "tag 0x%02x claims %d bytes but only %d remain", uint8(tag), length, len(*s))
	}
	return nil
}

// matchPrefix consumes want from s if s starts with it. On a mismatch s is left untouched.
func matchPrefix(s *cryptobyte.String, want []byte) bool {
	if !bytes.HasPrefix(*s, want) {
		return false
	}
	return s.Skip(len(want))
}

// decodeInteger reads an INTEGER TLV and returns its unsigned big-endian
// magnitude. The DER sign guard is dropped and the result never starts with a
// zero byte unless the value itself is zero.
func decodeInteger(s *cryptobyte.String) ([]byte, error) {
	if err := expectTag(s, cbasn1.INTEGER); err != nil {
		return nil, err
	}
	length, _, err := decodeLength(s)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, errors.Wrap(ErrMalformedDer, "empty INTEGER")
	}

	var content []byte
	if !s.ReadBytes(&content, length) {
		return nil, errors.Wrapf(ErrMalformedDer, "INTEGER of %d bytes runs past the end of the input", length)
	}
	for len(content) > 1 && content[0] == 0x00 {
		content = content[1:]
	}

	// copy so the key never aliases the caller's buffer
	return append([]byte(nil), content...), nil
}

// encodeInteger writes magnitude as an INTEGER TLV, adding a single 0x00 in
// front when the top bit is set so it is not read back as negative.
func encodeInteger(magnitude []byte) ([]byte, error) {
	if len(magnitude) == 0 {
		return nil, errors.Wrap(ErrMalformedDer, "cannot encode an empty INTEGER")
	}

	if magnitude[0]&0x80 == 0 {
		return frame(cbasn1.INTEGER, magnitude)
	}
	padded := make([]byte, 0, len(magnitude)+1)
	padded = append(padded, 0x00)
	padded = append(padded, magnitude...)
	return frame(cbasn1.INTEGER, padded)
}

// frame returns tag || length || content. Parents call it on the already
// serialized bytes of their children, so lengths are always known when written.
func frame(tag cbasn1.Tag, content []byte) ([]byte, error) {
	length, err := encodeLength(len(content))
	if err != nil {
		return nil, err
	}

	b := cryptobyte.NewBuilder(make([]byte, 0, 1+len(length)+len(content)))
	b.AddUint8(uint8(tag))
	b.AddBytes(length)
	b.AddBytes(content)
	return b.Bytes()
}

// concat joins already encoded nodes into a single buffer
func concat(parts ...[]byte) []byte {
	b := cryptobyte.NewBuilder(nil)
	for _, p := range parts {
		b.AddBytes(p)
	}
	return b.BytesOrPanic()
}
