package rsapem

import (
	"github.com/pkg/errors"
)

// KeyPair is a freshly generated key together with its usual exports
type KeyPair struct {
	Parameters *KeyParameters
	PublicPEM  string // PUBLIC KEY
	PrivatePEM string // RSA PRIVATE KEY, or PRIVATE KEY when PKCS#8 was requested
	JSON       string // all eight parameters
}

// FromPem parses a PEM armored RSA public key, PKCS#1 private key or PKCS#8
// private key. The label is not trusted: the public key layout is tried first
// and the private layouts only when the algorithm header does not match.
func FromPem(text string) (*KeyParameters, error) {
	label, der, err := parsePem(text)
	if err != nil {
		return nil, err
	}

	params, err := parsePublicKeyDER(der)
	if err == nil {
		return params, nil
	}
	if !errors.Is(err, ErrUnsupportedKeyFormat) {
		return nil, err
	}

	log.WithField("label", label).Debug("not a public key, trying private key layouts")
	return parsePrivateKeyDER(der)
}

// ToPem encodes p as PEM. Without includePrivate only the public key is
// written, always as PUBLIC KEY. With it, all eight parameters must be
// present and usePkcs8 picks between RSA PRIVATE KEY (PKCS#1) and
// PRIVATE KEY (PKCS#8).
func ToPem(p *KeyParameters, includePrivate bool, usePkcs8 bool) (string, error) {
	if !p.hasPublic() {
		return "", errors.Wrap(ErrIncompleteKeyParameters, "modulus and exponent are required")
	}

	if !includePrivate {
		der, err := buildPublicKeyDER(p)
		if err != nil {
			return "", err
		}
		return writePem(labelPublicKey, der), nil
	}

	if !p.IsPrivate() {
		return "", errors.Wrapf(ErrIncompleteKeyParameters, "found %d of 6 private fields", p.privateCount())
	}
	der, err := buildPrivateKeyDER(p, usePkcs8)
	if err != nil {
		return "", err
	}
	if usePkcs8 {
		return writePem(labelPrivateKey, der), nil
	}
	return writePem(labelRSAPrivateKey, der), nil
}

// CreateKey generates a key of the given size and exports it as public PEM,
// private PEM and JSON in one go. A bits value of 0 means DefaultKeyBits.
func CreateKey(bits int, usePkcs8 bool) (*KeyPair, error) {
	if bits == 0 {
		bits = DefaultKeyBits
	}
	params, err := GenerateKey(bits)
	if err != nil {
		return nil, err
	}

	publicPEM, err := ToPem(params, false, false)
	if err != nil {
		return nil, err
	}
	privatePEM, err := ToPem(params, true, usePkcs8)
	if err != nil {
		return nil, err
	}
	keyJSON, err := ToJSON(params)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		Parameters: params,
		PublicPEM:  publicPEM,
		PrivatePEM: privatePEM,
		JSON:       string(keyJSON),
	}, nil
}
