package rsapem

import (
	"encoding/base64"
	"encoding/pem"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	labelPublicKey     = "PUBLIC KEY"
	labelRSAPrivateKey = "RSA PRIVATE KEY"
	labelPrivateKey    = "PRIVATE KEY"
)

var (
	// strips every -----...----- marker and all whitespace in one pass
	armorPattern = regexp.MustCompile(`--+.+?--+|\s+`)

	beginPattern = regexp.MustCompile(`-----BEGIN ([^-\r\n]+)-----`)
)

// parsePem removes the armor from text and returns the label and the DER it
// wraps. It is more forgiving than encoding/pem: line breaks, CRLFs and
// indentation inside the body are all ignored.
func parsePem(text string) (label string, der []byte, err error) {
	if !strings.Contains(text, "-----BEGIN") || !strings.Contains(text, "-----END") {
		return "", nil, errors.WithStack(ErrInvalidPemArmor)
	}

	switch {
	case strings.Contains(text, labelPublicKey):
		label = labelPublicKey
	case strings.Contains(text, labelPrivateKey):
		label = labelPrivateKey
	default:
		return "", nil, errors.Wrap(ErrInvalidPemArmor, "armor names neither a public nor a private key")
	}
	if m := beginPattern.FindStringSubmatch(text); m != nil {
		label = strings.TrimSpace(m[1])
	}

	body := armorPattern.ReplaceAllString(text, "")
	der, err = base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", nil, errors.Wrapf(ErrInvalidBase64, "%s", err)
	}
	return label, der, nil
}

// writePem armors der under label with the body wrapped at 64 columns.
// There is no newline after the END marker; callers add one if they want it.
func writePem(label string, der []byte) string {
	out := pem.EncodeToMemory(&pem.Block{
		Type:  label,
		Bytes: der,
	})
	return strings.TrimSuffix(string(out), "\n")
}
