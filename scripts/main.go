/*
rsakey converts an RSA key between PEM and the JSON parameter form.

	go build -o rsakey ./scripts
	./rsakey -in key.pem -out json
	./rsakey -gen 2048 -out pkcs8 > key.pem
	cat key.json | ./rsakey -out public

The input is read from -in, or stdin when -in is empty, and may be any PEM
layout FromPem understands or a JSON key object.
*/
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-i2p/logger"

	"github.com/bastionzero/rsapem"
)

var log = logger.GetGoI2PLogger()

const (
	formatPublic = "public"
	formatPKCS1  = "pkcs1"
	formatPKCS8  = "pkcs8"
	formatJSON   = "json"
)

func main() {
	in := flag.String("in", "", "file to read the key from, stdin if empty")
	out := flag.String("out", formatPublic, "output format: public, pkcs1, pkcs8 or json")
	gen := flag.Int("gen", 0, "generate a new key of this many bits instead of reading one")
	flag.Parse()

	params, err := loadKey(*in, *gen)
	if err != nil {
		fail(err)
	}

	text, err := render(params, *out)
	if err != nil {
		fail(err)
	}
	fmt.Println(text)
}

func loadKey(path string, bits int) (*rsapem.KeyParameters, error) {
	if bits > 0 {
		return rsapem.GenerateKey(bits)
	}

	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	log.WithField("bytes", len(data)).Debug("read key input")

	// a JSON key object is the only input that starts with a brace
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return rsapem.LoadFromJSON(trimmed)
	}
	return rsapem.FromPem(string(data))
}

func render(params *rsapem.KeyParameters, format string) (string, error) {
	switch format {
	case formatPublic:
		return rsapem.ToPem(params, false, false)
	case formatPKCS1:
		return rsapem.ToPem(params, true, false)
	case formatPKCS8:
		return rsapem.ToPem(params, true, true)
	case formatJSON:
		b, err := rsapem.ToJSON(params)
		return string(b), err
	default:
		return "", fmt.Errorf("unrecognized output format: %v", format)
	}
}

func fail(err error) {
	log.WithError(err).Error("rsakey failed")
	fmt.Fprintf(os.Stderr, "rsakey: %s\n", err)
	os.Exit(1)
}
