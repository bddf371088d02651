package rsapem

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Key parameters", func() {

	keyLength := 1024
	priv, _ := rsa.GenerateKey(rand.Reader, keyLength)
	params, _ := ExportParameters(priv, true)

	Context("The parameter model", func() {
		It("Knows a private key from a public one", func() {
			Expect(params.IsPrivate()).To(BeTrue())
			Expect(params.PublicOnly().IsPrivate()).To(BeFalse())

			partial := *params
			partial.InverseQ = nil
			Expect(partial.IsPrivate()).To(BeFalse())
		})

		It("Copies the public part without sharing memory", func() {
			pub := params.PublicOnly()
			Expect(pub.Modulus).To(Equal(params.Modulus))
			Expect(pub.D).To(BeNil())

			pub.Modulus[0] ^= 0xff
			Expect(pub.Modulus).NotTo(Equal(params.Modulus))
		})

		It("Reports the key size", func() {
			Expect(params.Bits()).To(Equal(keyLength))
			Expect(params.Size()).To(Equal(keyLength / 8))
		})

		It("Compares parameters byte for byte", func() {
			Expect(params.Equal(params)).To(BeTrue())
			Expect(params.Equal(params.PublicOnly())).To(BeFalse())
			Expect(params.Equal(nil)).To(BeFalse())
		})
	})

	Context("Checking consistency", func() {
		It("Accepts a generated key", func() {
			Expect(params.Check()).To(Succeed())
			Expect(params.PublicOnly().Check()).To(Succeed())
		})

		It("Rejects tampered CRT values", func() {
			for _, tamper := range []func(p *KeyParameters){
				func(p *KeyParameters) { p.DP = flipLastBit(p.DP) },
				func(p *KeyParameters) { p.DQ = flipLastBit(p.DQ) },
				func(p *KeyParameters) { p.InverseQ = flipLastBit(p.InverseQ) },
				func(p *KeyParameters) { p.D = flipLastBit(p.D) },
				func(p *KeyParameters) { p.P, p.Q = p.Q, flipLastBit(p.P) },
			} {
				bad := *params
				tamper(&bad)
				Expect(bad.Check()).To(MatchError(ErrUnsupportedKeyFormat))
			}
		})

		It("Rejects a partial private key", func() {
			bad := *params
			bad.P = nil
			Expect(bad.Check()).To(MatchError(ErrIncompleteKeyParameters))
		})

		It("Rejects superfluous leading zeros", func() {
			bad := params.PublicOnly()
			bad.Modulus = append([]byte{0x00}, bad.Modulus...)
			Expect(bad.Check()).To(MatchError(ErrUnsupportedKeyFormat))
		})
	})

	Context("The JSON projection", func() {
		It("Round-trips a private key", func() {
			b, err := ToJSON(params)
			Expect(err).To(BeNil())

			got, err := LoadFromJSON(b)
			Expect(err).To(BeNil())
			Expect(got.Equal(params)).To(BeTrue())
		})

		It("Round-trips a public key", func() {
			b, err := ToJSON(params.PublicOnly())
			Expect(err).To(BeNil())

			got, err := LoadFromJSON(b)
			Expect(err).To(BeNil())
			Expect(got.Equal(params.PublicOnly())).To(BeTrue())
		})

		It("Uses flat base64 fields", func() {
			b, _ := ToJSON(params)
			var obj map[string]string
			Expect(json.Unmarshal(b, &obj)).To(Succeed())
			Expect(obj).To(HaveLen(8))
			for _, key := range []string{"Modulus", "Exponent", "P", "Q", "DP", "DQ", "InverseQ", "D"} {
				Expect(obj).To(HaveKey(key))
			}
			Expect(obj["Exponent"]).To(Equal("AQAB"))

			b, _ = ToJSON(params.PublicOnly())
			obj = nil
			Expect(json.Unmarshal(b, &obj)).To(Succeed())
			Expect(obj).To(HaveLen(2))
		})

		It("Treats null fields as absent", func() {
			got, err := LoadFromJSON([]byte(`{"Modulus":"u7s=","Exponent":"AQAB","D":null,"P":null}`))
			Expect(err).To(BeNil())
			Expect(got.IsPrivate()).To(BeFalse())
			Expect(got.Modulus).To(Equal([]byte{0xbb, 0xbb}))
		})

		DescribeTable("Rejecting a bad payload",
			func(payload string) {
				_, err := LoadFromJSON([]byte(payload))
				Expect(err).To(MatchError(ErrInvalidKeyJSON))
			},
			Entry("not JSON", `Modulus=AQAB`),
			Entry("not an object", `["AQAB"]`),
			Entry("missing modulus", `{"Exponent":"AQAB"}`),
			Entry("missing exponent", `{"Modulus":"AQAB"}`),
			Entry("bad base64", `{"Modulus":"***","Exponent":"AQAB"}`),
			Entry("partial private fields", `{"Modulus":"AQAB","Exponent":"AQAB","D":"AQAB"}`),
			Entry("null", `null`),
			Entry("leading zero in modulus", `{"Modulus":"AIA=","Exponent":"AQAB"}`),
		)

		It("Rejects a private field with a leading zero", func() {
			var obj map[string]interface{}
			b, _ := ToJSON(params)
			Expect(json.Unmarshal(b, &obj)).To(Succeed())
			obj["D"] = append([]byte{0x00}, params.D...)
			b, err := json.Marshal(obj)
			Expect(err).To(BeNil())

			_, err = LoadFromJSON(b)
			Expect(err).To(MatchError(ErrInvalidKeyJSON))
		})

		It("Refuses to project empty parameters", func() {
			_, err := ToJSON(&KeyParameters{})
			Expect(err).To(MatchError(ErrIncompleteKeyParameters))
		})
	})
})

func flipLastBit(b []byte) []byte {
	out := append([]byte(nil), b...)
	out[len(out)-1] ^= 0x01
	return out
}
