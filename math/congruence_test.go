package math

import (
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CongruentModN", func() {

	DescribeTable("Comparing residues",
		func(a, b, n int64, want bool) {
			Expect(CongruentModN(big.NewInt(a), big.NewInt(b), big.NewInt(n))).To(Equal(want))
		},
		Entry("equal values", int64(7), int64(7), int64(5), true),
		Entry("differ by the modulus", int64(12), int64(2), int64(5), true),
		Entry("differ by a multiple", int64(1), int64(31), int64(6), true),
		Entry("negative operand", int64(-1), int64(4), int64(5), true),
		Entry("different residues", int64(3), int64(4), int64(5), false),
		Entry("zero modulus", int64(3), int64(3), int64(0), false),
		Entry("negative modulus", int64(3), int64(3), int64(-5), false),
	)

	It("Works on values larger than a machine word", func() {
		n, _ := new(big.Int).SetString("340282366920938463463374607431768211507", 10)
		a := new(big.Int).Add(new(big.Int).Mul(n, big.NewInt(1234567)), big.NewInt(42))
		Expect(CongruentModN(a, big.NewInt(42), n)).To(BeTrue())
		Expect(CongruentModN(a, big.NewInt(43), n)).To(BeFalse())
	})
})
