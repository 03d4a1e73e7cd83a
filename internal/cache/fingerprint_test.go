package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"talentrank/candidate-ranker/internal/cache"
)

var _ = Describe("Fingerprint", func() {
	It("is deterministic across repeated calls", func() {
		first := cache.Fingerprint("Backend engineer with 5 years experience")
		second := cache.Fingerprint("Backend engineer with 5 years experience")
		Expect(first).To(Equal(second))
	})

	It("produces 10 hex characters", func() {
		Expect(cache.Fingerprint("some job description")).To(MatchRegexp(`^[0-9a-f]{10}$`))
	})

	It("differs for different inputs", func() {
		Expect(cache.Fingerprint("frontend role")).NotTo(Equal(cache.Fingerprint("backend role")))
	})

	It("ignores surrounding whitespace", func() {
		Expect(cache.Fingerprint("  senior golang dev  ")).To(Equal(cache.Fingerprint("senior golang dev")))
	})

	Describe("FingerprintIDs", func() {
		It("is insensitive to id order", func() {
			a := cache.FingerprintIDs([]string{"C001", "C002", "C003"})
			b := cache.FingerprintIDs([]string{"C003", "C001", "C002"})
			Expect(a).To(Equal(b))
		})

		It("does not mutate the input slice", func() {
			ids := []string{"C003", "C001"}
			cache.FingerprintIDs(ids)
			Expect(ids).To(Equal([]string{"C003", "C001"}))
		})

		It("differs for different sets", func() {
			a := cache.FingerprintIDs([]string{"C001"})
			b := cache.FingerprintIDs([]string{"C002"})
			Expect(a).NotTo(Equal(b))
		})
	})

	Describe("CompositeKey", func() {
		It("keeps a fixed component order", func() {
			key := cache.CompositeKey("aaaaaaaaaa", "bbbbbbbbbb")
			Expect(key).To(Equal("job-aaaaaaaaaa-bbbbbbbbbb"))
		})

		It("yields equal keys for equal inputs regardless of call order", func() {
			jobFP := cache.Fingerprint("golang backend role for payments")
			setFP := cache.FingerprintIDs([]string{"C002", "C001"})

			setFP2 := cache.FingerprintIDs([]string{"C001", "C002"})
			jobFP2 := cache.Fingerprint("golang backend role for payments")

			Expect(cache.CompositeKey(jobFP, setFP)).To(Equal(cache.CompositeKey(jobFP2, setFP2)))
		})
	})
})
