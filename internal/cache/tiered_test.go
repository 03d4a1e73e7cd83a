package cache_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"talentrank/candidate-ranker/internal/cache"
	"talentrank/candidate-ranker/internal/repositories"
)

// fakeDurable stands in for the Postgres tier. Failing toggles every
// operation into an error, simulating an outage.
type fakeDurable struct {
	data    map[string][]byte
	failing bool
	sets    int
	gets    int
}

func newFakeDurable() *fakeDurable {
	return &fakeDurable{data: make(map[string][]byte)}
}

func (f *fakeDurable) Get(key string) ([]byte, error) {
	f.gets++
	if f.failing {
		return nil, errors.New("connection refused")
	}
	value, ok := f.data[key]
	if !ok {
		return nil, repositories.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeDurable) Set(key string, value []byte, ttl time.Duration) error {
	f.sets++
	if f.failing {
		return errors.New("connection refused")
	}
	f.data[key] = value
	return nil
}

func (f *fakeDurable) DeleteExpired() (int64, error) {
	if f.failing {
		return 0, errors.New("connection refused")
	}
	return 0, nil
}

var _ = Describe("TieredCache", func() {
	var (
		durable *fakeDurable
		memory  *cache.MemoryStore
		tiered  *cache.TieredCache
	)

	BeforeEach(func() {
		durable = newFakeDurable()
		memory = cache.NewMemoryStore(10)
		tiered = cache.NewTieredCache(durable, memory)
	})

	It("round-trips through both tiers", func() {
		Expect(tiered.Set("k", []byte("v"), time.Minute)).To(Succeed())

		value, ok := tiered.Get("k")
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal([]byte("v")))
	})

	It("prefers the durable tier on reads", func() {
		durable.data["k"] = []byte("durable")
		memory.Set("k", []byte("memory"), time.Minute)

		value, ok := tiered.Get("k")
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal([]byte("durable")))
	})

	It("always writes through to the memory tier", func() {
		Expect(tiered.Set("k", []byte("v"), time.Minute)).To(Succeed())

		value, ok := memory.Get("k")
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal([]byte("v")))
	})

	Context("when the durable tier is down", func() {
		BeforeEach(func() {
			durable.failing = true
		})

		It("reports the failure on Set but still serves reads from memory", func() {
			err := tiered.Set("k", []byte("v"), time.Minute)
			Expect(err).To(HaveOccurred())

			value, ok := tiered.Get("k")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal([]byte("v")))
		})

		It("treats read failures as misses", func() {
			_, ok := tiered.Get("unknown")
			Expect(ok).To(BeFalse())
		})
	})

	Context("with a nil database handle", func() {
		It("degrades to the memory tier", func() {
			unavailable := repositories.NewCacheRepository(nil)
			tiered := cache.NewTieredCache(unavailable, cache.NewMemoryStore(10))

			err := tiered.Set("k", []byte("v"), time.Minute)
			Expect(err).To(MatchError(repositories.ErrCacheUnavailable))

			value, ok := tiered.Get("k")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal([]byte("v")))
		})
	})
})
