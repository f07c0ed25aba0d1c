package planner

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const idCounterWrap = 1_000_000

// PrefixIDGenerator produces ids of the form
// <prefix>_<unix-ms>_<16 hex chars>_<counter base36>. The combination
// of wall clock, random bytes, and an in-process counter makes
// collisions negligible for single-process, single-device use; no
// uniqueness check runs against the store.
type PrefixIDGenerator struct {
	counter atomic.Uint64
}

func NewPrefixIDGenerator() *PrefixIDGenerator { return &PrefixIDGenerator{} }

func (g *PrefixIDGenerator) NewID(prefix string) string {
	count := g.counter.Add(1) % idCounterWrap
	return fmt.Sprintf("%s_%d_%s_%s",
		prefix,
		time.Now().UnixMilli(),
		hex.EncodeToString(randomBytes(8)),
		strconv.FormatUint(count, 36))
}

var (
	fallbackOnce sync.Once
	fallbackRand *mathrand.Rand
	fallbackMu   sync.Mutex
)

// randomBytes prefers the OS entropy source and falls back to a seeded
// pseudo-random source if it is unavailable.
func randomBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := cryptorand.Read(buf); err == nil {
		return buf
	}

	fallbackOnce.Do(func() {
		fallbackRand = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	})
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	fallbackRand.Read(buf)
	return buf
}
