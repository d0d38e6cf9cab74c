package encoding

import (
	"bytes"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// xxHash bundles a streaming xxhash digest with a scratch buffer, reused
// across calls via xxHashPool to avoid allocating on every Hash() call.
type xxHash struct {
	hash   *xxhash.Digest
	buffer bytes.Buffer
}

// xxHashPoolT is a typed wrapper around sync.Pool so callers get back a
// ready-to-use, freshly reset *xxHash instead of an `any`.
type xxHashPoolT struct {
	pool sync.Pool
}

// Get returns a reset xxHash scratch object from the pool.
func (p *xxHashPoolT) Get() *xxHash {
	xx := p.pool.Get().(*xxHash)
	xx.hash.Reset()
	xx.buffer.Reset()
	return xx
}

// Put returns an xxHash scratch object to the pool.
func (p *xxHashPoolT) Put(xx *xxHash) {
	p.pool.Put(xx)
}

var xxHashPool = &xxHashPoolT{
	pool: sync.Pool{
		New: func() any {
			return &xxHash{hash: xxhash.New()}
		},
	},
}
