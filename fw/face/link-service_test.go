package face

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Verifies that an incomplete fragment group is evicted from the
// reassembly buffer once it has sat idle past the configured timeout,
// while a group still within that window survives.
func TestReassemblyIdleEviction(t *testing.T) {
	opts := MakeNDNLPLinkServiceOptions()
	opts.IdleTimeout = 20 * time.Millisecond
	l := MakeNDNLPLinkService(MakeNullTransport(), opts)
	defer l.Close()

	// Only the first of two fragments arrives; the group is left
	// incomplete.
	_, complete := l.reassemble(0, 0, 2, []byte("frag0"))
	assert.False(t, complete)

	l.reassemblyMu.Lock()
	_, present := l.reassembly[0]
	l.reassemblyMu.Unlock()
	assert.True(t, present)

	assert.Eventually(t, func() bool {
		l.reassemblyMu.Lock()
		defer l.reassemblyMu.Unlock()
		_, present := l.reassembly[0]
		return !present
	}, 500*time.Millisecond, 10*time.Millisecond)
}
