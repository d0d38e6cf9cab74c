package table

import (
	"testing"

	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/stretchr/testify/assert"
)

// Verifies that NetworkPredicate recognizes a forwarding hint once it
// falls under a configured network region, and that an empty hint never
// matches.
func TestNetworkPredicate(t *testing.T) {
	region, _ := enc.NameFromStr("/ndn/edu/ucla")
	NetworkRegion.Set([]enc.Name{region})
	defer NetworkRegion.Set(nil)

	inRegion, _ := enc.NameFromStr("/ndn/edu/ucla/hub1")
	assert.True(t, NetworkPredicate(inRegion))

	outOfRegion, _ := enc.NameFromStr("/ndn/edu/berkeley/hub1")
	assert.False(t, NetworkPredicate(outOfRegion))

	assert.False(t, NetworkPredicate(nil))
}
