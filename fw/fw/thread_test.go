package fw

import (
	"testing"

	"github.com/nfdgo/ndnd/fw/defn"
	"github.com/nfdgo/ndnd/fw/face"
	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/nfdgo/ndnd/std/types/optional"
	"github.com/stretchr/testify/assert"
)

// Verifies that a /localhost name is only admitted on a local face: a
// NullTransport face (non-local) must be refused, a plain network name on
// the same face must not be, and an unregistered face is treated as
// non-local.
func TestIsLocalhostOnNonLocalFace(t *testing.T) {
	nonLocalFace := face.MakeNDNLPLinkService(face.MakeNullTransport(), face.MakeNDNLPLinkServiceOptions())
	defer nonLocalFace.Close()

	localhostName, _ := enc.NameFromStr("/localhost/nfd/fib")
	networkName, _ := enc.NameFromStr("/ndn/edu/ucla/ping")

	assert.True(t, isLocalhostOnNonLocalFace(localhostName, nonLocalFace.FaceID()))
	assert.False(t, isLocalhostOnNonLocalFace(networkName, nonLocalFace.FaceID()))
	assert.True(t, isLocalhostOnNonLocalFace(localhostName, nonLocalFace.FaceID()+1000))
}

// Verifies that sendNack reaches the target face and increments the
// outgoing-Nack counter, without going through any Strategy.
func TestSendNack(t *testing.T) {
	f := face.MakeNDNLPLinkService(face.MakeNullTransport(), face.MakeNDNLPLinkServiceOptions())
	defer f.Close()

	th := &Thread{}
	name, _ := enc.NameFromStr("/ndn/edu/ucla/ping")
	interest := &defn.FwInterest{NameV: name, NonceV: optional.Some(uint32(42))}

	th.sendNack(f.FaceID(), interest, defn.NackReasonDuplicate)

	assert.Equal(t, uint64(1), th.counters.nOutNacks.Load())
}
