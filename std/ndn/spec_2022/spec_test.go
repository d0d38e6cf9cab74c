package spec_2022_test

import (
	"testing"
	"time"

	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/nfdgo/ndnd/std/ndn/spec_2022"
	"github.com/nfdgo/ndnd/std/types/optional"
	"github.com/stretchr/testify/require"
)

func TestDataRoundTrip(t *testing.T) {
	spec := spec_2022.Spec{}
	name, err := enc.NameFromStr("/ndn/test/data")
	require.NoError(t, err)

	_, wire, err := spec.MakeData(name, spec_2022.DataOpts{
		ContentType: optional.Some(uint64(0)),
		Freshness:   optional.Some(time.Second),
	}, enc.Wire{[]byte("hello")})
	require.NoError(t, err)
	require.NotEmpty(t, wire)

	data, covered, err := spec.ReadData(enc.NewWireView(wire))
	require.NoError(t, err)
	require.NotNil(t, covered)
	require.True(t, name.Equal(data.NameV))
	require.Equal(t, []byte("hello"), data.ContentV.Join())

	freshness, ok := data.FreshnessV.Get()
	require.True(t, ok)
	require.Equal(t, time.Second, freshness)
}

func TestInterestRoundTrip(t *testing.T) {
	spec := spec_2022.Spec{}
	name, err := enc.NameFromStr("/ndn/test/interest")
	require.NoError(t, err)

	interest, err := spec.MakeInterest(name, spec_2022.InterestOpts{
		CanBePrefix: true,
		MustBeFresh: true,
		Nonce:       optional.Some(uint32(0xdeadbeef)),
		Lifetime:    optional.Some(4 * time.Second),
	}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, interest.Wire)

	parsed, _, err := spec.ReadInterest(enc.NewWireView(interest.Wire))
	require.NoError(t, err)
	require.True(t, name.Equal(parsed.NameV))
	require.True(t, parsed.CanBePrefix)
	require.True(t, parsed.MustBeFresh)

	nonce, ok := parsed.Nonce.Get()
	require.True(t, ok)
	require.Equal(t, uint32(0xdeadbeef), nonce)
}

func TestReadDataRejectsInterest(t *testing.T) {
	spec := spec_2022.Spec{}
	name, err := enc.NameFromStr("/ndn/test/mismatch")
	require.NoError(t, err)

	interest, err := spec.MakeInterest(name, spec_2022.InterestOpts{}, nil)
	require.NoError(t, err)

	_, _, err = spec.ReadData(enc.NewWireView(interest.Wire))
	require.ErrorIs(t, err, spec_2022.ErrInvalidPacket)
}
