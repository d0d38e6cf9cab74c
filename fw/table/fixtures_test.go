package table

import (
	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/nfdgo/ndnd/fw/defn"
)

// VALID_DATA_1 is a well-formed Data packet wire used across the pit-cs
// tests as a stand-in content store payload.
var VALID_DATA_1 enc.Wire

func init() {
	name, _ := enc.NameFromStr("/ndn/edu/ucla/ping/123")
	VALID_DATA_1 = defn.EncodeData(&defn.FwData{
		NameV:    name,
		ContentV: enc.Wire{[]byte("hello world")},
	})
}
