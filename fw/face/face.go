package face

import (
	"sync"
	"sync/atomic"

	defn "github.com/nfdgo/ndnd/fw/defn"
	spec_mgmt "github.com/nfdgo/ndnd/std/ndn/mgmt_2022"
)

// Face is a network-facing endpoint the forwarder can send and receive NDN
// packets through: a link service layered over a transport, registered in
// the process-wide FaceTable under a unique FaceID.
type Face interface {
	String() string

	FaceID() uint64
	LocalURI() *defn.URI
	RemoteURI() *defn.URI
	Scope() defn.Scope
	LinkType() defn.LinkType
	Persistency() spec_mgmt.Persistency
	SetPersistency(persistency spec_mgmt.Persistency) bool
	MTU() int

	// SendPacket queues pkt's wire encoding for transmission on this face.
	SendPacket(pkt *defn.Pkt)
	// OnReceivePacket is called with every packet decoded from this face.
	OnReceivePacket(fn func(pkt *defn.Pkt, inFace uint64))

	IsRunning() bool
	Close()

	NInInterests() uint64
	NInData() uint64
	NInNacks() uint64
	NOutInterests() uint64
	NOutData() uint64
	NOutNacks() uint64
	NInBytes() uint64
	NOutBytes() uint64
}

// OnPacket is set once at startup (see fw/cmd) to the function that hands
// a decoded packet to the forwarding thread responsible for it. Every face
// added to FaceTable is wired to call it as soon as it is registered, so
// listeners never need to know about dispatch themselves.
var OnPacket func(pkt *defn.Pkt, inFace uint64)

var nextFaceID uint64 = 1

// faceTable is the process-wide registry of active faces, indexed by
// FaceID, consulted by the forwarding threads and the management plane.
type faceTable struct {
	mu    sync.RWMutex
	faces map[uint64]Face
}

// FaceTable is the process-wide face registry.
var FaceTable = &faceTable{faces: make(map[uint64]Face)}

// Add assigns the next available FaceID to f, registers it in the table,
// and returns the assigned ID.
func (t *faceTable) Add(f Face, assignID func(uint64)) uint64 {
	id := atomic.AddUint64(&nextFaceID, 1) - 1

	t.mu.Lock()
	t.faces[id] = f
	t.mu.Unlock()

	assignID(id)
	if OnPacket != nil {
		f.OnReceivePacket(OnPacket)
	}
	return id
}

// Get returns the face registered under faceID, or nil if none exists.
func (t *faceTable) Get(faceID uint64) Face {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.faces[faceID]
}

// Remove unregisters faceID from the table, e.g. after its transport goes
// down.
func (t *faceTable) Remove(faceID uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.faces, faceID)
}

// GetAll returns every face currently registered, in no particular order.
func (t *faceTable) GetAll() []Face {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ret := make([]Face, 0, len(t.faces))
	for _, f := range t.faces {
		ret = append(ret, f)
	}
	return ret
}
