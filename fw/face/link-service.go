package face

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	defn "github.com/nfdgo/ndnd/fw/defn"
	"github.com/nfdgo/ndnd/fw/core"
	enc "github.com/nfdgo/ndnd/std/encoding"
	spec_mgmt "github.com/nfdgo/ndnd/std/ndn/mgmt_2022"
)

// LinkService is the link-layer adaptation between a transport's raw
// frames and the forwarder's network-layer packets: NDNLPv2 framing,
// fragmentation/reassembly, and (eventually) congestion marking.
type LinkService interface {
	Face

	// handleIncomingFrame is called by the transport with one raw link
	// frame (an NDNLP packet, or a bare network-layer packet for
	// transports that disable fragmentation).
	handleIncomingFrame(frame []byte)

	// Run starts the underlying transport's receive loop in its own
	// goroutine and returns immediately; once the loop exits, onFail (if
	// non-nil) is invoked from that goroutine.
	Run(onFail func())
}

// NDNLPLinkServiceOptions configures fragmentation and reassembly for an
// NDNLPLinkService.
type NDNLPLinkServiceOptions struct {
	IsFragmentationEnabled bool
	IsReassemblyEnabled    bool

	// IdleTimeout evicts a partial message whose last fragment arrived
	// longer ago than this, so a group missing a fragment doesn't linger
	// in the reassembly buffer forever.
	IdleTimeout time.Duration
}

// defaultIdlePeriod is the process-wide default for
// NDNLPLinkServiceOptions.IdleTimeout, configurable via
// CfgSetDefaultIdlePeriod before any face is constructed.
var defaultIdlePeriod = 100 * time.Millisecond

// CfgSetDefaultIdlePeriod sets the default NDNLP reassembly idle timeout
// applied by MakeNDNLPLinkServiceOptions.
func CfgSetDefaultIdlePeriod(d time.Duration) { defaultIdlePeriod = d }

// CfgDefaultIdlePeriod returns the current default NDNLP reassembly idle
// timeout.
func CfgDefaultIdlePeriod() time.Duration { return defaultIdlePeriod }

// MakeNDNLPLinkServiceOptions returns the default options: fragmentation
// and reassembly both enabled, suitable for unreliable datagram
// transports such as UDP.
func MakeNDNLPLinkServiceOptions() NDNLPLinkServiceOptions {
	return NDNLPLinkServiceOptions{
		IsFragmentationEnabled: true,
		IsReassemblyEnabled:    true,
		IdleTimeout:            defaultIdlePeriod,
	}
}

// reassemblyBuffer accumulates the fragments of a single in-flight
// network-layer packet, identified by its NDNLP sequence number.
type reassemblyBuffer struct {
	fragments  [][]byte
	received   int
	lastUpdate time.Time
}

// NDNLPLinkService implements LinkService over any transport, tagging
// outgoing network-layer packets with an NDNLP header and, when enabled,
// splitting them into MTU-sized fragments; incoming frames are
// reassembled (if fragmented) and handed to the registered receive
// callback.
type NDNLPLinkService struct {
	transport transport
	options   NDNLPLinkServiceOptions

	nextSequence uint64

	reassemblyMu sync.Mutex
	reassembly   map[uint64]*reassemblyBuffer
	stopSweep    chan struct{}
	closeOnce    sync.Once

	onReceive func(pkt *defn.Pkt, inFace uint64)

	nInInterests, nInData, nInNacks    uint64
	nOutInterests, nOutData, nOutNacks uint64
}

// MakeNDNLPLinkService constructs an NDNLPLinkService wrapping transport,
// registers it in the FaceTable, and wires the transport back to it.
func MakeNDNLPLinkService(t transport, options NDNLPLinkServiceOptions) *NDNLPLinkService {
	if options.IdleTimeout <= 0 {
		options.IdleTimeout = defaultIdlePeriod
	}

	l := &NDNLPLinkService{
		transport:  t,
		options:    options,
		reassembly: make(map[uint64]*reassemblyBuffer),
		stopSweep:  make(chan struct{}),
	}
	t.setLinkService(l)
	FaceTable.Add(l, t.setFaceID)

	if options.IsReassemblyEnabled {
		go l.sweepReassembly()
	}

	return l
}

// sweepReassembly periodically evicts reassembly groups that have sat
// incomplete for longer than the configured idle timeout, so a lost
// fragment doesn't leak memory forever.
func (l *NDNLPLinkService) sweepReassembly() {
	ticker := time.NewTicker(l.options.IdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopSweep:
			return
		case now := <-ticker.C:
			l.reassemblyMu.Lock()
			for seq, buf := range l.reassembly {
				if now.Sub(buf.lastUpdate) >= l.options.IdleTimeout {
					delete(l.reassembly, seq)
				}
			}
			l.reassemblyMu.Unlock()
		}
	}
}

func (l *NDNLPLinkService) String() string {
	return fmt.Sprintf("ndnlp-link-service (face=%d remote=%s)", l.transport.FaceID(), l.transport.RemoteURI())
}

func (l *NDNLPLinkService) FaceID() uint64                    { return l.transport.FaceID() }
func (l *NDNLPLinkService) LocalURI() *defn.URI                { return l.transport.LocalURI() }
func (l *NDNLPLinkService) RemoteURI() *defn.URI               { return l.transport.RemoteURI() }
func (l *NDNLPLinkService) Scope() defn.Scope                  { return l.transport.Scope() }
func (l *NDNLPLinkService) LinkType() defn.LinkType            { return l.transport.LinkType() }
func (l *NDNLPLinkService) Persistency() spec_mgmt.Persistency { return l.transport.Persistency() }
func (l *NDNLPLinkService) MTU() int                           { return l.transport.MTU() }
func (l *NDNLPLinkService) IsRunning() bool                    { return l.transport.IsRunning() }
func (l *NDNLPLinkService) Close() {
	l.closeOnce.Do(func() { close(l.stopSweep) })
	l.transport.Close()
}
func (l *NDNLPLinkService) NInBytes() uint64                   { return l.transport.NInBytes() }
func (l *NDNLPLinkService) NOutBytes() uint64                  { return l.transport.NOutBytes() }

func (l *NDNLPLinkService) SetPersistency(persistency spec_mgmt.Persistency) bool {
	return l.transport.SetPersistency(persistency)
}

func (l *NDNLPLinkService) NInInterests() uint64  { return atomic.LoadUint64(&l.nInInterests) }
func (l *NDNLPLinkService) NInData() uint64       { return atomic.LoadUint64(&l.nInData) }
func (l *NDNLPLinkService) NInNacks() uint64      { return atomic.LoadUint64(&l.nInNacks) }
func (l *NDNLPLinkService) NOutInterests() uint64 { return atomic.LoadUint64(&l.nOutInterests) }
func (l *NDNLPLinkService) NOutData() uint64      { return atomic.LoadUint64(&l.nOutData) }
func (l *NDNLPLinkService) NOutNacks() uint64     { return atomic.LoadUint64(&l.nOutNacks) }

// OnReceivePacket registers the callback invoked for every packet
// reassembled (or passed through) from this face.
func (l *NDNLPLinkService) OnReceivePacket(fn func(pkt *defn.Pkt, inFace uint64)) {
	l.onReceive = fn
}

// Run starts the transport's blocking receive loop; onFail (if non-nil)
// is invoked once the loop returns, e.g. after the remote end closes the
// connection.
func (l *NDNLPLinkService) Run(onFail func()) {
	go func() {
		l.transport.runReceive()
		FaceTable.Remove(l.FaceID())
		if onFail != nil {
			onFail()
		}
	}()
}

// SendPacket encodes pkt, wraps it in NDNLP framing, fragments it if
// fragmentation is enabled and the wire exceeds the transport's MTU, and
// hands each resulting frame to the transport.
func (l *NDNLPLinkService) SendPacket(pkt *defn.Pkt) {
	wire := pkt.Raw
	if len(wire) == 0 {
		wire = defn.EncodePacket(pkt)
	}
	payload := wire.Join()

	reason := defn.NackReasonNone
	switch {
	case pkt.L3.Nack != nil:
		atomic.AddUint64(&l.nOutNacks, 1)
		reason = pkt.L3.Nack.ReasonV
	case pkt.L3.Interest != nil:
		atomic.AddUint64(&l.nOutInterests, 1)
	case pkt.L3.Data != nil:
		atomic.AddUint64(&l.nOutData, 1)
	}

	if !l.options.IsFragmentationEnabled || len(payload) <= l.MTU() {
		l.transport.sendFrame(wrapLpPacket(payload, 0, 1, 0, reason))
		return
	}

	fragSize := l.MTU() - lpOverhead
	if fragSize <= 0 {
		fragSize = l.MTU()
	}

	total := (len(payload) + fragSize - 1) / fragSize
	base := atomic.AddUint64(&l.nextSequence, uint64(total)) - uint64(total)
	for i := 0; i < total; i++ {
		start := i * fragSize
		end := start + fragSize
		if end > len(payload) {
			end = len(payload)
		}
		l.transport.sendFrame(wrapLpPacket(payload[start:end], base+uint64(i), total, i, reason))
	}
}

// handleIncomingFrame parses frame as an NDNLP packet (falling back to
// treating it as a bare network-layer packet for transports that
// disabled fragmentation), reassembles it if fragmented, and on
// completion decodes and dispatches the network-layer packet.
func (l *NDNLPLinkService) handleIncomingFrame(frame []byte) {
	payload, seq, fragIndex, fragCount, reason, ok := unwrapLpPacket(frame)
	if !ok {
		payload = frame
		fragCount = 1
		reason = defn.NackReasonNone
	}

	if fragCount > 1 {
		payload, ok = l.reassemble(seq, fragIndex, fragCount, payload)
		if !ok {
			return
		}
	}

	pkt, err := defn.ReadPacket(enc.Wire{payload})
	if err != nil {
		core.Log.Debug(l, "Failed to decode incoming packet", "err", err)
		return
	}

	if reason != defn.NackReasonNone && pkt.L3.Interest != nil {
		pkt.L3.Nack = &defn.FwNack{InterestV: pkt.L3.Interest, ReasonV: reason}
		pkt.L3.Interest = nil
	}

	switch {
	case pkt.L3.Nack != nil:
		atomic.AddUint64(&l.nInNacks, 1)
	case pkt.L3.Interest != nil:
		atomic.AddUint64(&l.nInInterests, 1)
	case pkt.L3.Data != nil:
		atomic.AddUint64(&l.nInData, 1)
	}

	if l.onReceive != nil {
		l.onReceive(pkt, l.FaceID())
	}
}

// reassemble buffers one fragment belonging to sequence base seq, and
// returns the fully reassembled payload once every fragment of its group
// has arrived. Group membership is by base sequence (seq - fragIndex),
// matching how SendPacket assigns sequence numbers across a fragment run.
func (l *NDNLPLinkService) reassemble(seq uint64, fragIndex, fragCount int, fragment []byte) ([]byte, bool) {
	base := seq - uint64(fragIndex)

	l.reassemblyMu.Lock()
	defer l.reassemblyMu.Unlock()

	buf, ok := l.reassembly[base]
	if !ok {
		buf = &reassemblyBuffer{fragments: make([][]byte, fragCount)}
		l.reassembly[base] = buf
	}
	if fragIndex >= len(buf.fragments) || buf.fragments[fragIndex] != nil {
		return nil, false
	}
	buf.fragments[fragIndex] = fragment
	buf.received++
	buf.lastUpdate = time.Now()

	if buf.received < fragCount {
		return nil, false
	}

	delete(l.reassembly, base)
	total := 0
	for _, f := range buf.fragments {
		total += len(f)
	}
	out := make([]byte, 0, total)
	for _, f := range buf.fragments {
		out = append(out, f...)
	}
	return out, true
}
