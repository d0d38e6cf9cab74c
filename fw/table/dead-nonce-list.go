package table

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	enc "github.com/nfdgo/ndnd/std/encoding"
)

// Dead-Nonce List self-tuning constants, per the forwarder's loop-detection
// design: the list only needs to be approximate, so capacity tracks the
// insertion rate instead of storing a timestamp per entry.
const (
	DeadNonceListMinCapacity         = 8
	DeadNonceListMaxCapacity         = 16_777_216
	DeadNonceListInitialCapacity     = 128
	DeadNonceListEvictBatch          = 64
	DeadNonceListDefaultLifetime     = 6 * time.Second
	DeadNonceListExpectedMarkCount   = 5
)

// DeadNonceList is a fixed-capacity FIFO-with-membership of 64-bit
// fingerprints, used to detect looping Interests without storing a
// timestamp per entry.
type DeadNonceList struct {
	mu       sync.Mutex
	fifo     []uint64
	members  map[uint64]int
	capacity int
	lifetime time.Duration

	markInterval   time.Duration
	marksSinceAdj  []int
	currentMarks   int
}

// NewDeadNonceList constructs a Dead-Nonce List with the default lifetime
// and initial capacity.
func NewDeadNonceList() *DeadNonceList {
	d := &DeadNonceList{
		members:  make(map[uint64]int),
		capacity: DeadNonceListInitialCapacity,
		lifetime: DeadNonceListDefaultLifetime,
	}
	d.markInterval = d.lifetime / DeadNonceListExpectedMarkCount
	return d
}

// fingerprint hashes a name's wire encoding together with the nonce.
func fingerprint(name enc.Name, nonce uint32) uint64 {
	h := xxhash.New()
	_, _ = h.Write(name.Bytes())
	var nb [4]byte
	nb[0] = byte(nonce >> 24)
	nb[1] = byte(nonce >> 16)
	nb[2] = byte(nonce >> 8)
	nb[3] = byte(nonce)
	_, _ = h.Write(nb[:])
	return h.Sum64()
}

// Add records (name, nonce) as seen, evicting from the FIFO head while the
// list exceeds capacity, at most DeadNonceListEvictBatch entries per call.
func (d *DeadNonceList) Add(name enc.Name, nonce uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.add(fingerprint(name, nonce))
}

func (d *DeadNonceList) add(fp uint64) {
	d.fifo = append(d.fifo, fp)
	d.members[fp]++

	evicted := 0
	for len(d.fifo) > d.capacity && evicted < DeadNonceListEvictBatch {
		d.popFront()
		evicted++
	}
}

func (d *DeadNonceList) popFront() {
	if len(d.fifo) == 0 {
		return
	}
	fp := d.fifo[0]
	d.fifo = d.fifo[1:]
	if n := d.members[fp]; n <= 1 {
		delete(d.members, fp)
	} else {
		d.members[fp] = n - 1
	}
}

// Has reports whether (name, nonce) is still present in the list.
func (d *DeadNonceList) Has(name enc.Name, nonce uint32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.members[fingerprint(name, nonce)]
	return ok
}

// Size returns the number of fingerprints currently stored.
func (d *DeadNonceList) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.fifo)
}

// Mark inserts the distinguished zero fingerprint, used by the periodic
// self-tuning timer to estimate how long entries survive.
func (d *DeadNonceList) Mark() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.add(0)
	d.currentMarks++
}

// Adjust counts the marks still present in the list and runs the
// self-tuning rule: grows capacity if every observed mark count since the
// last adjustment fell below the expected count, shrinks
// if every one exceeded it, and otherwise leaves capacity unchanged. It is
// invoked by a scheduled timer every `lifetime`.
func (d *DeadNonceList) Adjust() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.marksSinceAdj = append(d.marksSinceAdj, d.members[0])
	d.currentMarks = 0

	allAbove, allBelow := true, true
	for _, c := range d.marksSinceAdj {
		if c <= DeadNonceListExpectedMarkCount {
			allAbove = false
		}
		if c >= DeadNonceListExpectedMarkCount {
			allBelow = false
		}
	}

	if allAbove {
		d.capacity = max(DeadNonceListMinCapacity, int(float64(d.capacity)*0.9))
	} else if allBelow {
		d.capacity = min(DeadNonceListMaxCapacity, int(float64(d.capacity)*1.2))
	}
	d.marksSinceAdj = d.marksSinceAdj[:0]
}

// MarkInterval returns the interval at which Mark should be invoked by a
// scheduled timer (lifetime / EXPECTED_MARK_COUNT).
func (d *DeadNonceList) MarkInterval() time.Duration {
	return d.markInterval
}

// Lifetime returns the interval at which Adjust should be invoked.
func (d *DeadNonceList) Lifetime() time.Duration {
	return d.lifetime
}
