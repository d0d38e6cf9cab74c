package table

import (
	"strings"
	"time"

	"github.com/nfdgo/ndnd/fw/defn"
	enc "github.com/nfdgo/ndnd/std/encoding"
)

// DefaultInterestLifetime is applied to an in-record or out-record when the
// triggering Interest carries no explicit InterestLifetime.
const DefaultInterestLifetime = 4 * time.Second

// StragglerTime is how long a PIT entry lingers after being satisfied,
// to catch any Data that arrives from a slower upstream.
const StragglerTime = 100 * time.Millisecond

// PitInRecord tracks a downstream face that is waiting on an Interest.
type PitInRecord struct {
	Face             uint64
	LatestNonce      uint32
	LatestTimestamp  time.Time
	ExpirationTime   time.Time
	PitToken         []byte
}

// PitOutRecord tracks an upstream face an Interest was forwarded to.
type PitOutRecord struct {
	Face            uint64
	LatestNonce     uint32
	LatestTimestamp time.Time
	ExpirationTime  time.Time
	NackReason      defn.NackReason
	HasNack         bool
}

// PitEntry is the interface strategies and pipelines use to interact with
// a pending Interest table entry, independent of its concrete storage.
type PitEntry interface {
	EncName() enc.Name
	CanBePrefix() bool
	MustBeFresh() bool
	ForwardingHintNew() enc.Name
	InRecords() map[uint64]*PitInRecord
	OutRecords() map[uint64]*PitOutRecord
	ExpirationTime() time.Time
	Satisfied() bool
	SetSatisfied(bool)
	Token() uint32

	InsertOutRecord(interest *defn.FwInterest, faceID uint64) *PitOutRecord
	GetOutRecord(faceID uint64) (*PitOutRecord, bool)
	DeleteOutRecord(faceID uint64)
	GetInRecord(faceID uint64) (*PitInRecord, bool)
	DeleteInRecord(faceID uint64)
	SetIncomingNack(faceID uint64, nack *defn.FwNack) bool
}

// basePitEntry is the concrete storage for a pending Interest: every
// downstream that asked for it (InRecords) and every upstream it was sent
// to (OutRecords), keyed by face ID.
type basePitEntry struct {
	encname           enc.Name
	canBePrefix       bool
	mustBeFresh       bool
	forwardingHintNew enc.Name
	inRecords         map[uint64]*PitInRecord
	outRecords        map[uint64]*PitOutRecord
	expirationTime    time.Time
	satisfied         bool
	token             uint32
}

func (e *basePitEntry) EncName() enc.Name              { return e.encname }
func (e *basePitEntry) CanBePrefix() bool               { return e.canBePrefix }
func (e *basePitEntry) MustBeFresh() bool               { return e.mustBeFresh }
func (e *basePitEntry) ForwardingHintNew() enc.Name     { return e.forwardingHintNew }
func (e *basePitEntry) InRecords() map[uint64]*PitInRecord  { return e.inRecords }
func (e *basePitEntry) OutRecords() map[uint64]*PitOutRecord { return e.outRecords }
func (e *basePitEntry) ExpirationTime() time.Time       { return e.expirationTime }
func (e *basePitEntry) Satisfied() bool                 { return e.satisfied }
func (e *basePitEntry) SetSatisfied(v bool)             { e.satisfied = v }
func (e *basePitEntry) Token() uint32                   { return e.token }

func (e *basePitEntry) setExpirationTime(t time.Time) { e.expirationTime = t }

// recomputeExpiration sets the entry's expirationTime to the latest of its
// in-records' ExpirationTime, i.e. the time at which the last downstream
// still waiting on this Interest gives up. Called after every in-record
// insert/refresh so the PIT's periodic sweep can erase entries nobody is
// waiting on anymore.
func (e *basePitEntry) recomputeExpiration() {
	var latest time.Time
	for _, r := range e.inRecords {
		if r.ExpirationTime.After(latest) {
			latest = r.ExpirationTime
		}
	}
	e.expirationTime = latest
}

// FindInRecordOnOtherFace returns the in-record carrying nonce on some face
// other than faceID, if any. Used to detect an Interest looping back to this
// node on a second face under a different downstream.
func (e *basePitEntry) FindInRecordOnOtherFace(faceID uint64, nonce uint32) (*PitInRecord, bool) {
	for face, r := range e.inRecords {
		if face != faceID && r.LatestNonce == nonce {
			return r, true
		}
	}
	return nil, false
}

// ClearInRecords removes every downstream in-record from this entry.
func (e *basePitEntry) ClearInRecords() {
	e.inRecords = make(map[uint64]*PitInRecord)
}

// ClearOutRecords removes every upstream out-record from this entry.
func (e *basePitEntry) ClearOutRecords() {
	e.outRecords = make(map[uint64]*PitOutRecord)
}

// InsertInRecord inserts a new in-record for faceID, or refreshes the
// existing one, returning it, whether it already existed, and (if it did)
// the nonce it previously carried.
func (e *basePitEntry) InsertInRecord(
	interest *defn.FwInterest, faceID uint64, pitToken []byte,
) (record *PitInRecord, alreadyExists bool, prevNonce uint32) {
	if e.inRecords == nil {
		e.inRecords = make(map[uint64]*PitInRecord)
	}

	lifetime := DefaultInterestLifetime
	if l, ok := interest.InterestLifetimeV.Get(); ok {
		lifetime = l
	}
	now := time.Now()

	existing, alreadyExists := e.inRecords[faceID]
	if alreadyExists {
		prevNonce = existing.LatestNonce
		existing.LatestNonce = interest.NonceV.Unwrap()
		existing.LatestTimestamp = now
		existing.ExpirationTime = now.Add(lifetime)
		existing.PitToken = pitToken
		e.recomputeExpiration()
		return existing, true, prevNonce
	}

	record = &PitInRecord{
		Face:            faceID,
		LatestNonce:     interest.NonceV.Unwrap(),
		LatestTimestamp: now,
		ExpirationTime:  now.Add(lifetime),
		PitToken:        pitToken,
	}
	e.inRecords[faceID] = record
	e.recomputeExpiration()
	return record, false, 0
}

// InsertOutRecord inserts a new out-record for faceID, or refreshes the
// existing one.
func (e *basePitEntry) InsertOutRecord(
	interest *defn.FwInterest, faceID uint64,
) *PitOutRecord {
	if e.outRecords == nil {
		e.outRecords = make(map[uint64]*PitOutRecord)
	}

	lifetime := DefaultInterestLifetime
	if l, ok := interest.InterestLifetimeV.Get(); ok {
		lifetime = l
	}
	now := time.Now()

	if existing, ok := e.outRecords[faceID]; ok {
		existing.LatestNonce = interest.NonceV.Unwrap()
		existing.LatestTimestamp = now
		existing.ExpirationTime = now.Add(lifetime)
		existing.HasNack = false
		return existing
	}

	record := &PitOutRecord{
		Face:            faceID,
		LatestNonce:     interest.NonceV.Unwrap(),
		LatestTimestamp: now,
		ExpirationTime:  now.Add(lifetime),
	}
	e.outRecords[faceID] = record
	return record
}

// GetInRecord returns the in-record for faceID, if any.
func (e *basePitEntry) GetInRecord(faceID uint64) (*PitInRecord, bool) {
	r, ok := e.inRecords[faceID]
	return r, ok
}

// GetOutRecord returns the out-record for faceID, if any.
func (e *basePitEntry) GetOutRecord(faceID uint64) (*PitOutRecord, bool) {
	r, ok := e.outRecords[faceID]
	return r, ok
}

// DeleteInRecord removes the in-record for faceID.
func (e *basePitEntry) DeleteInRecord(faceID uint64) {
	delete(e.inRecords, faceID)
}

// DeleteOutRecord removes the out-record for faceID.
func (e *basePitEntry) DeleteOutRecord(faceID uint64) {
	delete(e.outRecords, faceID)
}

// SetIncomingNack attaches an incoming Nack to the out-record for faceID,
// rejecting it if the Nack's nonce does not match the out-record's most
// recently sent nonce.
func (e *basePitEntry) SetIncomingNack(faceID uint64, nack *defn.FwNack) bool {
	out, ok := e.outRecords[faceID]
	if !ok {
		return false
	}
	nonce, ok := nack.InterestV.NonceV.Get()
	if !ok || nonce != out.LatestNonce {
		return false
	}
	out.HasNack = true
	out.NackReason = nack.ReasonV
	return true
}

// pitIdentity computes the PIT key for an Interest: its name, can-be-prefix
// and must-be-fresh flags, and forwarding hint, excluding nonce and lifetime.
func pitIdentity(interest *defn.FwInterest) string {
	var sb strings.Builder
	sb.WriteString(interest.NameV.String())
	if interest.CanBePrefixV {
		sb.WriteString("|P")
	}
	if interest.MustBeFreshV {
		sb.WriteString("|F")
	}
	if len(interest.ForwardingHintV) > 0 {
		sb.WriteString("|H:")
		sb.WriteString(interest.ForwardingHintV.String())
	}
	return sb.String()
}

// Pit is the Pending Interest Table: in-flight Interests this forwarding
// thread is waiting on Data or a Nack for.
type Pit struct {
	entries map[string]*basePitEntry
	nextTok uint32
}

// NewPit constructs an empty PIT.
func NewPit() *Pit {
	return &Pit{entries: make(map[string]*basePitEntry)}
}

// InsertInterest finds or creates the PIT entry matching interest's
// identity, returning it together with whether it already existed.
func (p *Pit) InsertInterest(interest *defn.FwInterest) (*basePitEntry, bool) {
	key := pitIdentity(interest)
	if e, ok := p.entries[key]; ok {
		return e, true
	}
	p.nextTok++
	e := &basePitEntry{
		encname:           interest.NameV,
		canBePrefix:       interest.CanBePrefixV,
		mustBeFresh:       interest.MustBeFreshV,
		forwardingHintNew: interest.ForwardingHintV,
		inRecords:         make(map[uint64]*PitInRecord),
		outRecords:        make(map[uint64]*PitOutRecord),
		token:             p.nextTok,
	}
	p.entries[key] = e
	return e, false
}

// FindInterestExact looks up the PIT entry for interest's identity without
// creating one.
func (p *Pit) FindInterestExact(interest *defn.FwInterest) (*basePitEntry, bool) {
	e, ok := p.entries[pitIdentity(interest)]
	return e, ok
}

// FindMatching returns every PIT entry whose identity is satisfied by an
// incoming Data's name, per the CanMatch contract.
func (p *Pit) FindMatching(data *defn.FwData) []*basePitEntry {
	var ret []*basePitEntry
	for _, e := range p.entries {
		if e.CanMatch(data) {
			ret = append(ret, e)
		}
	}
	return ret
}

// CanMatch reports whether this PIT entry's Interest identity is satisfied
// by the given Data: the entry's name must be a prefix of (or equal to,
// when CanBePrefix is false) the Data's name, and MustBeFresh must be
// honored by the caller using the Data's freshness.
func (e *basePitEntry) CanMatch(data *defn.FwData) bool {
	if e.canBePrefix {
		return e.encname.IsPrefix(data.NameV)
	}
	return e.encname.Equal(data.NameV)
}

// Erase removes the PIT entry matching interest's identity.
func (p *Pit) Erase(e *basePitEntry) {
	delete(p.entries, pitIdentity(&defn.FwInterest{
		NameV:           e.encname,
		CanBePrefixV:    e.canBePrefix,
		MustBeFreshV:    e.mustBeFresh,
		ForwardingHintV: e.forwardingHintNew,
	}))
}

// Size returns the number of entries currently in the PIT.
func (p *Pit) Size() int {
	return len(p.entries)
}

// SweepExpired erases every PIT entry whose unsatisfy_timer has fired: no
// in-record remains live as of now. Satisfied entries are instead erased by
// the straggler timer scheduled in the Incoming Data pipeline, so this only
// ever reclaims Interests nobody downstream is waiting on anymore. Returns
// the number of entries erased.
func (p *Pit) SweepExpired(now time.Time) int {
	n := 0
	for key, e := range p.entries {
		if len(e.inRecords) == 0 {
			continue
		}
		if e.expirationTime.After(now) {
			continue
		}
		delete(p.entries, key)
		n++
	}
	return n
}

// RemoveFace deletes every in-record and out-record referencing faceID
// across all entries, erasing any entry left with no remaining records.
func (p *Pit) RemoveFace(faceID uint64) {
	for key, e := range p.entries {
		delete(e.inRecords, faceID)
		delete(e.outRecords, faceID)
		if len(e.inRecords) == 0 && len(e.outRecords) == 0 {
			delete(p.entries, key)
		}
	}
}
