package contract

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/holiman/uint256"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"okinoko_multichoice/sdk"
)

type binWriter struct {
	buf bytes.Buffer
}

// newWriter spins up a fresh writer so we dont leak old bytes between encodes.
func newWriter() *binWriter { return &binWriter{} }

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

// writeBool squashes bools into a single byte flag for deterministic payloads.
func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// writeUint64 writes big endian numbers so tooling can read them without guessing.
func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeInt64(v int64) {
	w.writeUint64(uint64(v))
}

// writeVarUint uses varints to keep counts and lens compact.
func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeString prefixes its length then dumps UTF-8 directly.
func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

// writeU256 stores weights as a length prefixed minimal big endian slice.
func (w *binWriter) writeU256(v *uint256.Int) {
	b := v.Bytes()
	w.buf.WriteByte(byte(len(b)))
	w.buf.Write(b)
}

func sortedKeys(m map[string]string) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

// writeStringMap iterates keys in sorted order so binary blobs are stable.
func (w *binWriter) writeStringMap(m map[string]string) {
	keys := sortedKeys(m)
	w.writeVarUint(uint64(len(keys)))
	for _, k := range keys {
		w.writeString(k)
		w.writeString(m[k])
	}
}

func (w *binWriter) writeQuorum(q Quorum) {
	w.buf.WriteByte(byte(q.Kind))
	if q.Kind == QuorumPercent {
		w.writeString(q.Percent.String())
	}
}

func (w *binWriter) writeDuration(d Duration) {
	w.buf.WriteByte(byte(d.Unit))
	w.writeUint64(d.Value)
}

func (w *binWriter) writeExpiration(e Expiration) {
	w.buf.WriteByte(byte(e.Unit))
	w.writeUint64(e.Value)
}

// writeDeposit writes a presence bit so decoders know if data follows.
func (w *binWriter) writeDeposit(d *DepositInfo) {
	if d == nil {
		w.writeBool(false)
		return
	}
	w.writeBool(true)
	w.writeString(d.Asset.String())
	w.writeU256(&d.Amount)
	w.writeBool(d.RefundFailedProposals)
}

// ------------------------------------------------------------------
// Decoder
// ------------------------------------------------------------------

var errShortRead = errors.New("unexpected EOF")

// binReader remembers the first error so decode functions can read a whole
// record and check once at the end.
type binReader struct {
	data []byte
	pos  int
	err  error
}

func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *binReader) readByte() byte {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.data) {
		r.fail(errShortRead)
		return 0
	}
	b := r.data[r.pos]
	r.pos++
	return b
}

func (r *binReader) readBool() bool {
	return r.readByte() == 1
}

func (r *binReader) readUint64() uint64 {
	if r.err != nil {
		return 0
	}
	if r.pos+8 > len(r.data) {
		r.fail(errShortRead)
		return 0
	}
	v := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v
}

func (r *binReader) readInt64() int64 {
	return int64(r.readUint64())
}

func (r *binReader) readVarUint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		r.fail(errors.New("invalid varuint"))
		return 0
	}
	r.pos += n
	return v
}

// readCount reads a length and refuses values larger than the remaining bytes.
func (r *binReader) readCount() int {
	n := r.readVarUint()
	if n > uint64(len(r.data)-r.pos) {
		r.fail(errShortRead)
		return 0
	}
	return int(n)
}

func (r *binReader) readString() string {
	l := r.readCount()
	if r.err != nil {
		return ""
	}
	s := string(r.data[r.pos : r.pos+l])
	r.pos += l
	return s
}

func (r *binReader) readU256() uint256.Int {
	var v uint256.Int
	l := int(r.readByte())
	if r.err != nil {
		return v
	}
	if l > 32 || r.pos+l > len(r.data) {
		r.fail(errShortRead)
		return v
	}
	v.SetBytes(r.data[r.pos : r.pos+l])
	r.pos += l
	return v
}

func (r *binReader) readStringMap() map[string]string {
	count := r.readCount()
	m := make(map[string]string, count)
	for i := 0; i < count && r.err == nil; i++ {
		k := r.readString()
		m[k] = r.readString()
	}
	return m
}

func (r *binReader) readQuorum() Quorum {
	q := Quorum{Kind: QuorumKind(r.readByte())}
	if q.Kind == QuorumPercent {
		p, err := decimal.NewFromString(r.readString())
		if err != nil {
			r.fail(err)
		}
		q.Percent = p
	}
	return q
}

func (r *binReader) readDuration() Duration {
	unit := DurationUnit(r.readByte())
	return Duration{Unit: unit, Value: r.readUint64()}
}

func (r *binReader) readExpiration() Expiration {
	unit := ExpirationUnit(r.readByte())
	return Expiration{Unit: unit, Value: r.readUint64()}
}

func (r *binReader) readDeposit() *DepositInfo {
	if !r.readBool() {
		return nil
	}
	d := &DepositInfo{Asset: sdk.Asset(r.readString())}
	d.Amount = r.readU256()
	d.RefundFailedProposals = r.readBool()
	return d
}

// done turns trailing garbage or a sticky error into ErrCorruptState.
func (r *binReader) done(what string) error {
	if r.err == nil && r.pos != len(r.data) {
		r.err = fmt.Errorf("%d trailing bytes", len(r.data)-r.pos)
	}
	if r.err != nil {
		return fmt.Errorf("decode %s: %v: %w", what, r.err, ErrCorruptState)
	}
	return nil
}

// ------------------------------------------------------------------
// Records
// ------------------------------------------------------------------

// EncodeConfig squeezes every config bit into the binary form.
func EncodeConfig(cfg *Config) []byte {
	w := newWriter()
	w.writeString(cfg.DAO.String())
	w.writeString(cfg.Module.String())
	w.writeQuorum(cfg.Quorum)
	w.writeDuration(cfg.MaxVotingPeriod)
	w.writeBool(cfg.MinVotingPeriod != nil)
	if cfg.MinVotingPeriod != nil {
		w.writeDuration(*cfg.MinVotingPeriod)
	}
	w.writeBool(cfg.OnlyMembersExecute)
	w.writeBool(cfg.AllowRevoting)
	w.writeBool(cfg.CloseProposalOnExecutionFailure)
	w.writeDeposit(cfg.Deposit)
	return w.bytes()
}

func DecodeConfig(data []byte) (*Config, error) {
	r := newReader(data)
	cfg := &Config{}
	cfg.DAO = sdk.Address(r.readString())
	cfg.Module = sdk.Address(r.readString())
	cfg.Quorum = r.readQuorum()
	cfg.MaxVotingPeriod = r.readDuration()
	if r.readBool() {
		d := r.readDuration()
		cfg.MinVotingPeriod = &d
	}
	cfg.OnlyMembersExecute = r.readBool()
	cfg.AllowRevoting = r.readBool()
	cfg.CloseProposalOnExecutionFailure = r.readBool()
	cfg.Deposit = r.readDeposit()
	if err := r.done("config"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func encodeOption(w *binWriter, opt *Option) {
	w.writeString(opt.Title)
	w.writeString(opt.Description)
	w.writeVarUint(uint64(len(opt.Messages)))
	for _, msg := range opt.Messages {
		w.writeString(msg.Type)
		w.writeStringMap(msg.Args)
	}
}

func decodeOption(r *binReader) Option {
	opt := Option{Title: r.readString(), Description: r.readString()}
	n := r.readCount()
	for i := 0; i < n && r.err == nil; i++ {
		msg := Message{Type: r.readString()}
		msg.Args = r.readStringMap()
		opt.Messages = append(opt.Messages, msg)
	}
	return opt
}

// EncodeProposal serializes the full proposal, tally included.
func EncodeProposal(p *Proposal) []byte {
	w := newWriter()
	w.writeUint64(p.ID)
	w.writeString(p.Title)
	w.writeString(p.Description)
	w.writeString(p.Proposer.String())
	w.writeUint64(p.StartHeight)
	w.writeInt64(p.Created)
	w.writeExpiration(p.Expiration)
	w.writeBool(p.MinVotingPeriod != nil)
	if p.MinVotingPeriod != nil {
		w.writeExpiration(*p.MinVotingPeriod)
	}
	w.writeQuorum(p.Quorum)
	w.writeVarUint(uint64(len(p.Options)))
	for i := range p.Options {
		encodeOption(w, &p.Options[i])
	}
	w.buf.WriteByte(byte(p.Status))
	w.writeU256(&p.TotalPower)
	w.writeVarUint(uint64(len(p.Votes)))
	for i := range p.Votes {
		w.writeU256(&p.Votes[i])
	}
	w.writeBool(p.AllowRevoting)
	w.writeDeposit(p.Deposit)
	w.writeBool(p.DepositSettled)
	w.writeInt64(p.LastUpdated)
	return w.bytes()
}

func DecodeProposal(data []byte) (*Proposal, error) {
	r := newReader(data)
	p := &Proposal{}
	p.ID = r.readUint64()
	p.Title = r.readString()
	p.Description = r.readString()
	p.Proposer = sdk.Address(r.readString())
	p.StartHeight = r.readUint64()
	p.Created = r.readInt64()
	p.Expiration = r.readExpiration()
	if r.readBool() {
		e := r.readExpiration()
		p.MinVotingPeriod = &e
	}
	p.Quorum = r.readQuorum()
	n := r.readCount()
	for i := 0; i < n && r.err == nil; i++ {
		p.Options = append(p.Options, decodeOption(r))
	}
	p.Status = Status(r.readByte())
	p.TotalPower = r.readU256()
	n = r.readCount()
	p.Votes = make(Tally, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		p.Votes = append(p.Votes, r.readU256())
	}
	p.AllowRevoting = r.readBool()
	p.Deposit = r.readDeposit()
	p.DepositSettled = r.readBool()
	p.LastUpdated = r.readInt64()
	if err := r.done("proposal"); err != nil {
		return nil, err
	}
	if len(p.Votes) != len(p.Options)+1 {
		return nil, fmt.Errorf("proposal %d has %d tally slots for %d options: %w", p.ID, len(p.Votes), len(p.Options), ErrCorruptState)
	}
	return p, nil
}

// EncodeBallot keeps ballots tiny, the key already carries proposal and voter.
func EncodeBallot(b *Ballot) []byte {
	w := newWriter()
	w.writeString(b.Voter.String())
	w.writeVarUint(uint64(b.Option))
	w.writeU256(&b.Power)
	return w.bytes()
}

func DecodeBallot(data []byte) (*Ballot, error) {
	r := newReader(data)
	b := &Ballot{Voter: sdk.Address(r.readString())}
	b.Option = uint32(r.readVarUint())
	b.Power = r.readU256()
	if err := r.done("ballot"); err != nil {
		return nil, err
	}
	return b, nil
}

func encodeAddresses(addrs []sdk.Address) []byte {
	w := newWriter()
	w.writeVarUint(uint64(len(addrs)))
	for _, a := range addrs {
		w.writeString(a.String())
	}
	return w.bytes()
}

func decodeAddresses(data []byte) ([]sdk.Address, error) {
	r := newReader(data)
	n := r.readCount()
	out := make([]sdk.Address, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, sdk.Address(r.readString()))
	}
	if err := r.done("address list"); err != nil {
		return nil, err
	}
	return out, nil
}
