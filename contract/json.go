package contract

import (
	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/holiman/uint256"
)

// Query responses are written by hand with tinyjson's jwriter, the same shape
// the api and the cli --json output use.

func writeField(w *jwriter.Writer, first *bool, name string) {
	if !*first {
		w.RawByte(',')
	}
	*first = false
	w.String(name)
	w.RawByte(':')
}

func writeAmountJSON(w *jwriter.Writer, v *uint256.Int) {
	w.String(v.Dec())
}

func writeQuorumJSON(w *jwriter.Writer, q Quorum) {
	w.String(q.String())
}

func writeDepositJSON(w *jwriter.Writer, d *DepositInfo) {
	if d == nil {
		w.RawString("null")
		return
	}
	first := true
	w.RawByte('{')
	writeField(w, &first, "asset")
	w.String(d.Asset.String())
	writeField(w, &first, "amount")
	writeAmountJSON(w, &d.Amount)
	writeField(w, &first, "refund_failed_proposals")
	w.Bool(d.RefundFailedProposals)
	w.RawByte('}')
}

func writeExpirationJSON(w *jwriter.Writer, e Expiration) {
	first := true
	w.RawByte('{')
	switch e.Unit {
	case ExpiresAtHeight:
		writeField(w, &first, "at_height")
		w.Uint64(e.Value)
	case ExpiresAtTime:
		writeField(w, &first, "at_time")
		w.Uint64(e.Value)
	default:
		writeField(w, &first, "never")
		w.RawString("{}")
	}
	w.RawByte('}')
}

func writeDurationJSON(w *jwriter.Writer, d Duration) {
	first := true
	w.RawByte('{')
	if d.Unit == DurationTime {
		writeField(w, &first, "time")
	} else {
		writeField(w, &first, "height")
	}
	w.Uint64(d.Value)
	w.RawByte('}')
}

// MarshalTinyJSON writes p including its per option tally.
func (p *Proposal) MarshalTinyJSON(w *jwriter.Writer) {
	first := true
	w.RawByte('{')
	writeField(w, &first, "id")
	w.Uint64(p.ID)
	writeField(w, &first, "title")
	w.String(p.Title)
	writeField(w, &first, "description")
	w.String(p.Description)
	writeField(w, &first, "proposer")
	w.String(p.Proposer.String())
	writeField(w, &first, "start_height")
	w.Uint64(p.StartHeight)
	writeField(w, &first, "created")
	w.Int64(p.Created)
	writeField(w, &first, "expiration")
	writeExpirationJSON(w, p.Expiration)
	writeField(w, &first, "min_voting_period")
	if p.MinVotingPeriod == nil {
		w.RawString("null")
	} else {
		writeExpirationJSON(w, *p.MinVotingPeriod)
	}
	writeField(w, &first, "quorum")
	writeQuorumJSON(w, p.Quorum)
	writeField(w, &first, "status")
	w.String(p.Status.String())
	writeField(w, &first, "total_power")
	writeAmountJSON(w, &p.TotalPower)
	writeField(w, &first, "allow_revoting")
	w.Bool(p.AllowRevoting)
	writeField(w, &first, "deposit")
	writeDepositJSON(w, p.Deposit)
	writeField(w, &first, "deposit_settled")
	w.Bool(p.DepositSettled)
	writeField(w, &first, "last_updated")
	w.Int64(p.LastUpdated)
	writeField(w, &first, "options")
	w.RawByte('[')
	for i := range p.Votes {
		if i > 0 {
			w.RawByte(',')
		}
		of := true
		w.RawByte('{')
		writeField(w, &of, "index")
		w.Uint32(uint32(i))
		writeField(w, &of, "title")
		w.String(p.OptionTitle(uint32(i)))
		if i < len(p.Options) && p.Options[i].Description != "" {
			writeField(w, &of, "description")
			w.String(p.Options[i].Description)
		}
		if i < len(p.Options) {
			writeField(w, &of, "messages")
			writeMessagesJSON(w, p.Options[i].Messages)
		}
		writeField(w, &of, "votes")
		writeAmountJSON(w, &p.Votes[i])
		w.RawByte('}')
	}
	w.RawByte(']')
	w.RawByte('}')
}

func writeMessagesJSON(w *jwriter.Writer, msgs []Message) {
	w.RawByte('[')
	for i, m := range msgs {
		if i > 0 {
			w.RawByte(',')
		}
		first := true
		w.RawByte('{')
		writeField(w, &first, "type")
		w.String(m.Type)
		writeField(w, &first, "args")
		w.RawByte('{')
		af := true
		for _, k := range sortedKeys(m.Args) {
			writeField(w, &af, k)
			w.String(m.Args[k])
		}
		w.RawByte('}')
		w.RawByte('}')
	}
	w.RawByte(']')
}

func (b *Ballot) MarshalTinyJSON(w *jwriter.Writer) {
	first := true
	w.RawByte('{')
	writeField(w, &first, "voter")
	w.String(b.Voter.String())
	writeField(w, &first, "option")
	w.Uint32(b.Option)
	writeField(w, &first, "power")
	writeAmountJSON(w, &b.Power)
	w.RawByte('}')
}

func (c *Config) MarshalTinyJSON(w *jwriter.Writer) {
	first := true
	w.RawByte('{')
	writeField(w, &first, "dao")
	w.String(c.DAO.String())
	writeField(w, &first, "module")
	w.String(c.Module.String())
	writeField(w, &first, "quorum")
	writeQuorumJSON(w, c.Quorum)
	writeField(w, &first, "max_voting_period")
	writeDurationJSON(w, c.MaxVotingPeriod)
	writeField(w, &first, "min_voting_period")
	if c.MinVotingPeriod == nil {
		w.RawString("null")
	} else {
		writeDurationJSON(w, *c.MinVotingPeriod)
	}
	writeField(w, &first, "only_members_execute")
	w.Bool(c.OnlyMembersExecute)
	writeField(w, &first, "allow_revoting")
	w.Bool(c.AllowRevoting)
	writeField(w, &first, "close_proposal_on_execution_failure")
	w.Bool(c.CloseProposalOnExecutionFailure)
	writeField(w, &first, "deposit")
	writeDepositJSON(w, c.Deposit)
	w.RawByte('}')
}

func (r *FilterResult) MarshalTinyJSON(w *jwriter.Writer) {
	first := true
	w.RawByte('{')
	writeField(w, &first, "proposals")
	ProposalList(r.Proposals).MarshalTinyJSON(w)
	writeField(w, &first, "last_proposal_id")
	w.Uint64(r.LastProposalID)
	w.RawByte('}')
}

// ProposalList is a JSON array of proposals.
type ProposalList []*Proposal

func (l ProposalList) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawByte('[')
	for i, p := range l {
		if i > 0 {
			w.RawByte(',')
		}
		p.MarshalTinyJSON(w)
	}
	w.RawByte(']')
}

// BallotList is a JSON array of ballots.
type BallotList []Ballot

func (l BallotList) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawByte('[')
	for i := range l {
		if i > 0 {
			w.RawByte(',')
		}
		l[i].MarshalTinyJSON(w)
	}
	w.RawByte(']')
}

// JSONMarshaler is anything that can write itself with jwriter.
type JSONMarshaler interface {
	MarshalTinyJSON(w *jwriter.Writer)
}

// MarshalJSON renders v into a fresh buffer.
func MarshalJSON(v JSONMarshaler) ([]byte, error) {
	w := &jwriter.Writer{}
	v.MarshalTinyJSON(w)
	return w.BuildBytes()
}
