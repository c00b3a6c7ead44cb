package contract

import (
	"fmt"
	"strconv"

	"okinoko_multichoice/sdk"
)

// loadConfig decodes the singleton config, failing before Instantiate ran.
func loadConfig(st State) (*Config, error) {
	ptr, err := st.Get(configKey())
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, ErrNotInstantiated
	}
	return DecodeConfig([]byte(*ptr))
}

func saveConfig(st readWriter, cfg *Config) {
	st.Set(configKey(), string(EncodeConfig(cfg)))
}

// loadProposal decodes a proposal by id.
func loadProposal(st State, id uint64) (*Proposal, error) {
	ptr, err := st.Get(proposalKey(id))
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, fmt.Errorf("proposal %d: %w", id, ErrNoSuchProposal)
	}
	return DecodeProposal([]byte(*ptr))
}

// checkProposalSize measures p with every tally slot at full width. Weight is
// the only field that grows after creation, so a proposal passing here stays
// within MaxProposalSize for its whole life.
func checkProposalSize(p *Proposal) error {
	widest := *p
	widest.Votes = make(Tally, len(p.Votes))
	for i := range widest.Votes {
		widest.Votes[i].SetAllOne()
	}
	if n := len(EncodeProposal(&widest)); n > MaxProposalSize {
		return fmt.Errorf("proposal %d encodes to up to %d bytes, max %d: %w", p.ID, n, MaxProposalSize, ErrProposalTooLarge)
	}
	return nil
}

func saveProposal(st readWriter, p *Proposal) {
	st.Set(proposalKey(p.ID), string(EncodeProposal(p)))
}

// getProposalCount returns the highest id handed out so far.
func getProposalCount(st State) (uint64, error) {
	ptr, err := st.Get(proposalCountKey())
	if err != nil {
		return 0, err
	}
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("proposal count %q: %w", *ptr, ErrCorruptState)
	}
	return n, nil
}

func setProposalCount(st readWriter, n uint64) {
	st.Set(proposalCountKey(), strconv.FormatUint(n, 10))
}

// ballotBook stores the ballots of one proposal in the call buffer.
type ballotBook struct {
	st readWriter
	id uint64
}

var _ BallotBook = ballotBook{}

func (b ballotBook) Ballot(voter sdk.Address) (*Ballot, error) {
	return loadBallot(b.st, b.id, voter)
}

func (b ballotBook) PutBallot(ballot Ballot) error {
	b.st.Set(ballotKey(b.id, ballot.Voter), string(EncodeBallot(&ballot)))
	return nil
}

// loadBallot returns nil when voter has no ballot on the proposal.
func loadBallot(st State, id uint64, voter sdk.Address) (*Ballot, error) {
	ptr, err := st.Get(ballotKey(id, voter))
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	return DecodeBallot([]byte(*ptr))
}
