package contract

// -----------------------------------------------------------------------------
// Validation Limits
// -----------------------------------------------------------------------------

const (
	// MinNumChoices is the smallest number of real options a proposal can offer.
	MinNumChoices = 2
	// MaxNumChoices bounds the real options, the none of the above slot comes on top.
	MaxNumChoices = 10
	// MaxProposalSize caps the encoded proposal so a single key never explodes.
	MaxProposalSize = 30_000
	// MaxTitleLength limits proposal and option titles.
	MaxTitleLength = 256
)

// -----------------------------------------------------------------------------
// Paging
// -----------------------------------------------------------------------------

const (
	DefaultPageLimit = 30
	MaxPageLimit     = 100
	// MaxFilterScan is how many proposals one filter query examines before it
	// hands the cursor back to the client.
	MaxFilterScan = 500
)

// -----------------------------------------------------------------------------
// Defaults used by Instantiate when a field is left empty
// -----------------------------------------------------------------------------

const (
	FallbackMaxVotingPeriodHeight = 100
	FallbackQuorumPercent         = "0.2"
)

// pageLimit clamps a client limit into [1, MaxPageLimit].
func pageLimit(limit uint32) int {
	switch {
	case limit == 0:
		return DefaultPageLimit
	case limit > MaxPageLimit:
		return MaxPageLimit
	default:
		return int(limit)
	}
}
