package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"okinoko_multichoice/contract"
	"okinoko_multichoice/sdk"
)

func newProposalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "proposal <id>",
		Aliases: []string{"show"},
		Short:   "Show one proposal with its tally",
		Long: `Proposal shows a proposal as of the current block. An open proposal whose
voting period ended is shown with its final status even before anyone closes
or executes it.`,
		Args: cobra.ExactArgs(1),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := s.Engine.Proposal(s.head(), id)
			if err != nil {
				return err
			}
			if s.opts.asJSON {
				return s.printJSON(p)
			}
			renderProposal(s.out, p)
			return nil
		}),
	}
}

func newProposalsCmd(opts *rootOptions) *cobra.Command {
	var (
		reverse bool
		start   uint64
		limit   uint32
	)
	cmd := &cobra.Command{
		Use:     "proposals",
		Aliases: []string{"ls"},
		Short:   "List proposals by id",
		Example: `  okinoko proposals --limit 10
  okinoko proposals --reverse --start 20`,
		Args: cobra.NoArgs,
		RunE: opts.action(func(s *session, _ *cobra.Command, _ []string) error {
			list := s.Engine.ListProposals
			if reverse {
				list = s.Engine.ReverseProposals
			}
			props, err := list(s.head(), start, limit)
			if err != nil {
				return err
			}
			if s.opts.asJSON {
				return s.printJSON(contract.ProposalList(props))
			}
			renderProposals(s.out, props)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Newest first")
	cmd.Flags().Uint64Var(&start, "start", 0, "Exclusive cursor: start after (or before with --reverse) this id")
	cmd.Flags().Uint32VarP(&limit, "limit", "l", 0, fmt.Sprintf("Page size (default %d, max %d)", contract.DefaultPageLimit, contract.MaxPageLimit))
	return cmd
}

func newVotesCmd(opts *rootOptions) *cobra.Command {
	var (
		start string
		limit uint32
	)
	cmd := &cobra.Command{
		Use:   "votes <proposal-id>",
		Short: "List the ballots of a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ballots, err := s.Engine.ListVotes(id, sdk.Address(start), limit)
			if err != nil {
				return err
			}
			if s.opts.asJSON {
				return s.printJSON(contract.BallotList(ballots))
			}
			p, err := s.Engine.Proposal(s.head(), id)
			if err != nil {
				return err
			}
			renderBallots(s.out, p, ballots)
			return nil
		}),
	}
	cmd.Flags().StringVar(&start, "start", "", "Start after this voter")
	cmd.Flags().Uint32VarP(&limit, "limit", "l", 0, "Page size")
	return cmd
}

func newBallotCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ballot <proposal-id> <voter>",
		Short: "Show how one voter voted",
		Args:  cobra.ExactArgs(2),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := s.Engine.GetVote(id, sdk.Address(args[1]))
			if err != nil {
				return err
			}
			if b == nil {
				if s.opts.asJSON {
					s.printf("null\n")
				} else {
					s.printf("%s did not vote on proposal %d\n", args[1], id)
				}
				return nil
			}
			if s.opts.asJSON {
				return s.printJSON(b)
			}
			p, err := s.Engine.Proposal(s.head(), id)
			if err != nil {
				return err
			}
			renderBallots(s.out, p, []contract.Ballot{*b})
			return nil
		}),
	}
}

func newFilterCmd(opts *rootOptions) *cobra.Command {
	var (
		status     string
		option     int64
		startAfter uint64
		limit      uint32
	)
	cmd := &cobra.Command{
		Use:   "filter <wallet>",
		Short: "List proposals a wallet voted on",
		Long: fmt.Sprintf(`Filter scans proposals in id order and keeps the ones the wallet voted on,
optionally narrowed by status and chosen option. One call looks at no more
than %d proposals; continue from the printed cursor with --start-after.`, contract.MaxFilterScan),
		Example: `  okinoko filter hive:alice --status open
  okinoko filter hive:alice --option 0 --start-after 40`,
		Args: cobra.ExactArgs(1),
		RunE: opts.action(func(s *session, cmd *cobra.Command, args []string) error {
			q := contract.FilterQuery{Wallet: sdk.Address(args[0]), StartAfter: startAfter, Limit: limit}
			if status != "" {
				st, err := contract.ParseStatus(status)
				if err != nil {
					return err
				}
				q.Status = &st
			}
			if cmd.Flags().Changed("option") {
				if option < 0 {
					return fmt.Errorf("--option must not be negative")
				}
				o := uint32(option)
				q.WalletVote.Option = &o
			}
			res, err := s.Engine.FilterProposals(s.head(), q)
			if err != nil {
				return err
			}
			if s.opts.asJSON {
				return s.printJSON(res)
			}
			renderProposals(s.out, res.Proposals)
			s.printf("cursor: %d\n", res.LastProposalID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "Only proposals in this status")
	cmd.Flags().Int64Var(&option, "option", 0, "Only proposals where the wallet chose this option")
	cmd.Flags().Uint64Var(&startAfter, "start-after", 0, "Resume after this proposal id")
	cmd.Flags().Uint32VarP(&limit, "limit", "l", 0, "Maximum matches")
	return cmd
}
