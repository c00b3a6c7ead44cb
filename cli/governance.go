package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"okinoko_multichoice/config"
	"okinoko_multichoice/contract"
	"okinoko_multichoice/sdk"
)

// engineFlags are the config knobs shared by init and config update. Only
// flags the user changed override the starting values.
type engineFlags struct {
	settings config.EngineSettings
}

func (f *engineFlags) register(fs *pflag.FlagSet) {
	s := &f.settings
	fs.StringVar(&s.DAO, "dao", "", "DAO account allowed to change config and hooks")
	fs.StringVar(&s.Quorum, "quorum", "", `Quorum: "majority", "20%" or "0.2"`)
	fs.StringVar(&s.MaxVotingPeriod, "max-voting-period", "", `Voting period: "100blocks" or "72h"`)
	fs.StringVar(&s.MinVotingPeriod, "min-voting-period", "", "Earliest a proposal may pass, same units as the max")
	fs.BoolVar(&s.OnlyMembersExecute, "only-members-execute", false, "Only accounts with voting power may execute")
	fs.BoolVar(&s.AllowRevoting, "allow-revoting", false, "Let voters change their vote while open")
	fs.BoolVar(&s.CloseOnExecutionFailure, "close-on-failure", false, "Close proposals whose execution fails")
	fs.StringVar(&s.DepositAsset, "deposit-asset", "", "Asset proposal deposits are paid in")
	fs.StringVar(&s.DepositAmount, "deposit-amount", "", "Deposit amount, 0 for none")
	fs.BoolVar(&s.RefundFailedProposals, "refund-failed", false, "Refund deposits of rejected proposals")
}

// apply copies every changed flag over base.
func (f *engineFlags) apply(fs *pflag.FlagSet, base config.EngineSettings) config.EngineSettings {
	s := f.settings
	set := map[string]func(){
		"dao":                  func() { base.DAO = s.DAO },
		"quorum":               func() { base.Quorum = s.Quorum },
		"max-voting-period":    func() { base.MaxVotingPeriod = s.MaxVotingPeriod },
		"min-voting-period":    func() { base.MinVotingPeriod = s.MinVotingPeriod },
		"only-members-execute": func() { base.OnlyMembersExecute = s.OnlyMembersExecute },
		"allow-revoting":       func() { base.AllowRevoting = s.AllowRevoting },
		"close-on-failure":     func() { base.CloseOnExecutionFailure = s.CloseOnExecutionFailure },
		"deposit-asset":        func() { base.DepositAsset = s.DepositAsset },
		"deposit-amount":       func() { base.DepositAmount = s.DepositAmount },
		"refund-failed":        func() { base.RefundFailedProposals = s.RefundFailedProposals },
	}
	for name, fn := range set {
		if fs.Changed(name) {
			fn()
		}
	}
	return base
}

// settingsFromConfig turns a stored config back into editable settings.
func settingsFromConfig(cfg *contract.Config) config.EngineSettings {
	es := config.EngineSettings{
		DAO:                     cfg.DAO.String(),
		Module:                  cfg.Module.String(),
		Quorum:                  cfg.Quorum.String(),
		MaxVotingPeriod:         cfg.MaxVotingPeriod.String(),
		OnlyMembersExecute:      cfg.OnlyMembersExecute,
		AllowRevoting:           cfg.AllowRevoting,
		CloseOnExecutionFailure: cfg.CloseProposalOnExecutionFailure,
	}
	if cfg.MinVotingPeriod != nil {
		es.MinVotingPeriod = cfg.MinVotingPeriod.String()
	}
	if cfg.Deposit != nil {
		es.DepositAsset = cfg.Deposit.Asset.String()
		es.DepositAmount = cfg.Deposit.Amount.Dec()
		es.RefundFailedProposals = cfg.Deposit.RefundFailedProposals
	}
	return es
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	flags := &engineFlags{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Instantiate the governance module",
		Long: `Instantiate writes the initial config. Values come from the engine section
of the config file and can be overridden with flags. The dao defaults to the
sender.`,
		Example: `  okinoko init --sender hive:dao --quorum 30% --max-voting-period 72h`,
		Args:    cobra.NoArgs,
		RunE: opts.action(func(s *session, cmd *cobra.Command, _ []string) error {
			env, err := s.call()
			if err != nil {
				return err
			}
			msg, err := flags.apply(cmd.Flags(), s.Settings.Engine).InstantiateMsg()
			if err != nil {
				return err
			}
			if err := s.Engine.Instantiate(env, msg); err != nil {
				return err
			}
			cfg, err := s.Engine.Config()
			if err != nil {
				return err
			}
			if s.opts.asJSON {
				return s.printJSON(cfg)
			}
			renderConfig(s.out, cfg)
			return nil
		}),
	}
	flags.register(cmd.Flags())
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the module config",
		Args:  cobra.NoArgs,
		RunE: opts.action(func(s *session, _ *cobra.Command, _ []string) error {
			cfg, err := s.Engine.Config()
			if err != nil {
				return err
			}
			if s.opts.asJSON {
				return s.printJSON(cfg)
			}
			renderConfig(s.out, cfg)
			return nil
		}),
	}

	flags := &engineFlags{}
	update := &cobra.Command{
		Use:   "update",
		Short: "Replace the config, only the dao may do this",
		Long: `Update starts from the current config and changes the fields given as flags.
Proposals already created keep the terms they were created with.`,
		Example: `  okinoko config update --sender hive:dao --allow-revoting --quorum majority`,
		Args:    cobra.NoArgs,
		RunE: opts.action(func(s *session, cmd *cobra.Command, _ []string) error {
			env, err := s.call()
			if err != nil {
				return err
			}
			current, err := s.Engine.Config()
			if err != nil {
				return err
			}
			msg, err := flags.apply(cmd.Flags(), settingsFromConfig(current)).InstantiateMsg()
			if err != nil {
				return err
			}
			if err := s.Engine.UpdateConfig(env, contract.UpdateConfigMsg{
				DAO:                             msg.DAO,
				Quorum:                          msg.Quorum,
				MaxVotingPeriod:                 msg.MaxVotingPeriod,
				MinVotingPeriod:                 msg.MinVotingPeriod,
				OnlyMembersExecute:              msg.OnlyMembersExecute,
				AllowRevoting:                   msg.AllowRevoting,
				CloseProposalOnExecutionFailure: msg.CloseProposalOnExecutionFailure,
				Deposit:                         msg.Deposit,
			}); err != nil {
				return err
			}
			cfg, err := s.Engine.Config()
			if err != nil {
				return err
			}
			if s.opts.asJSON {
				return s.printJSON(cfg)
			}
			renderConfig(s.out, cfg)
			return nil
		}),
	}
	flags.register(update.Flags())
	cmd.AddCommand(update)
	return cmd
}

// readProposal decodes a yaml proposal file, "-" reads stdin. Unknown keys
// are rejected so a typo never silently drops an option's messages.
func readProposal(cmd *cobra.Command, path string) (contract.ProposeMsg, error) {
	var msg contract.ProposeMsg
	in := cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return msg, err
		}
		defer f.Close()
		in = f
	}
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	if err := dec.Decode(&msg); err != nil {
		return msg, fmt.Errorf("%s: %w", path, err)
	}
	return msg, nil
}

func newProposeCmd(opts *rootOptions) *cobra.Command {
	var (
		title         string
		description   string
		options       []string
		depositAmount string
		depositAsset  string
	)
	cmd := &cobra.Command{
		Use:   "propose [file.yaml]",
		Short: "Create a proposal",
		Long: `Propose creates a multiple choice proposal, either from a yaml file or from
--title and repeated --option flags. A yaml file can attach treasury transfer
messages to options:

  title: Fund the meetup
  options:
    - title: 500 HBD
      messages:
        - type: transfer
          args: {asset: hbd, to: "hive:meetup", amount: "500"}
    - title: 200 HBD

When the module asks for a deposit, authorize it with --deposit-amount.`,
		Example: `  okinoko propose -s hive:alice --title "Logo" --option red --option blue
  okinoko propose -s hive:alice budget.yaml --deposit-amount 10 --deposit-asset hbd`,
		Args: cobra.MaximumNArgs(1),
		RunE: opts.action(func(s *session, cmd *cobra.Command, args []string) error {
			env, err := s.call()
			if err != nil {
				return err
			}
			var msg contract.ProposeMsg
			if len(args) == 1 {
				if msg, err = readProposal(cmd, args[0]); err != nil {
					return err
				}
			} else {
				msg = contract.ProposeMsg{
					Title:       title,
					Description: description,
					Options: lo.Map(options, func(t string, _ int) contract.Option {
						return contract.Option{Title: t}
					}),
				}
			}
			if depositAmount != "" {
				asset, err := sdk.ParseAsset(depositAsset)
				if err != nil {
					return fmt.Errorf("--deposit-asset: %w", err)
				}
				env.Intents = append(env.Intents, sdk.TransferIntent(asset, depositAmount))
			}
			id, err := s.Engine.Propose(env, msg)
			if err != nil {
				return err
			}
			p, err := s.Engine.Proposal(env, id)
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
	cmd.Flags().StringVarP(&title, "title", "t", "", "Proposal title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Proposal description")
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "Option title, repeat for each option")
	cmd.Flags().StringVar(&depositAmount, "deposit-amount", "", "Authorize the module to take this deposit")
	cmd.Flags().StringVar(&depositAsset, "deposit-asset", sdk.AssetHbd.String(), "Asset of the deposit")
	return cmd
}

// resolveOption accepts an option index, an exact option title or "none" for
// the none of the above slot.
func resolveOption(p *contract.Proposal, arg string) (uint32, error) {
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(arg) {
	case "none", "nota", "none of the above":
		return p.NoneOfTheAbove(), nil
	}
	if _, idx, ok := lo.FindIndexOf(p.Options, func(o contract.Option) bool { return o.Title == arg }); ok {
		return uint32(idx), nil
	}
	idx, err := parseIndex(arg)
	if err != nil {
		return 0, fmt.Errorf("option %q is neither an index nor a title of proposal %d", arg, p.ID)
	}
	return idx, nil
}

func newVoteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <proposal-id> <option>",
		Short: "Vote for one option of an open proposal",
		Long: `Vote casts the sender's voting power, taken at the proposal's start height,
for one option. The option is its index, its exact title or "none" for none
of the above.`,
		Example: `  okinoko vote -s hive:alice 3 1
  okinoko vote -s hive:bob 3 none`,
		Args: cobra.ExactArgs(2),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			env, err := s.call()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := s.Engine.Proposal(env, id)
			if err != nil {
				return err
			}
			option, err := resolveOption(p, args[1])
			if err != nil {
				return err
			}
			status, err := s.Engine.Vote(env, id, option)
			if err != nil {
				return err
			}
			s.printf("voted %q on proposal %d, now %s\n", p.OptionTitle(option), id, statusText(status))
			return nil
		}),
	}
}

func newExecuteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "execute <proposal-id>",
		Short: "Execute the winning option of a passed proposal",
		Args:  cobra.ExactArgs(1),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			return s.finalize(args[0], s.Engine.Execute)
		}),
	}
}

func newCloseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "close <proposal-id>",
		Short: "Close a rejected proposal and settle its deposit",
		Args:  cobra.ExactArgs(1),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			return s.finalize(args[0], s.Engine.Close)
		}),
	}
}

func (s *session) finalize(arg string, fn func(sdk.Env, uint64) error) error {
	env, err := s.call()
	if err != nil {
		return err
	}
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	if err := fn(env, id); err != nil {
		return err
	}
	p, err := s.Engine.Proposal(env, id)
	if err != nil {
		return err
	}
	if s.opts.asJSON {
		return s.printJSON(p)
	}
	s.printf("proposal %d is now %s\n", id, statusText(p.Status))
	return nil
}
