package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"okinoko_multichoice/contract"
	"okinoko_multichoice/sdk"
)

func newHooksCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage proposal and vote listeners",
		Long: `Hooks are accounts notified about new proposals, status changes (proposal
hooks) and new votes (vote hooks). A listener that fails to accept a
notification is dropped from its list.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:       "list <proposal|vote>",
			Short:     "List registered listeners",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"proposal", "vote"},
			RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
				kind, err := contract.ParseHookKind(args[0])
				if err != nil {
					return err
				}
				hooks, err := s.Engine.Hooks(kind)
				if err != nil {
					return err
				}
				renderAddresses(s.out, kind, hooks)
				return nil
			}),
		},
		hookChangeCmd(opts, "add", "Register a listener, dao only", (*contract.Engine).AddHook),
		hookChangeCmd(opts, "remove", "Unregister a listener, dao only", (*contract.Engine).RemoveHook),
	)
	return cmd
}

func hookChangeCmd(opts *rootOptions, use, short string, fn func(*contract.Engine, sdk.Env, contract.HookKind, sdk.Address) error) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <proposal|vote> <address>",
		Short:   short,
		Example: fmt.Sprintf("  okinoko hooks %s -s hive:dao proposal contract:indexer", use),
		Args:    cobra.ExactArgs(2),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			env, err := s.call()
			if err != nil {
				return err
			}
			kind, err := contract.ParseHookKind(args[0])
			if err != nil {
				return err
			}
			if err := fn(s.Engine, env, kind, sdk.Address(args[1])); err != nil {
				return err
			}
			hooks, err := s.Engine.Hooks(kind)
			if err != nil {
				return err
			}
			renderAddresses(s.out, kind, hooks)
			return nil
		}),
	}
}
