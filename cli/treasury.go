package cli

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"okinoko_multichoice/sdk"
)

func parseAmount(arg string) (*uint256.Int, error) {
	n, err := uint256.FromDecimal(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	return n, nil
}

func newStakeCmd(opts *rootOptions, lock bool) *cobra.Command {
	use, short := "stake", "Stake governance tokens for voting power"
	if !lock {
		use, short = "unstake", "Withdraw staked governance tokens"
	}
	return &cobra.Command{
		Use:   use + " <amount>",
		Short: short,
		Long: `Stake changes take effect from the next block: proposals created in the
current block still see the previous stake.`,
		Args: cobra.ExactArgs(1),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			env, err := s.call()
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			fn := s.Engine.Stake
			if !lock {
				fn = s.Engine.Unstake
			}
			now, err := fn(env, amount)
			if err != nil {
				return err
			}
			s.printf("%s staked %s %s from height %d\n", addressStyle.Sprint(env.Sender), now.Dec(), s.Oracle.Asset(), env.Height+1)
			return nil
		}),
	}
}

func newMintCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mint <asset> <to> <amount>",
		Short: "Create tokens on the local ledger",
		Long: `Mint credits new units to an account. It stands in for the chain's own
token ledger on local and test stores.`,
		Args: cobra.ExactArgs(3),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			asset, err := sdk.ParseAsset(args[0])
			if err != nil {
				return err
			}
			to := sdk.Address(args[1])
			if err := to.Validate(); err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			if err := s.Engine.Mint(asset, to, amount); err != nil {
				return err
			}
			return s.printBalance(asset, to)
		}),
	}
}

func newTransferCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "transfer <asset> <to> <amount>",
		Short:   "Move tokens from the sender to another account",
		Example: `  okinoko transfer -s hive:alice hive hive:dao 100`,
		Args:    cobra.ExactArgs(3),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			env, err := s.call()
			if err != nil {
				return err
			}
			asset, err := sdk.ParseAsset(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			if err := s.Engine.Transfer(env, asset, sdk.Address(args[1]), amount); err != nil {
				return err
			}
			return s.printBalance(asset, env.Sender)
		}),
	}
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <asset> <account>",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(2),
		RunE: opts.action(func(s *session, _ *cobra.Command, args []string) error {
			asset, err := sdk.ParseAsset(args[0])
			if err != nil {
				return err
			}
			return s.printBalance(asset, sdk.Address(args[1]))
		}),
	}
}

func (s *session) printBalance(asset sdk.Asset, who sdk.Address) error {
	bal, err := s.Engine.Balance(asset, who)
	if err != nil {
		return err
	}
	s.printf("%s %s %s\n", addressStyle.Sprint(who), bal.Dec(), asset)
	return nil
}
