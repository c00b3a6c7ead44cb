// Package cli is the okinoko command line: it drives the engine against a
// local store and renders results as tables or json.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"okinoko_multichoice/app"
	"okinoko_multichoice/config"
	"okinoko_multichoice/contract"
	"okinoko_multichoice/sdk"
)

// blockInterval is used to derive a height from the wall clock when --height
// is not given.
const blockInterval = 3 * time.Second

type rootOptions struct {
	configFile string
	envFile    string
	sender     string
	height     uint64
	timestamp  int64
	asJSON     bool
	noColor    bool
	now        func() time.Time
}

// session is one command invocation against an opened app.
type session struct {
	*app.App
	opts *rootOptions
	out  io.Writer
	// base is the host env loaded from --env, nil without one.
	base *sdk.Env
	// senderFlag is set when --sender was given explicitly.
	senderFlag bool
}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{now: time.Now}
	root := &cobra.Command{
		Use:   "okinoko",
		Short: "Multiple choice proposals for a token weighted DAO",
		Long: `okinoko runs the multiple choice governance engine against a local store.

Proposals offer up to ten options plus an implicit "none of the above". Stake
the governance token to vote; proposals pass once quorum is met and one option
leads outright.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "Config file (default ./okinoko.yaml)")
	pf.String("store", "", "Store backend: memory, leveldb or pebble")
	pf.String("store-path", "", "Directory of the on disk store")
	pf.String("log-level", "", "Log level")
	pf.String("log-format", "", "Log format: console or json")
	pf.String("log-file", "", "Also write logs to this rotated file")
	pf.StringVarP(&opts.sender, "sender", "s", os.Getenv(config.EnvPrefix+"_SENDER"), "Account the call is sent from")
	pf.Uint64Var(&opts.height, "height", 0, "Block height (default derived from the wall clock)")
	pf.Int64Var(&opts.timestamp, "time", 0, "Block unix time (default now)")
	pf.StringVar(&opts.envFile, "env", "", "Host env file (tx.id, msg.sender, block.height, block.timestamp, intents)")
	pf.BoolVar(&opts.asJSON, "json", false, "Print json instead of tables")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	root.AddGroup(
		&cobra.Group{ID: "governance", Title: "Governance Commands"},
		&cobra.Group{ID: "query", Title: "Query Commands"},
		&cobra.Group{ID: "treasury", Title: "Treasury Commands"},
	)
	for _, cmd := range []*cobra.Command{
		newInitCmd(opts), newConfigCmd(opts), newProposeCmd(opts), newVoteCmd(opts),
		newExecuteCmd(opts), newCloseCmd(opts), newHooksCmd(opts),
	} {
		cmd.GroupID = "governance"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newProposalCmd(opts), newProposalsCmd(opts), newVotesCmd(opts), newBallotCmd(opts),
		newFilterCmd(opts), newServeCmd(opts),
	} {
		cmd.GroupID = "query"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newStakeCmd(opts, true), newStakeCmd(opts, false), newMintCmd(opts),
		newTransferCmd(opts), newBalanceCmd(opts),
	} {
		cmd.GroupID = "treasury"
		root.AddCommand(cmd)
	}
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// action opens the app for the duration of one command.
func (o *rootOptions) action(fn func(s *session, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		v, err := config.NewViper(o.configFile, cmd.Flags())
		if err != nil {
			return err
		}
		settings, err := config.Load(v)
		if err != nil {
			return err
		}
		a, cleanup, err := app.InitApp(settings)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer cleanup()
		if o.noColor || o.asJSON {
			color.NoColor = true
		}
		s := &session{App: a, opts: o, out: cmd.OutOrStdout(), senderFlag: cmd.Flags().Changed("sender")}
		if o.envFile != "" {
			if s.base, err = loadEnvFile(o.envFile); err != nil {
				return err
			}
		}
		return fn(s, cmd, args)
	}
}

// head is the block the command runs in. Values from --env come first,
// explicit flags override them and the wall clock fills what is left.
func (s *session) head() sdk.Env {
	now := s.opts.now()
	var env sdk.Env
	if s.base != nil {
		env = *s.base
		env.Intents = append([]sdk.Intent(nil), s.base.Intents...)
	}
	if env.TxID == "" {
		env.TxID = fmt.Sprintf("cli-%d", now.UnixNano())
	}
	if env.Sender == "" || s.senderFlag {
		env.Sender = sdk.Address(s.opts.sender)
	}
	if s.opts.height != 0 {
		env.Height = s.opts.height
	}
	if s.opts.timestamp != 0 {
		env.Timestamp = s.opts.timestamp
	}
	if env.Height == 0 {
		env.Height = uint64(now.Unix() / int64(blockInterval/time.Second))
	}
	if env.Timestamp == 0 {
		env.Timestamp = now.Unix()
	}
	return env
}

// call is head for commands that need a signer.
func (s *session) call() (sdk.Env, error) {
	env := s.head()
	if err := env.Sender.Validate(); err != nil {
		return env, fmt.Errorf("--sender: %w", err)
	}
	return env, nil
}

// loadEnvFile reads a host env map from a yaml or json file.
func loadEnvFile(path string) (*sdk.Env, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("--env: %w", err)
	}
	m := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("--env %s: %w", path, err)
	}
	env, err := sdk.EnvFromMap(m)
	if err != nil {
		return nil, fmt.Errorf("--env %s: %w", path, err)
	}
	return &env, nil
}

func (s *session) printJSON(v contract.JSONMarshaler) error {
	raw, err := contract.MarshalJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "%s\n", raw)
	return err
}

func (s *session) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
}

func parseID(arg string) (uint64, error) {
	id, err := cast.ToUint64E(arg)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid proposal id %q", arg)
	}
	return id, nil
}

func parseIndex(arg string) (uint32, error) {
	return cast.ToUint32E(arg)
}
