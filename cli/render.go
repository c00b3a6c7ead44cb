package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"okinoko_multichoice/contract"
	"okinoko_multichoice/sdk"
)

var (
	openStyle     = color.New(color.FgYellow)
	passedStyle   = color.New(color.FgGreen)
	executedStyle = color.New(color.FgHiGreen, color.Bold)
	rejectedStyle = color.New(color.FgRed)
	failedStyle   = color.New(color.FgHiRed, color.Bold)
	closedStyle   = color.New(color.Faint)
	headerStyle   = color.New(color.Bold, color.FgHiWhite)
	addressStyle  = color.New(color.FgCyan)
	leaderStyle   = color.New(color.Bold)
)

func statusText(s contract.Status) string {
	switch s {
	case contract.StatusOpen:
		return openStyle.Sprint(s)
	case contract.StatusPassed:
		return passedStyle.Sprint(s)
	case contract.StatusExecuted:
		return executedStyle.Sprint(s)
	case contract.StatusRejected:
		return rejectedStyle.Sprint(s)
	case contract.StatusExecutionFailed:
		return failedStyle.Sprint(s)
	default:
		return closedStyle.Sprint(s)
	}
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	return t
}

// share formats part/total as a percentage with one decimal.
func share(part, total *uint256.Int) string {
	if total.IsZero() {
		return "-"
	}
	p := decimal.NewFromBigInt(part.ToBig(), 0).
		Div(decimal.NewFromBigInt(total.ToBig(), 0)).
		Mul(decimal.NewFromInt(100))
	return p.StringFixed(1) + "%"
}

// turnout is the summed tally, zero when the sum overflows.
func turnout(t contract.Tally) *uint256.Int {
	total, err := t.Total()
	if err != nil {
		return new(uint256.Int)
	}
	return total
}

func renderProposals(out io.Writer, props []*contract.Proposal) {
	if len(props) == 0 {
		fmt.Fprintln(out, "No proposals found")
		return
	}
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Title", "Status", "Proposer", "Leading", "Turnout", "Expires"})
	t.AppendRows(lo.Map(props, func(p *contract.Proposal, _ int) table.Row {
		leader := p.Votes.Leader()
		cast := turnout(p.Votes)
		leading := "-"
		if !cast.IsZero() {
			leading = p.OptionTitle(leader.Option)
			if leader.Tie {
				leading += " (tie)"
			}
		}
		return table.Row{p.ID, p.Title, statusText(p.Status), addressStyle.Sprint(p.Proposer), leading,
			share(cast, &p.TotalPower), p.Expiration}
	}))
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 40},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

func renderProposal(out io.Writer, p *contract.Proposal) {
	fmt.Fprintf(out, "%s %s\n", headerStyle.Sprintf("#%d", p.ID), headerStyle.Sprint(p.Title))
	if p.Description != "" {
		fmt.Fprintln(out, p.Description)
	}
	fmt.Fprintf(out, "status:   %s\n", statusText(p.Status))
	fmt.Fprintf(out, "proposer: %s\n", addressStyle.Sprint(p.Proposer))
	fmt.Fprintf(out, "created:  height %d, %s\n", p.StartHeight, time.Unix(p.Created, 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "expires:  %s\n", p.Expiration)
	if p.MinVotingPeriod != nil {
		fmt.Fprintf(out, "earliest: %s\n", p.MinVotingPeriod)
	}
	fmt.Fprintf(out, "quorum:   %s of %s (revoting %v)\n", p.Quorum, p.TotalPower.Dec(), p.AllowRevoting)
	if p.Deposit != nil {
		fmt.Fprintf(out, "deposit:  %s %s (settled %v)\n", p.Deposit.Amount.Dec(), p.Deposit.Asset, p.DepositSettled)
	}

	leader := p.Votes.Leader()
	cast := turnout(p.Votes)
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Option", "Votes", "Share", "Messages"})
	for i := range p.Votes {
		idx := uint32(i)
		title := p.OptionTitle(idx)
		msgs := 0
		if i < len(p.Options) {
			msgs = len(p.Options[i].Messages)
		}
		if idx == leader.Option && !leader.Tie && !cast.IsZero() {
			title = leaderStyle.Sprint(title)
		}
		t.AppendRow(table.Row{idx, title, p.Votes[i].Dec(), share(&p.Votes[i], cast), msgs})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

func renderBallots(out io.Writer, p *contract.Proposal, ballots []contract.Ballot) {
	if len(ballots) == 0 {
		fmt.Fprintln(out, "No votes yet")
		return
	}
	t := newTable(out)
	t.AppendHeader(table.Row{"Voter", "Option", "Power"})
	for _, b := range ballots {
		t.AppendRow(table.Row{addressStyle.Sprint(b.Voter), fmt.Sprintf("%d %s", b.Option, p.OptionTitle(b.Option)), b.Power.Dec()})
	}
	t.Render()
}

func renderConfig(out io.Writer, cfg *contract.Config) {
	t := newTable(out)
	rows := []table.Row{
		{"dao", addressStyle.Sprint(cfg.DAO)},
		{"module", addressStyle.Sprint(cfg.Module)},
		{"quorum", cfg.Quorum},
		{"max voting period", cfg.MaxVotingPeriod},
		{"min voting period", lo.TernaryF(cfg.MinVotingPeriod == nil, func() string { return "none" }, func() string { return cfg.MinVotingPeriod.String() })},
		{"only members execute", cfg.OnlyMembersExecute},
		{"allow revoting", cfg.AllowRevoting},
		{"close on execution failure", cfg.CloseProposalOnExecutionFailure},
	}
	if cfg.Deposit != nil {
		rows = append(rows,
			table.Row{"deposit", cfg.Deposit.Amount.Dec() + " " + cfg.Deposit.Asset.String()},
			table.Row{"refund failed proposals", cfg.Deposit.RefundFailedProposals},
		)
	} else {
		rows = append(rows, table.Row{"deposit", "none"})
	}
	t.AppendRows(rows)
	t.Render()
}

func renderAddresses(out io.Writer, kind contract.HookKind, hooks []sdk.Address) {
	if len(hooks) == 0 {
		fmt.Fprintf(out, "No %s hooks registered\n", kind)
		return
	}
	t := newTable(out)
	t.AppendHeader(table.Row{kind.String() + " hooks"})
	for _, h := range hooks {
		t.AppendRow(table.Row{addressStyle.Sprint(h)})
	}
	t.Render()
}
