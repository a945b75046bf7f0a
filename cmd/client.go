package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ksidibe/boutik"
)

type clientsCmd struct{}

func (*clientsCmd) Name() string     { return "clients" }
func (*clientsCmd) Synopsis() string { return "list clients and their outstanding debts" }
func (*clientsCmd) Usage() string    { return "btk clients\n" }
func (*clientsCmd) SetFlags(f *flag.FlagSet) {}

func (p *clientsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	snap := app.View()

	var b strings.Builder
	b.WriteString("# Clients\n\n")
	b.WriteString("| Id | Nom | Téléphone | Dette |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, c := range snap.Clients {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ID, c.Name, c.Phone, c.TotalDebt.SignedString())
	}
	fmt.Fprintf(&b, "\nTotal des créances: **%s**\n", snap.TotalDebt())
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type debtCmd struct {
	total int64
	paid  int64
}

func (*debtCmd) Name() string     { return "debt" }
func (*debtCmd) Synopsis() string { return "register a credit sale against a client" }
func (*debtCmd) Usage() string {
	return `btk debt -total <amount> [-paid <amount>] <client-name>

  Registers a credit sale: the unpaid portion grows the client's debt,
  the paid portion is recorded as income. The client is created on first
  sight; names match case-insensitively. Repayments go through
  'btk add -t DEBT_PAYMENT -client <id>'.

Usage Examples:
# Moussa takes 10000 F of goods and pays 4000 F now.
$ btk debt -total 10000 -paid 4000 "Moussa Traoré"
`
}

func (p *debtCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&p.total, "total", 0, "Total sale amount in francs CFA.")
	f.Int64Var(&p.paid, "paid", 0, "Portion paid immediately.")
}

func (p *debtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || p.total <= 0 {
		fmt.Fprintln(os.Stderr, "Error: expected a client name and a positive -total.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)

	name := f.Arg(0)
	if err := app.RegisterClientDebt(ctx, name, boutik.Money(p.total), boutik.Money(p.paid)); err != nil {
		return fail(err)
	}
	fmt.Printf("Crédit enregistré pour %s: dette +%s", name, boutik.Money(p.total-p.paid))
	if p.paid > 0 {
		fmt.Printf(", acompte %s encaissé", boutik.Money(p.paid))
	}
	fmt.Println()
	return subcommands.ExitSuccess
}
