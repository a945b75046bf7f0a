package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/ksidibe/boutik"
	"github.com/ksidibe/boutik/advisor"
)

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show balances, recent flows and alerts" }
func (*dashboardCmd) Usage() string    { return "btk dashboard\n" }
func (*dashboardCmd) SetFlags(f *flag.FlagSet) {}

func (p *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	snap := app.View()
	st := advisor.Compute(snap, time.Now())

	var b strings.Builder
	b.WriteString("# Tableau de bord\n\n")
	fmt.Fprintf(&b, "| Caisse | Mobile Money | Créances clients |\n|---|---|---|\n| %s | %s | %s |\n\n",
		snap.CashBalance, snap.MobileMoneyBalance, snap.TotalDebt())
	fmt.Fprintf(&b, "**30 derniers jours**: revenus %s (%s%%), dépenses %s (%s%%)\n",
		st.Income30, st.IncomeVar, st.Expenses30, st.ExpensesVar)

	if cats := advisor.TopExpenses(snap, time.Now()); len(cats) > 0 {
		b.WriteString("\n**Plus gros postes de dépense**:\n")
		for _, c := range cats {
			fmt.Fprintf(&b, "- %s: %s\n", c.Label, c.Total)
		}
	}

	if notifs := boutik.Notifications(snap); len(notifs) > 0 {
		b.WriteString("\n## Alertes\n\n")
		for _, n := range notifs {
			fmt.Fprintf(&b, "- **%s** %s\n", n.Title, n.Message)
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type notifyCmd struct{}

func (*notifyCmd) Name() string     { return "notify" }
func (*notifyCmd) Synopsis() string { return "list the current alerts" }
func (*notifyCmd) Usage() string {
	return `btk notify

  Lists the stock and debt alerts derived from the current state. The
  list is recomputed every time; resolving the cause clears the alert.
`
}
func (*notifyCmd) SetFlags(f *flag.FlagSet) {}

func (p *notifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)

	notifs := boutik.Notifications(app.View())
	if len(notifs) == 0 {
		fmt.Println("Aucune alerte.")
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	b.WriteString("# Alertes\n\n")
	b.WriteString("| Gravité | Titre | Message |\n|---|---|---|\n")
	for _, n := range notifs {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", n.Severity, n.Title, n.Message)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type adviseCmd struct{}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "get business advice from the books" }
func (*adviseCmd) Usage() string {
	return `btk advise

  Analyzes the last sixty days and prints short, concrete advice. Uses
  the configured Gemini model when available, rule-based tips otherwise.
`
}
func (*adviseCmd) SetFlags(f *flag.FlagSet) {}

func (p *adviseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, cfg, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)

	printMarkdown(newAdvisor(cfg).Advise(ctx, app.View()))
	return subcommands.ExitSuccess
}

type exportCmd struct {
	outputFile string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the local document as a backup file" }
func (*exportCmd) Usage() string {
	return `btk export [-o <file>]

  Writes the full local document as JSON, to stdout by default. The file
  re-imports byte-for-byte identical.
`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.outputFile, "o", "", "Output file. Defaults to stdout.")
}

func (p *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)

	out := os.Stdout
	if p.outputFile != "" {
		out, err = os.Create(p.outputFile)
		if err != nil {
			return fail(err)
		}
		defer out.Close()
	}
	if err := boutik.ExportSnapshot(out, app.View()); err != nil {
		return fail(err)
	}
	if p.outputFile != "" {
		fmt.Fprintf(os.Stderr, "Sauvegarde écrite dans %s\n", p.outputFile)
	}
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the local document with a backup file" }
func (*importCmd) Usage() string {
	return `btk import <file>

  Validates a backup file and replaces the whole local document with it.
  An invalid file changes nothing.
`
}
func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (p *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one backup file.")
		return subcommands.ExitUsageError
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer in.Close()

	snap, err := boutik.ImportSnapshot(in)
	if err != nil {
		return fail(err)
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)

	if err := app.Apply(func(s *boutik.Snapshot) { *s = *snap }); err != nil {
		return fail(err)
	}
	fmt.Println("Sauvegarde restaurée.")
	return subcommands.ExitSuccess
}

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "push the demo catalogue to an empty remote store" }
func (*seedCmd) Usage() string {
	return `btk seed

  Pushes the demo products and clients to the remote store, then runs a
  reconciliation pass. Meant for a fresh deployment.
`
}
func (*seedCmd) SetFlags(f *flag.FlagSet) {}

func (p *seedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)
	if err := app.RequireRight(boutik.RightAdmin); err != nil {
		return fail(err)
	}

	if err := app.SeedRemote(ctx); err != nil {
		return fail(err)
	}
	fmt.Println("Données de démonstration envoyées.")
	return subcommands.ExitSuccess
}
