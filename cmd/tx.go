package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/ksidibe/boutik"
)

// itemsFlag collects repeated -item flags of the form "productId:qty".
type itemsFlag []string

func (i *itemsFlag) String() string { return strings.Join(*i, ",") }
func (i *itemsFlag) Set(v string) error {
	*i = append(*i, v)
	return nil
}

type addCmd struct {
	kind        string
	method      string
	amount      int64
	description string
	pending     bool
	clientID    string
	employeeID  string
	items       itemsFlag
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction in the ledger" }
func (*addCmd) Usage() string {
	return `btk add -t <type> -m <method> -a <amount> [-d <description>] [-pending] [-item <productId:qty>]...

  Records a transaction. Types: INCOME, EXPENSE, DEBT_PAYMENT, CREDIT_SALE.
  Methods: CASH, MOBILE_MONEY, CREDIT. Settled by default; -pending leaves
  the invoice open until 'btk confirm'. Each -item names a product line of
  a detailed sale; the stock moves immediately either way.

Usage Examples:
# A cash sale of 5000 F.
$ btk add -t INCOME -m CASH -a 5000 -d "Vente du matin"

# An open invoice with two product lines.
$ btk add -t INCOME -m MOBILE_MONEY -a 12000 -pending -item p1:2 -item p3:1
`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.kind, "t", "INCOME", "Transaction type.")
	f.StringVar(&p.method, "m", "CASH", "Payment method.")
	f.Int64Var(&p.amount, "a", 0, "Amount in francs CFA.")
	f.StringVar(&p.description, "d", "", "Description.")
	f.BoolVar(&p.pending, "pending", false, "Leave the invoice open instead of settling it.")
	f.StringVar(&p.clientID, "client", "", "Related client id.")
	f.StringVar(&p.employeeID, "employee", "", "Related employee id.")
	f.Var(&p.items, "item", "Product line, as productId:qty. Repeatable.")
}

func (p *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)

	items, err := parseItems(app.View(), p.items)
	if err != nil {
		return fail(err)
	}

	status := boutik.Settled
	if p.pending {
		status = boutik.Pending
	}
	tx, err := app.AddTransaction(ctx, boutik.NewTransaction{
		Kind:              boutik.TransactionKind(p.kind),
		Amount:            boutik.Money(p.amount),
		Description:       p.description,
		Method:            boutik.PaymentMethod(p.method),
		Status:            status,
		RelatedClientID:   p.clientID,
		RelatedEmployeeID: p.employeeID,
		Items:             items,
	})
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Enregistré %s %s (%s, %s) id=%s\n", tx.Kind, tx.Amount, tx.Method, tx.Status, tx.ID)
	return subcommands.ExitSuccess
}

// parseItems resolves productId:qty pairs against the catalogue so each
// line carries the product's name and current price.
func parseItems(s *boutik.Snapshot, specs []string) ([]boutik.LineItem, error) {
	var items []boutik.LineItem
	for _, spec := range specs {
		id, qtyStr, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("invalid item %q, expected productId:qty", spec)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("invalid quantity in item %q", spec)
		}
		product := s.FindProduct(id)
		if product == nil {
			return nil, fmt.Errorf("unknown product: %q", id)
		}
		items = append(items, boutik.LineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    qty,
			UnitPrice:   product.Price,
		})
	}
	return items, nil
}

type txCmd struct {
	head    int
	pending bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the ledger" }
func (*txCmd) Usage() string {
	return `btk tx [-head <n>] [-pending]

  Lists transactions, most recent first. -pending shows only open invoices.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.head, "head", 20, "Show only the first N transactions.")
	f.BoolVar(&p.pending, "pending", false, "Show only open invoices.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)

	snap := app.View()
	var b strings.Builder
	b.WriteString("# Journal\n\n")
	b.WriteString("| Date | Type | Montant | Méthode | Statut | Description |\n")
	b.WriteString("|---|---|---|---|---|---|\n")

	shown := 0
	for _, tx := range snap.Transactions {
		if p.pending && tx.Status != boutik.Pending {
			continue
		}
		if p.head > 0 && shown >= p.head {
			break
		}
		sync := ""
		if !tx.Synced {
			sync = " *"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s%s | %s |\n",
			tx.Date.Format("2006-01-02 15:04"), tx.Kind, tx.Amount, tx.Method, tx.Status, sync, tx.Description)
		shown++
	}
	if shown == 0 {
		fmt.Println("Aucune transaction.")
		return subcommands.ExitSuccess
	}
	b.WriteString("\n`*` non synchronisé\n")
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type confirmCmd struct {
	method string
}

func (*confirmCmd) Name() string     { return "confirm" }
func (*confirmCmd) Synopsis() string { return "confirm payment of an open invoice" }
func (*confirmCmd) Usage() string {
	return `btk confirm [-m <method>] <transaction-id>

  Settles an open invoice. The money moves now, with the method actually
  used; -m overrides the method recorded at sale time. Confirming an
  already settled transaction does nothing.
`
}

func (p *confirmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.method, "m", "", "Payment method actually used. Keeps the recorded one when omitted.")
}

func (p *confirmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one transaction id.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)

	tx, err := app.SettleTransaction(ctx, f.Arg(0), boutik.PaymentMethod(p.method))
	if err != nil {
		return fail(err)
	}
	if tx.ID == "" {
		fmt.Println("Rien à confirmer: transaction inconnue ou déjà soldée.")
		return subcommands.ExitSuccess
	}
	fmt.Printf("Facture soldée: %s %s (%s)\n", tx.Amount, tx.Description, tx.Method)
	return subcommands.ExitSuccess
}
