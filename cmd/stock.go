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

type stockCmd struct {
	movements bool
}

func (*stockCmd) Name() string     { return "stock" }
func (*stockCmd) Synopsis() string { return "list the catalogue and stock levels" }
func (*stockCmd) Usage() string {
	return `btk stock [-mv]

  Lists the products with their stock levels. -mv shows the movement
  audit trail instead.
`
}

func (p *stockCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.movements, "mv", false, "Show the stock movement trail instead of the catalogue.")
}

func (p *stockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	snap := app.View()

	var b strings.Builder
	if p.movements {
		b.WriteString("# Mouvements de stock\n\n")
		b.WriteString("| Date | Produit | Δ | Motif | Par |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for i := len(snap.StockMovements) - 1; i >= 0; i-- {
			m := snap.StockMovements[i]
			fmt.Fprintf(&b, "| %s | %s | %+d | %s | %s |\n",
				m.Date.Format("2006-01-02 15:04"), m.ProductName, m.QuantityChange, m.Reason, m.AuthorName)
		}
	} else {
		b.WriteString("# Catalogue\n\n")
		b.WriteString("| Id | Produit | Catégorie | Prix | Stock | Seuil |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, pr := range snap.Products {
			warn := ""
			if pr.StockLevel <= pr.MinStockLevel {
				warn = " ⚠"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d%s | %d |\n",
				pr.ID, pr.Name, pr.Category, pr.Price, pr.StockLevel, warn, pr.MinStockLevel)
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type adjustCmd struct {
	change int
	reason string
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "adjust a product's stock level" }
func (*adjustCmd) Usage() string {
	return `btk adjust -n <change> [-r <reason>] <product-id>

  Adjusts the stock level by a positive or negative quantity and appends
  the matching entry to the movement trail.

Usage Examples:
# A delivery of 50 bags of rice.
$ btk adjust -n 50 -r "Livraison fournisseur" p1
`
}

func (p *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.change, "n", 0, "Quantity change, negative to remove.")
	f.StringVar(&p.reason, "r", "", "Reason recorded on the movement trail.")
}

func (p *adjustCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || p.change == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected a product id and a non-zero -n.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)

	if err := app.AdjustStock(ctx, f.Arg(0), p.change, p.reason); err != nil {
		return fail(err)
	}
	fmt.Printf("Stock ajusté de %+d.\n", p.change)
	return subcommands.ExitSuccess
}

type productAddCmd struct {
	name     string
	category string
	price    int64
	stock    int
	min      int
}

func (*productAddCmd) Name() string     { return "product-add" }
func (*productAddCmd) Synopsis() string { return "add a product to the catalogue" }
func (*productAddCmd) Usage() string {
	return `btk product-add -name <name> [-cat <category>] -price <price> [-stock <n>] [-min <n>]

  Adds a product. The minimum stock level drives the restock alerts.
`
}

func (p *productAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Product name.")
	f.StringVar(&p.category, "cat", "", "Category.")
	f.Int64Var(&p.price, "price", 0, "Unit price in francs CFA.")
	f.IntVar(&p.stock, "stock", 0, "Initial stock level.")
	f.IntVar(&p.min, "min", 0, "Minimum stock level before an alert.")
}

func (p *productAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)

	product, err := app.AddProduct(ctx, boutik.Product{
		Name:          p.name,
		Category:      p.category,
		Price:         boutik.Money(p.price),
		StockLevel:    p.stock,
		MinStockLevel: p.min,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Produit ajouté: %s (%s) id=%s\n", product.Name, product.Price, product.ID)
	return subcommands.ExitSuccess
}

type productEditCmd struct {
	name     string
	category string
	price    int64
	min      int
}

func (*productEditCmd) Name() string     { return "product-edit" }
func (*productEditCmd) Synopsis() string { return "edit a product" }
func (*productEditCmd) Usage() string {
	return `btk product-edit [-name <name>] [-cat <category>] [-price <price>] [-min <n>] <product-id>

  Changes a product's details. Only the flags given are changed; stock
  levels go through adjust so the movement trail stays complete.
`
}

func (p *productEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "New product name.")
	f.StringVar(&p.category, "cat", "", "New category.")
	f.Int64Var(&p.price, "price", 0, "New unit price in francs CFA.")
	f.IntVar(&p.min, "min", 0, "New minimum stock level.")
}

func (p *productEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one product id.")
		return subcommands.ExitUsageError
	}

	var u boutik.ProductUpdate
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			u.Name = &p.name
		case "cat":
			u.Category = &p.category
		case "price":
			price := boutik.Money(p.price)
			u.Price = &price
		case "min":
			u.MinStockLevel = &p.min
		}
	})
	if u == (boutik.ProductUpdate{}) {
		fmt.Fprintln(os.Stderr, "Error: nothing to change.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)

	if err := app.UpdateProduct(ctx, f.Arg(0), u); err != nil {
		return fail(err)
	}
	fmt.Println("Produit modifié.")
	return subcommands.ExitSuccess
}

type productRmCmd struct{}

func (*productRmCmd) Name() string     { return "product-rm" }
func (*productRmCmd) Synopsis() string { return "remove a product from the catalogue" }
func (*productRmCmd) Usage() string {
	return `btk product-rm <product-id>

  Removes a product. Its movement history stays in the trail.
`
}
func (*productRmCmd) SetFlags(f *flag.FlagSet) {}

func (p *productRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one product id.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)

	if err := app.DeleteProduct(ctx, f.Arg(0)); err != nil {
		return fail(err)
	}
	fmt.Println("Produit supprimé.")
	return subcommands.ExitSuccess
}
