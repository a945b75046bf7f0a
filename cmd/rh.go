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

type employeesCmd struct{}

func (*employeesCmd) Name() string     { return "employees" }
func (*employeesCmd) Synopsis() string { return "list the staff" }
func (*employeesCmd) Usage() string    { return "btk employees\n" }
func (*employeesCmd) SetFlags(f *flag.FlagSet) {}

func (p *employeesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	snap := app.View()

	var b strings.Builder
	b.WriteString("# Équipe\n\n")
	b.WriteString("| Id | Nom | Poste | Salaire | Avances | Présent | Payé | Droits |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, e := range snap.Employees {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			e.ID, e.Name, e.Role, e.Salary, e.AdvancesTaken,
			oui(e.IsPresent), oui(e.IsPaid), rightsOf(e))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

func oui(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}

func rightsOf(e boutik.Employee) string {
	out := make([]string, 0, len(e.AccessRights))
	for _, r := range e.AccessRights {
		out = append(out, string(r))
	}
	return strings.Join(out, " ")
}

type hireCmd struct {
	name     string
	role     string
	username string
	password string
	salary   int64
	rights   string
}

func (*hireCmd) Name() string     { return "hire" }
func (*hireCmd) Synopsis() string { return "hire an employee and create their account" }
func (*hireCmd) Usage() string {
	return `btk hire -name <name> -u <username> -p <password> [-role <role>] [-salary <amount>] [-rights <r1,r2>]

  Hires an employee. The username becomes a sign-in account; accents and
  special characters are cleaned out of the technical address. Rights:
  COMPTA, STOCK, RH, ADMIN. When a remote store is configured the account
  is created there first; a refusal cancels the hire.
`
}

func (p *hireCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Full name.")
	f.StringVar(&p.role, "role", "", "Role, e.g. Vendeur.")
	f.StringVar(&p.username, "u", "", "Username for sign-in.")
	f.StringVar(&p.password, "p", "", "Initial password.")
	f.Int64Var(&p.salary, "salary", 0, "Monthly salary in francs CFA.")
	f.StringVar(&p.rights, "rights", "", "Comma-separated access rights.")
}

func (p *hireCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)
	if err := app.RequireRight(boutik.RightRH); err != nil {
		return fail(err)
	}

	var rights []boutik.AccessRight
	for _, s := range strings.Split(p.rights, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		r, err := boutik.ParseAccessRight(strings.ToUpper(s))
		if err != nil {
			return fail(err)
		}
		rights = append(rights, r)
	}

	emp, err := app.AddEmployee(ctx, boutik.NewEmployee{
		Name:         p.name,
		Role:         p.role,
		Username:     p.username,
		Password:     p.password,
		Salary:       boutik.Money(p.salary),
		AccessRights: rights,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Embauché: %s (%s) id=%s, identifiant %q\n", emp.Name, emp.Role, emp.ID, emp.Username)
	return subcommands.ExitSuccess
}

type promoteCmd struct {
	role   string
	salary int64
	rights string
}

func (*promoteCmd) Name() string     { return "promote" }
func (*promoteCmd) Synopsis() string { return "change an employee's role, salary or rights" }
func (*promoteCmd) Usage() string {
	return `btk promote [-role <role>] [-salary <amount>] [-rights <r1,r2>] <employee-id>

  Changes an employee's role, salary or access rights. Only the flags
  given are changed.
`
}

func (p *promoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.role, "role", "", "New role.")
	f.Int64Var(&p.salary, "salary", 0, "New monthly salary in francs CFA.")
	f.StringVar(&p.rights, "rights", "", "New comma-separated access rights, replacing the old set.")
}

func (p *promoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one employee id.")
		return subcommands.ExitUsageError
	}

	var u boutik.EmployeeUpdate
	var parseErr error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "role":
			u.Role = &p.role
		case "salary":
			salary := boutik.Money(p.salary)
			u.Salary = &salary
		case "rights":
			rights := []boutik.AccessRight{}
			for _, s := range strings.Split(p.rights, ",") {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				r, err := boutik.ParseAccessRight(strings.ToUpper(s))
				if err != nil {
					parseErr = err
					return
				}
				rights = append(rights, r)
			}
			u.AccessRights = &rights
		}
	})
	if parseErr != nil {
		return fail(parseErr)
	}
	if u.Role == nil && u.Salary == nil && u.AccessRights == nil {
		fmt.Fprintln(os.Stderr, "Error: nothing to change.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)
	if err := app.RequireRight(boutik.RightRH); err != nil {
		return fail(err)
	}

	if err := app.UpdateEmployee(ctx, f.Arg(0), u); err != nil {
		return fail(err)
	}
	fmt.Println("Employé mis à jour.")
	return subcommands.ExitSuccess
}

type fireCmd struct{}

func (*fireCmd) Name() string     { return "fire" }
func (*fireCmd) Synopsis() string { return "remove an employee" }
func (*fireCmd) Usage() string {
	return `btk fire <employee-id>

  Removes an employee and their account. The bootstrap admin cannot be
  removed.
`
}
func (*fireCmd) SetFlags(f *flag.FlagSet) {}

func (p *fireCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one employee id.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)
	if err := app.RequireRight(boutik.RightRH); err != nil {
		return fail(err)
	}

	if err := app.DeleteEmployee(ctx, f.Arg(0)); err != nil {
		return fail(err)
	}
	fmt.Println("Employé supprimé.")
	return subcommands.ExitSuccess
}

type attendanceCmd struct{}

func (*attendanceCmd) Name() string     { return "attendance" }
func (*attendanceCmd) Synopsis() string { return "toggle an employee's presence for the day" }
func (*attendanceCmd) Usage() string    { return "btk attendance <employee-id>\n" }
func (*attendanceCmd) SetFlags(f *flag.FlagSet) {}

func (p *attendanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one employee id.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)

	present, err := app.ToggleAttendance(ctx, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	if present {
		fmt.Println("Marqué présent.")
	} else {
		fmt.Println("Marqué absent.")
	}
	return subcommands.ExitSuccess
}

type advanceCmd struct {
	amount int64
	method string
}

func (*advanceCmd) Name() string     { return "advance" }
func (*advanceCmd) Synopsis() string { return "grant a salary advance" }
func (*advanceCmd) Usage() string {
	return `btk advance -a <amount> [-m <method>] <employee-id>

  Grants a salary advance: the money leaves now and is deducted from the
  next salary payment.
`
}

func (p *advanceCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&p.amount, "a", 0, "Advance amount in francs CFA.")
	f.StringVar(&p.method, "m", "CASH", "Payment method.")
}

func (p *advanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || p.amount <= 0 {
		fmt.Fprintln(os.Stderr, "Error: expected an employee id and a positive -a.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)
	if err := app.RequireRight(boutik.RightRH); err != nil {
		return fail(err)
	}

	if err := app.RequestAdvance(ctx, f.Arg(0), boutik.Money(p.amount), boutik.PaymentMethod(p.method)); err != nil {
		return fail(err)
	}
	fmt.Printf("Avance de %s accordée.\n", boutik.Money(p.amount))
	return subcommands.ExitSuccess
}

type payCmd struct {
	method string
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "pay an employee's salary balance" }
func (*payCmd) Usage() string {
	return `btk pay [-m <method>] <employee-id>

  Pays the salary net of advances already taken, marks the employee paid
  and resets the advance counter.
`
}

func (p *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.method, "m", "CASH", "Payment method.")
}

func (p *payCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one employee id.")
		return subcommands.ExitUsageError
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Bootstrap(ctx)
	if err := app.RequireRight(boutik.RightRH); err != nil {
		return fail(err)
	}

	if err := app.PayEmployee(ctx, f.Arg(0), boutik.PaymentMethod(p.method)); err != nil {
		return fail(err)
	}
	fmt.Println("Salaire soldé.")
	return subcommands.ExitSuccess
}
