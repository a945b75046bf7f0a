package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/google/subcommands"
	"golang.org/x/term"
)

type loginCmd struct {
	user     string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in and reconcile with the remote store" }
func (*loginCmd) Usage() string {
	return `btk login -u <identifiant> [-p <mot de passe>]

  Signs in with a username (or full email). Without -p the password is
  read from the terminal. When a remote store is configured the session
  is persisted and a reconciliation pass runs right away.
`
}

func (p *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.user, "u", "", "Username or email.")
	f.StringVar(&p.password, "p", "", "Password. Prompted when omitted.")
}

func (p *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.user == "" {
		fmt.Fprintln(os.Stderr, "Error: -u is required.")
		return subcommands.ExitUsageError
	}
	if p.password == "" {
		fmt.Fprint(os.Stderr, "Mot de passe: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fail(err)
		}
		p.password = strings.TrimSpace(string(raw))
	}

	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)

	user, err := app.Login(ctx, p.user, p.password)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Bienvenue %s (%s)\n", user.Name, user.Role)

	if err := app.Synchronize(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: synchronisation incomplète:", err)
	}
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "sign out" }
func (*logoutCmd) Usage() string            { return "btk logout\n" }
func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (p *logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)
	app.Logout(ctx)
	fmt.Println("Déconnecté.")
	return subcommands.ExitSuccess
}

type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "reconcile the local document with the remote store" }
func (*syncCmd) Usage() string {
	return `btk sync

  Fetches every collection from the remote store and folds it into the
  local document. Locally recorded but unsynced transactions survive the
  merge. Collections that cannot be fetched are left untouched.
`
}
func (*syncCmd) SetFlags(f *flag.FlagSet) {}

func (p *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer closeApp(app)

	app.Bootstrap(ctx)
	if err := app.Synchronize(ctx); err != nil {
		return fail(err)
	}
	fmt.Println("Synchronisation terminée.")
	return subcommands.ExitSuccess
}
