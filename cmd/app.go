// Package cmd implements the CLI application to run the shop.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/ksidibe/boutik"
	"github.com/ksidibe/boutik/advisor"
	"github.com/ksidibe/boutik/config"
	"github.com/ksidibe/boutik/pkg/logger"
	"github.com/ksidibe/boutik/supabase"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&loginCmd{}, "session")
	c.Register(&logoutCmd{}, "session")
	c.Register(&syncCmd{}, "session")

	c.Register(&addCmd{}, "compta")
	c.Register(&txCmd{}, "compta")
	c.Register(&confirmCmd{}, "compta")
	c.Register(&debtCmd{}, "compta")
	c.Register(&clientsCmd{}, "compta")

	c.Register(&stockCmd{}, "stock")
	c.Register(&adjustCmd{}, "stock")
	c.Register(&productAddCmd{}, "stock")
	c.Register(&productEditCmd{}, "stock")
	c.Register(&productRmCmd{}, "stock")

	c.Register(&employeesCmd{}, "rh")
	c.Register(&hireCmd{}, "rh")
	c.Register(&promoteCmd{}, "rh")
	c.Register(&fireCmd{}, "rh")
	c.Register(&attendanceCmd{}, "rh")
	c.Register(&advanceCmd{}, "rh")
	c.Register(&payCmd{}, "rh")

	c.Register(&dashboardCmd{}, "reports")
	c.Register(&notifyCmd{}, "reports")
	c.Register(&adviseCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&importCmd{}, "reports")

	c.Register(&seedCmd{}, "admin")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", "", "Path to the configuration file (defaults to ~/.boutik/config.yaml)")
var dataDir = flag.String("data", "", "Path to the data directory, overrides the configuration")

// openApp loads the configuration and the local document, wires the remote
// gateway when one is configured, and restores any persisted session.
func openApp() (*boutik.App, config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, cfg, err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, cfg, fmt.Errorf("cannot build logger: %w", err)
	}

	var remote boutik.Remote
	if cfg.Online() {
		remote = supabase.New(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.DataDir, log)
	}

	app := boutik.NewApp(boutik.NewStore(cfg.DataDir, log), remote, log)
	return app, cfg, nil
}

// closeApp drains the pending remote writes before the process ends.
func closeApp(app *boutik.App) { app.Wait() }

func newAdvisor(cfg config.Config) *advisor.Advisor {
	return advisor.New(cfg.Advisor.APIKey, cfg.Advisor.Model, logger.Default())
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when the renderer cannot be built.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
