package boutik

import (
	"context"
	"testing"
)

func TestLoginBootstrapAdminAlwaysWorks(t *testing.T) {
	app := newTestApp(t, nil)

	user, err := app.Login(context.Background(), "admin", "123")
	if err != nil {
		t.Fatal(err)
	}
	if !user.HasRight(RightAdmin) {
		t.Error("bootstrap admin missing the ADMIN right")
	}
	if app.CurrentUser() == nil {
		t.Error("no current user after login")
	}
}

func TestLoginBootstrapSurvivesMissingLocalRecord(t *testing.T) {
	app := newTestApp(t, nil)
	if err := app.Apply(func(s *Snapshot) { s.Employees = nil }); err != nil {
		t.Fatal(err)
	}

	user, err := app.Login(context.Background(), "ADMIN", "123")
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != BootstrapUsername {
		t.Errorf("username = %q, want %q", user.Username, BootstrapUsername)
	}
}

func TestLoginLocalCredentials(t *testing.T) {
	app := newTestApp(t, nil)

	// "amina" is seeded with password 000
	user, err := app.Login(context.Background(), "amina", "000")
	if err != nil {
		t.Fatal(err)
	}
	if user.Name != "Amina K." {
		t.Errorf("name = %q", user.Name)
	}

	if _, err := app.Login(context.Background(), "amina", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, err := app.Login(context.Background(), "ghost", "000"); err == nil {
		t.Error("unknown username accepted")
	}
}

func TestLoginStripsEmailDomain(t *testing.T) {
	app := newTestApp(t, nil)

	user, err := app.Login(context.Background(), "amina@fasso-app.com", "000")
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != "amina" {
		t.Errorf("username = %q, want amina", user.Username)
	}
}

func TestLoginRemoteSessionWins(t *testing.T) {
	remote := newFakeRemote()
	app := newTestApp(t, remote)

	user, err := app.Login(context.Background(), "amina", "000")
	if err != nil {
		t.Fatal(err)
	}
	// the fake remote signs anyone in; the local profile is still resolved
	if user.Username != "amina" {
		t.Errorf("username = %q, want the local profile resolved", user.Username)
	}
}

func TestLogoutClearsCurrentUser(t *testing.T) {
	app := newTestApp(t, nil)
	if _, err := app.Login(context.Background(), "admin", "123"); err != nil {
		t.Fatal(err)
	}
	app.Logout(context.Background())
	if app.CurrentUser() != nil {
		t.Error("current user survived logout")
	}
}

func TestRequireRight(t *testing.T) {
	app := newTestApp(t, nil)

	if err := app.RequireRight(RightCompta); err == nil {
		t.Error("anonymous access allowed")
	}

	if _, err := app.Login(context.Background(), "amina", "000"); err != nil {
		t.Fatal(err)
	}
	if err := app.RequireRight(RightCompta); err != nil {
		t.Errorf("amina holds COMPTA: %v", err)
	}
	if err := app.RequireRight(RightRH); err == nil {
		t.Error("amina does not hold RH")
	}

	if _, err := app.Login(context.Background(), "admin", "123"); err != nil {
		t.Fatal(err)
	}
	if err := app.RequireRight(RightRH); err != nil {
		t.Errorf("admin holds every right: %v", err)
	}
}

func TestViewIsIsolatedFromMutations(t *testing.T) {
	app := newTestApp(t, nil)

	view := app.View()
	view.CashBalance = 0
	view.Products[0].StockLevel = -99

	fresh := app.View()
	if fresh.CashBalance == 0 {
		t.Error("mutating a view leaked into the application state")
	}
	if fresh.Products[0].StockLevel == -99 {
		t.Error("mutating a view's product leaked into the application state")
	}
}
