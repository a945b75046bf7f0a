package boutik

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ksidibe/boutik/pkg/logger"
)

// remoteTimeout bounds every background remote write. The local state is
// already durable by then, so giving up is always safe.
const remoteTimeout = 10 * time.Second

// loginDomain is the suffix appended to bare usernames to form the
// technical remote login handle.
const loginDomain = "fasso-app.com"

// App owns the snapshot. Every mutation goes through Apply, which operates
// on the latest snapshot under a single-writer discipline and persists it
// write-through, so two mutations can never be computed against a stale
// state.
type App struct {
	mu     sync.Mutex
	snap   *Snapshot
	store  *Store
	remote Remote // nil when running without a configured remote store
	log    *logger.Logger

	wg sync.WaitGroup

	currentUser *Employee
}

// NewApp loads the local document and returns a ready application. remote
// may be nil; the application then runs in local-only mode.
func NewApp(store *Store, remote Remote, log *logger.Logger) *App {
	return &App{
		snap:   store.Load(),
		store:  store,
		remote: remote,
		log:    log.WithComponent("app"),
	}
}

// Apply runs a mutation against the latest snapshot and persists the
// result before returning. The caller observes success before any network
// counterpart is even dispatched.
func (a *App) Apply(mutate func(*Snapshot)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	mutate(a.snap)
	return a.store.Save(a.snap)
}

// View returns a deep copy of the current snapshot, safe to read while
// mutations continue.
func (a *App) View() *Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap.Clone()
}

// CurrentUser returns the logged-in employee, or nil.
func (a *App) CurrentUser() *Employee {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentUser == nil {
		return nil
	}
	u := *a.currentUser
	return &u
}

func (a *App) setCurrentUser(e *Employee) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.currentUser = e
}

// authorName is the display name recorded on audit entries.
func (a *App) authorName() string {
	if u := a.CurrentUser(); u != nil {
		return u.Name
	}
	return ""
}

// background dispatches a remote write after the local mutation has
// already succeeded. Failures are logged, never surfaced: the local copy
// stays the durable source of truth until the next reconciliation pass.
func (a *App) background(op string, fn func(ctx context.Context) error) {
	if a.remote == nil {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			a.log.Warnw("remote write failed, kept local only", "op", op, "err", err)
		}
	}()
}

// Wait drains in-flight background remote writes. Called before process
// exit.
func (a *App) Wait() { a.wg.Wait() }

// Login authenticates a human-entered identifier and password.
//
// The identifier is trimmed and the part before any '@' is taken as the
// username. The bootstrap admin credential always succeeds locally, no
// matter what the remote store thinks; then remote sign-in is attempted
// with the technical login handle; then the local credential store is
// checked. Only when all three fail is the login rejected.
func (a *App) Login(ctx context.Context, identifier, password string) (Employee, error) {
	clean := strings.TrimSpace(identifier)
	username := clean
	if at := strings.Index(clean, "@"); at >= 0 {
		username = clean[:at]
	}

	if strings.EqualFold(username, BootstrapUsername) && password == BootstrapPassword {
		admin := a.View().FindEmployeeByUsername(BootstrapUsername)
		if admin == nil {
			seeded := SeedAdmin()
			admin = &seeded
		}
		a.setCurrentUser(admin)
		return *admin, nil
	}

	if a.remote != nil {
		email := clean
		if !strings.Contains(clean, "@") {
			email = strings.ToLower(strings.ReplaceAll(clean, " ", "")) + "@" + loginDomain
		}
		session, err := a.remote.SignIn(ctx, strings.ToLower(email), password)
		if err == nil {
			user := a.resolveSessionUser(ctx, session, username)
			a.setCurrentUser(&user)
			return user, nil
		}
		a.log.Debugw("remote sign-in failed, trying local credentials", "err", err)
	}

	local := a.View().FindEmployeeByUsername(username)
	if local != nil && checkCredential(local.CredentialRef, password) {
		a.setCurrentUser(local)
		return *local, nil
	}

	return Employee{}, errors.New("identifiant ou mot de passe invalide")
}

// Logout clears the current user and signs out remotely, best effort.
func (a *App) Logout(ctx context.Context) {
	a.setCurrentUser(nil)
	if a.remote == nil {
		return
	}
	if err := a.remote.SignOut(ctx); err != nil {
		a.log.Debugw("remote sign-out failed", "err", err)
	}
}

// Bootstrap restores the current user from a still-valid remote session,
// if one exists. Failures leave the application logged out, never broken.
func (a *App) Bootstrap(ctx context.Context) {
	if a.remote == nil {
		return
	}
	session, err := a.remote.CurrentSession(ctx)
	if err != nil || session == nil {
		return
	}
	user := a.resolveSessionUser(ctx, *session, "")
	a.setCurrentUser(&user)
}

// resolveSessionUser maps an authenticated session to an employee record,
// preferring the remote profile, then the local one, then a minimal
// stand-in so the session is still usable.
func (a *App) resolveSessionUser(ctx context.Context, session Session, username string) Employee {
	if profile, err := a.remote.FindEmployeeByAuthID(ctx, session.UserID); err == nil && profile != nil {
		return *profile
	}
	if username != "" {
		if local := a.View().FindEmployeeByUsername(username); local != nil {
			return *local
		}
	}
	return Employee{
		ID:         session.UserID,
		AuthUserID: session.UserID,
		Name:       session.Email,
		Username:   username,
	}
}

// RequireRight returns an error unless the current user holds the given
// access right.
func (a *App) RequireRight(r AccessRight) error {
	u := a.CurrentUser()
	if u == nil {
		return errors.New("aucun utilisateur connecté")
	}
	if !u.HasRight(r) {
		return fmt.Errorf("accès %s refusé pour %s", r, u.Name)
	}
	return nil
}
