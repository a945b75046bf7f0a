package boutik

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Employee management. Unlike the other writes, creating an employee is
// synchronous with the remote store: an account that exists locally but
// was refused remotely would let someone in on this device and nowhere
// else, so a remote refusal rolls the local insert back.

// NewEmployee is the input for hiring an employee.
type NewEmployee struct {
	Name         string
	Role         string
	Username     string
	Password     string
	Salary       Money
	PhotoRef     string
	AccessRights []AccessRight
}

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// technicalEmail derives the sign-in address from a human-entered
// username. Accents are folded, anything outside [a-z0-9._-] is dropped
// and dots are collapsed; a residue shorter than two characters gets a
// generated fallback.
func technicalEmail(username string) string {
	local := strings.TrimSpace(username)
	if emailRx.MatchString(local) {
		local = local[:strings.Index(local, "@")]
	}
	local = strings.ToLower(local)

	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, local); err == nil {
		local = folded
	}

	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	local = b.String()
	for strings.Contains(local, "..") {
		local = strings.ReplaceAll(local, "..", ".")
	}
	local = strings.Trim(local, ".")

	if len(local) < 2 {
		local = fmt.Sprintf("user%04d", rand.Intn(10000))
	}
	return local + "@" + loginDomain
}

// padPassword brings a password up to the minimum the auth service
// accepts.
func padPassword(p string) string {
	for len(p) < 6 {
		p += "0"
	}
	return p
}

// translateAuthError turns the usual sign-up refusals into messages fit
// for the person at the counter.
func translateAuthError(err error) error {
	var gerr *GatewayError
	if errors.As(err, &gerr) {
		msg := strings.ToLower(gerr.Message)
		switch {
		case strings.Contains(msg, "already registered"), strings.Contains(msg, "already exists"):
			return errors.New("ce nom d'utilisateur est déjà pris")
		case strings.Contains(msg, "password"):
			return errors.New("mot de passe trop court (6 caractères minimum)")
		}
		if gerr.Kind == GatewayUnreachable {
			return errors.New("serveur injoignable, réessayez plus tard")
		}
	}
	return fmt.Errorf("création du compte impossible: %w", err)
}

// AddEmployee hires an employee. The profile is inserted locally first,
// then the remote account is created; any remote refusal removes the
// local profile again and surfaces a translated error.
func (a *App) AddEmployee(ctx context.Context, in NewEmployee) (Employee, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if at := strings.Index(username, "@"); at >= 0 {
		username = username[:at]
	}
	if in.Name == "" || username == "" {
		return Employee{}, errors.New("nom et identifiant obligatoires")
	}
	if a.View().FindEmployeeByUsername(username) != nil {
		return Employee{}, errors.New("ce nom d'utilisateur est déjà pris")
	}

	emp := Employee{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Role:          in.Role,
		Username:      username,
		CredentialRef: hashCredential(padPassword(in.Password)),
		Salary:        in.Salary,
		PhotoRef:      in.PhotoRef,
		AccessRights:  in.AccessRights,
	}

	if err := a.Apply(func(s *Snapshot) {
		s.Employees = append(s.Employees, emp)
	}); err != nil {
		return Employee{}, err
	}
	if a.remote == nil {
		return emp, nil
	}

	tempID := emp.ID
	rollback := func() {
		if err := a.Apply(func(s *Snapshot) {
			for i := range s.Employees {
				if s.Employees[i].ID == tempID {
					s.Employees = append(s.Employees[:i], s.Employees[i+1:]...)
					break
				}
			}
		}); err != nil {
			a.log.Errorw("rollback after failed employee creation", "err", err)
		}
	}

	rctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	session, err := a.remote.SignUp(rctx, technicalEmail(username), padPassword(in.Password), in.Name)
	if err != nil {
		rollback()
		return Employee{}, translateAuthError(err)
	}
	emp.AuthUserID = session.UserID

	saved, err := a.remote.InsertEmployee(rctx, emp)
	if err != nil {
		rollback()
		return Employee{}, translateAuthError(err)
	}

	if err := a.Apply(func(s *Snapshot) {
		if saved.ID != tempID {
			rewriteEmployeeID(s, tempID, saved.ID)
		}
		if e := s.FindEmployee(saved.ID); e != nil {
			e.AuthUserID = emp.AuthUserID
		}
	}); err != nil {
		return Employee{}, err
	}
	emp.ID = saved.ID
	return emp, nil
}

// UpdateEmployee applies a partial employee update locally then remotely.
func (a *App) UpdateEmployee(ctx context.Context, id string, u EmployeeUpdate) error {
	var found bool
	err := a.Apply(func(s *Snapshot) {
		e := s.FindEmployee(id)
		if e == nil {
			return
		}
		found = true
		applyEmployeeUpdate(e, u)
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("unknown employee: %q", id)
	}

	a.background("employee.update", func(ctx context.Context) error {
		return a.remote.UpdateEmployee(ctx, id, u)
	})
	return nil
}

func applyEmployeeUpdate(e *Employee, u EmployeeUpdate) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Role != nil {
		e.Role = *u.Role
	}
	if u.Salary != nil {
		e.Salary = *u.Salary
	}
	if u.AdvancesTaken != nil {
		e.AdvancesTaken = *u.AdvancesTaken
	}
	if u.IsPaid != nil {
		e.IsPaid = *u.IsPaid
	}
	if u.IsPresent != nil {
		e.IsPresent = *u.IsPresent
	}
	if u.AccessRights != nil {
		e.AccessRights = *u.AccessRights
	}
}

// DeleteEmployee removes an employee locally then remotely. The bootstrap
// admin cannot be removed.
func (a *App) DeleteEmployee(ctx context.Context, id string) error {
	var refused bool
	err := a.Apply(func(s *Snapshot) {
		for i := range s.Employees {
			if s.Employees[i].ID != id {
				continue
			}
			if strings.EqualFold(s.Employees[i].Username, BootstrapUsername) {
				refused = true
				return
			}
			s.Employees = append(s.Employees[:i], s.Employees[i+1:]...)
			return
		}
	})
	if err != nil {
		return err
	}
	if refused {
		return errors.New("le compte administrateur ne peut pas être supprimé")
	}

	a.background("employee.delete", func(ctx context.Context) error {
		return a.remote.DeleteEmployee(ctx, id)
	})
	return nil
}

// ToggleAttendance flips an employee's presence for the day.
func (a *App) ToggleAttendance(ctx context.Context, id string) (bool, error) {
	var (
		present *bool
	)
	err := a.Apply(func(s *Snapshot) {
		if e := s.FindEmployee(id); e != nil {
			e.IsPresent = !e.IsPresent
			present = &e.IsPresent
		}
	})
	if err != nil {
		return false, err
	}
	if present == nil {
		return false, fmt.Errorf("unknown employee: %q", id)
	}

	p := *present
	a.background("employee.attendance", func(ctx context.Context) error {
		return a.remote.UpdateEmployee(ctx, id, EmployeeUpdate{IsPresent: &p})
	})
	return p, nil
}

// RequestAdvance grants a salary advance: the employee's running advance
// total grows and the money leaves through an expense using the given
// method.
func (a *App) RequestAdvance(ctx context.Context, id string, amount Money, method PaymentMethod) error {
	if amount <= 0 {
		return fmt.Errorf("invalid amount: %d", amount)
	}
	if method == "" {
		method = Cash
	}

	var (
		name  string
		total Money
		found bool
	)
	err := a.Apply(func(s *Snapshot) {
		e := s.FindEmployee(id)
		if e == nil {
			return
		}
		found = true
		e.AdvancesTaken += amount
		name, total = e.Name, e.AdvancesTaken
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("unknown employee: %q", id)
	}

	t := total
	a.background("employee.advance", func(ctx context.Context) error {
		return a.remote.UpdateEmployee(ctx, id, EmployeeUpdate{AdvancesTaken: &t})
	})

	_, err = a.AddTransaction(ctx, NewTransaction{
		Kind:              Expense,
		Amount:            amount,
		Description:       fmt.Sprintf("Avance: %s", name),
		Method:            method,
		RelatedEmployeeID: id,
	})
	return err
}

// PayEmployee settles the month: the salary net of advances already taken
// is paid out as an expense, the employee is marked paid and the advance
// counter resets.
func (a *App) PayEmployee(ctx context.Context, id string, method PaymentMethod) error {
	if method == "" {
		method = Cash
	}

	var (
		name  string
		net   Money
		found bool
	)
	err := a.Apply(func(s *Snapshot) {
		e := s.FindEmployee(id)
		if e == nil {
			return
		}
		found = true
		name = e.Name
		net = e.Salary - e.AdvancesTaken
		if net < 0 {
			net = 0
		}
		e.IsPaid = true
		e.AdvancesTaken = 0
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("unknown employee: %q", id)
	}

	paid, zero := true, Money(0)
	a.background("employee.pay", func(ctx context.Context) error {
		return a.remote.UpdateEmployee(ctx, id, EmployeeUpdate{IsPaid: &paid, AdvancesTaken: &zero})
	})

	if net == 0 {
		return nil
	}
	_, err = a.AddTransaction(ctx, NewTransaction{
		Kind:              Expense,
		Amount:            net,
		Description:       fmt.Sprintf("Solde Salaire: %s", name),
		Method:            method,
		RelatedEmployeeID: id,
	})
	return err
}
