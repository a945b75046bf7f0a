package boutik

import "fmt"

// NotificationKind distinguishes the alert families.
type NotificationKind string

const (
	NotifyStock NotificationKind = "STOCK"
	NotifyDebt  NotificationKind = "DEBT"
)

// Severity grades a notification.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Notification is one derived alert. Notifications carry no memory: every
// evaluation recomputes the full list from scratch.
type Notification struct {
	ID       string
	Kind     NotificationKind
	Title    string
	Message  string
	Severity Severity
	Route    string
}

// Notifications scans the snapshot for threshold breaches: one alert per
// product at or below its minimum stock level, one per client with an
// outstanding debt. Pure function over the snapshot.
func Notifications(s *Snapshot) []Notification {
	var out []Notification
	for _, p := range s.Products {
		if p.StockLevel > p.MinStockLevel {
			continue
		}
		severity := SeverityMedium
		if p.StockLevel <= 0 {
			severity = SeverityHigh
		}
		out = append(out, Notification{
			ID:       "stock-" + p.ID,
			Kind:     NotifyStock,
			Title:    "Stock critique",
			Message:  fmt.Sprintf("%s est bientôt épuisé (%d restants).", p.Name, p.StockLevel),
			Severity: severity,
			Route:    "/stock",
		})
	}
	for _, c := range s.Clients {
		if c.TotalDebt <= 0 {
			continue
		}
		out = append(out, Notification{
			ID:       "debt-" + c.ID,
			Kind:     NotifyDebt,
			Title:    "Dette impayée",
			Message:  fmt.Sprintf("%s doit %s.", c.Name, c.TotalDebt),
			Severity: SeverityMedium,
			Route:    "/compta",
		})
	}
	return out
}
