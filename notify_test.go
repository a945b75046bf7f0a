package boutik

import "testing"

func TestNotifications(t *testing.T) {
	s := &Snapshot{
		Products: []Product{
			{ID: "p1", Name: "Sac de Riz (50kg)", StockLevel: 45, MinStockLevel: 10},
			{ID: "p2", Name: "Bidon Huile (20L)", StockLevel: 8, MinStockLevel: 15},
			{ID: "p3", Name: "Carton Savon", StockLevel: 0, MinStockLevel: 20},
		},
		Clients: []Client{
			{ID: "c1", Name: "Moussa Traoré", TotalDebt: 15000},
			{ID: "c2", Name: "Fatou Diop", TotalDebt: 0},
		},
	}

	notifs := Notifications(s)

	byID := make(map[string]Notification, len(notifs))
	for _, n := range notifs {
		byID[n.ID] = n
	}

	if len(notifs) != 3 {
		t.Fatalf("got %d notifications, want 3: %+v", len(notifs), notifs)
	}
	if _, ok := byID["stock-p1"]; ok {
		t.Error("healthy product p1 raised an alert")
	}
	if n := byID["stock-p2"]; n.Severity != SeverityMedium || n.Kind != NotifyStock {
		t.Errorf("stock-p2 = %+v, want a medium stock alert", n)
	}
	if n := byID["stock-p3"]; n.Severity != SeverityHigh {
		t.Errorf("stock-p3 severity = %s, want high for an empty shelf", n.Severity)
	}
	if n := byID["debt-c1"]; n.Kind != NotifyDebt || n.Route != "/compta" {
		t.Errorf("debt-c1 = %+v, want a debt alert routed to /compta", n)
	}
	if _, ok := byID["debt-c2"]; ok {
		t.Error("client with no debt raised an alert")
	}
}

func TestNotificationsClearWhenResolved(t *testing.T) {
	s := &Snapshot{
		Products: []Product{{ID: "p2", Name: "Bidon Huile (20L)", StockLevel: 8, MinStockLevel: 15}},
	}
	if got := len(Notifications(s)); got != 1 {
		t.Fatalf("got %d notifications, want 1", got)
	}

	// A delivery arrives.
	s.Products[0].StockLevel = 40
	if got := len(Notifications(s)); got != 0 {
		t.Errorf("got %d notifications after restock, want 0", got)
	}
}
