package boutik

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func sampleSnapshot() *Snapshot {
	date := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	return &Snapshot{
		CashBalance:        150000,
		MobileMoneyBalance: 325000,
		Transactions: []Transaction{
			{
				ID: "tx1", Date: date, Kind: Income, Amount: 50000,
				Description: "Vente journalière", Method: Cash, Status: Settled, Synced: true,
			},
			{
				ID: "tx2", Date: date.Add(-time.Hour), Kind: Income, Amount: 12000,
				Description: "Vente détaillée", Method: MobileMoney, Status: Pending,
				RelatedClientID: "c1",
				Items: []LineItem{
					{ProductID: "p1", ProductName: "Sac de Riz (50kg)", Quantity: 2, UnitPrice: 22000},
				},
			},
		},
		Products: []Product{
			{ID: "p1", Name: "Sac de Riz (50kg)", Category: "Alimentaire", Price: 22000, StockLevel: 45, MinStockLevel: 10},
		},
		StockMovements: []StockMovement{
			{ID: "m1", ProductID: "p1", ProductName: "Sac de Riz (50kg)", Date: date, QuantityChange: -2, Reason: "Vente", AuthorName: "Ibrahim S."},
		},
		Clients:   []Client{{ID: "c1", Name: "Moussa Traoré", Phone: "+225 07070701", TotalDebt: 15000}},
		Employees: []Employee{SeedAdmin()},
	}
}

// Exporting, importing and exporting again must produce byte-identical
// output: the backup format is canonical.
func TestEncodeRoundTripIsByteIdentical(t *testing.T) {
	var first bytes.Buffer
	if err := EncodeSnapshot(&first, sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeSnapshot(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	var second bytes.Buffer
	if err := EncodeSnapshot(&second, decoded); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("round trip changed the document:\nfirst:\n%s\nsecond:\n%s", first.String(), second.String())
	}
}

func TestEncodeOmitsOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, sampleSnapshot()); err != nil {
		t.Fatal(err)
	}
	doc := buf.String()

	// tx1 has no client, employee or items; those keys must not appear on it.
	if strings.Count(doc, "relatedClientId") != 1 {
		t.Errorf("relatedClientId should appear exactly once:\n%s", doc)
	}
	if strings.Contains(doc, "relatedEmployeeId") {
		t.Errorf("relatedEmployeeId should be omitted entirely:\n%s", doc)
	}
	if strings.Count(doc, `"items"`) != 1 {
		t.Errorf("items should appear exactly once:\n%s", doc)
	}
}

func TestEncodeNeverEmitsNullCollections(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, &Snapshot{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "null") {
		t.Errorf("empty snapshot encoded a null collection:\n%s", buf.String())
	}
}

func TestDecodeToleratesUnknownFields(t *testing.T) {
	doc := `{"cashBalance": 1000, "futureField": {"x": 1}, "transactions": []}`
	snap, err := DecodeSnapshot(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if snap.CashBalance != 1000 {
		t.Errorf("cashBalance = %d, want 1000", snap.CashBalance)
	}
}

func TestImportRejectsIncompleteBackups(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"not json", "hello"},
		{"no employees", `{"transactions":[{"id":"t1"}],"employees":[]}`},
		{"no transactions", `{"transactions":[],"employees":[{"id":"e1"}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportSnapshot(strings.NewReader(tc.doc)); err == nil {
				t.Error("ImportSnapshot() accepted an invalid backup")
			}
		})
	}
}

func TestExportImportPreservesState(t *testing.T) {
	var buf bytes.Buffer
	src := sampleSnapshot()
	if err := ExportSnapshot(&buf, src); err != nil {
		t.Fatal(err)
	}
	got, err := ImportSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.CashBalance != src.CashBalance || got.MobileMoneyBalance != src.MobileMoneyBalance {
		t.Errorf("balances changed: got %d/%d", got.CashBalance, got.MobileMoneyBalance)
	}
	if len(got.Transactions) != 2 || got.Transactions[1].Items[0].Quantity != 2 {
		t.Errorf("transactions lost detail: %+v", got.Transactions)
	}
	if !got.Transactions[0].Date.Equal(src.Transactions[0].Date) {
		t.Errorf("date changed: %s vs %s", got.Transactions[0].Date, src.Transactions[0].Date)
	}
}
