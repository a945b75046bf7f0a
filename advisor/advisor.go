// Package advisor turns the snapshot into business guidance: a short
// generative analysis when a Gemini key is configured, rule-based tips
// otherwise. The model is given a few seconds at most; a shop does not
// wait on the network to get advice.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ksidibe/boutik"
	"github.com/ksidibe/boutik/pkg/logger"
)

const modelTimeout = 5 * time.Second

// Advisor produces business advice from a snapshot.
type Advisor struct {
	apiKey string
	model  string
	log    *logger.Logger
}

// New returns an advisor. An empty apiKey means offline-only.
func New(apiKey, model string, log *logger.Logger) *Advisor {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Advisor{apiKey: apiKey, model: model, log: log.WithComponent("advisor")}
}

// Advise returns markdown guidance for the snapshot. The generative path
// is attempted first when configured; any failure, including the timeout,
// falls back to the offline rules.
func (a *Advisor) Advise(ctx context.Context, s *boutik.Snapshot) string {
	st := Compute(s, time.Now())
	if a.apiKey == "" {
		return offlineAdvice(st)
	}

	text, err := a.generate(ctx, s, st)
	if err != nil {
		a.log.Warnw("generative advice unavailable, using offline rules", "err", err)
		return offlineAdvice(st)
	}
	return text
}

func (a *Advisor) generate(ctx context.Context, s *boutik.Snapshot, st Stats) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, modelTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: a.apiKey})
	if err != nil {
		return "", fmt.Errorf("cannot create gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, a.model,
		genai.Text(buildPrompt(s, st)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from %s", a.model)
	}
	return text, nil
}

// buildPrompt condenses the books into a compact French brief. Only
// aggregates travel to the model, never the raw ledger.
func buildPrompt(s *boutik.Snapshot, st Stats) string {
	var b strings.Builder
	b.WriteString("Tu es le conseiller de gestion d'une petite boutique en Afrique de l'Ouest (montants en francs CFA).\n")
	b.WriteString("Donne 3 conseils concrets et courts en français, en markdown, à partir de ces chiffres:\n\n")

	fmt.Fprintf(&b, "- Caisse: %s, Mobile Money: %s\n", st.CashBalance, st.MobileMoneyBalance)
	fmt.Fprintf(&b, "- Revenus 30 derniers jours: %s (%s%% vs 30 jours précédents)\n", st.Income30, st.IncomeVar)
	fmt.Fprintf(&b, "- Dépenses 30 derniers jours: %s (%s%% vs 30 jours précédents)\n", st.Expenses30, st.ExpensesVar)
	fmt.Fprintf(&b, "- Créances clients: %s\n", st.TotalDebt)

	if cats := TopExpenses(s, time.Now()); len(cats) > 0 {
		b.WriteString("- Plus gros postes de dépense: ")
		for i, c := range cats {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s (%s)", c.Label, c.Total)
		}
		b.WriteString("\n")
	}
	if len(st.LowStock) > 0 {
		fmt.Fprintf(&b, "- Produits sous le seuil de stock: %s\n", strings.Join(st.LowStock, ", "))
	}
	return b.String()
}
