package advisor

import (
	"fmt"
	"strings"
)

// offlineAdvice produces rule-based guidance when the generative model is
// unreachable or not configured. The thresholds mirror the ones the
// shopkeepers asked for: debt pressure above forty percent of liquidity,
// a cash drawer under 25 000 F, comfort above 300 000 F.
func offlineAdvice(st Stats) string {
	var tips []string

	if len(st.LowStock) > 0 {
		names := st.LowStock
		if len(names) > 3 {
			names = names[:3]
		}
		tips = append(tips, fmt.Sprintf(
			"Réapprovisionnez en priorité: %s. Un rayon vide est une vente perdue.",
			strings.Join(names, ", ")))
	}

	liquidity := st.CashBalance + st.MobileMoneyBalance
	if liquidity > 0 && st.TotalDebt*100 > liquidity*40 {
		tips = append(tips, fmt.Sprintf(
			"Les créances clients (%s) dépassent 40%% de votre liquidité. Relancez vos clients débiteurs cette semaine.",
			st.TotalDebt.String()))
	}

	if st.CashBalance < 25000 {
		tips = append(tips, fmt.Sprintf(
			"La caisse est basse (%s). Évitez les dépenses non essentielles et privilégiez les encaissements en espèces.",
			st.CashBalance.String()))
	}

	if st.ExpensesVar.GreaterThan(st.IncomeVar) && !st.ExpensesVar.IsZero() {
		tips = append(tips, fmt.Sprintf(
			"Vos dépenses progressent plus vite (%s%%) que vos revenus (%s%%) sur 30 jours. Passez en revue vos trois plus gros postes.",
			st.ExpensesVar.String(), st.IncomeVar.String()))
	}

	if len(tips) == 0 && liquidity > 300000 {
		tips = append(tips, fmt.Sprintf(
			"Votre trésorerie est saine (%s). C'est le bon moment pour négocier des prix de gros avec vos fournisseurs.",
			(st.CashBalance + st.MobileMoneyBalance).String()))
	}
	if len(tips) == 0 {
		tips = append(tips, "Continuez à enregistrer chaque vente et chaque dépense: des chiffres complets donnent de meilleurs conseils.")
	}

	var b strings.Builder
	b.WriteString("## Conseils (hors ligne)\n\n")
	for _, t := range tips {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	return b.String()
}
