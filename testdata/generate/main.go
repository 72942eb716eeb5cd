package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/veritrade/validator/internal/domain"
)

// Generates the seed trade records plus sample termsheet documents. The
// termsheets are derived from the trade records with discrepancies injected
// at a fixed rate so a fresh database produces interesting validation runs.
func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := findTestdataDir()

	counterparties := []struct {
		name   string
		entity string
		ccy    string
		ref    string
	}{
		{"HSBC Bank plc", "Barclays Bank PLC", "USD", "SOFR"},
		{"Goldman Sachs International", "Barclays Bank PLC", "USD", "SOFR"},
		{"JP Morgan Chase Bank", "Barclays Bank PLC", "EUR", "EURIBOR"},
		{"Deutsche Bank AG", "Barclays Bank PLC", "GBP", "SONIA"},
		{"BNP Paribas SA", "Barclays Bank PLC", "EUR", "EURIBOR"},
		{"Citigroup Global Markets Ltd", "Barclays Bank PLC", "USD", "SOFR"},
	}
	frequencies := []string{"Quarterly", "Semi-Annually", "Annually", "Monthly"}

	var trades []domain.TradeRecord
	for i := 0; i < 24; i++ {
		cp := counterparties[i%len(counterparties)]

		// Notional between 10M and 150M, rounded to the nearest million.
		notional := math.Round(10+rng.Float64()*140) * 1_000_000
		// Fixed rate between 2.50% and 5.50% in basis-point steps.
		fixedRate := math.Round((2.5+rng.Float64()*3.0)*100) / 100

		settlement := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, rng.Intn(180))
		tenorYears := 2 + rng.Intn(9)

		trades = append(trades, domain.TradeRecord{
			ID:             fmt.Sprintf("0000%04d-seed-4000-8000-%012d", i, i),
			TradeID:        fmt.Sprintf("TR-2025-%04d", 420+i),
			Counterparty:   cp.name,
			NotionalAmount: notional,
			Currency:       cp.ccy,
			TradeType:      "interest_rate_swap",
			FixedRate:      fixedRate,
			PaymentFreq:    frequencies[rng.Intn(len(frequencies))],
			ReferenceRate:  cp.ref,
			LegalEntity:    cp.entity,
			SettlementDate: settlement,
			MaturityDate:   settlement.AddDate(tenorYears, 0, 0),
			Status:         "active",
			CreatedBy:      "system",
			CreatedAt:      time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		})
	}

	writeJSONFile(filepath.Join(baseDir, "trade_records.json"), trades)
	fmt.Printf("Generated %d trade records -> trade_records.json\n", len(trades))

	sheetDir := filepath.Join(baseDir, "termsheets")
	if err := os.MkdirAll(sheetDir, 0o755); err != nil {
		panic(err)
	}

	count := 0
	for _, trade := range trades {
		notional := trade.NotionalAmount
		fixedRate := trade.FixedRate
		freq := trade.PaymentFreq
		settlement := trade.SettlementDate

		roll := rng.Float64()
		switch {
		case roll < 0.20:
			// Clean termsheet, matches the record exactly.
		case roll < 0.45:
			// Notional drift between 3% and 8%.
			notional = math.Round(notional * (1 + 0.03 + rng.Float64()*0.05))
		case roll < 0.65:
			// Rate drift between 5 and 25 basis points.
			fixedRate = math.Round((fixedRate+0.05+rng.Float64()*0.20)*100) / 100
		case roll < 0.85:
			// Settlement slips 3 to 12 days.
			settlement = settlement.AddDate(0, 0, 3+rng.Intn(10))
		default:
			// Wrong payment frequency.
			freq = frequencies[(indexOf(frequencies, freq)+1)%len(frequencies)]
		}

		body := fmt.Sprintf(`INTEREST RATE SWAP TERMSHEET

Trade Reference: %s
Counterparty: %s
Notional Amount: %s %s
Currency: %s
Fixed Rate: %.2f%%
Payment Frequency: %s
Reference Rate: %s
Settlement Date: %s
Maturity Date: %s
Legal Entity: %s
`,
			trade.TradeID,
			trade.Counterparty,
			formatMillions(notional),
			trade.Currency,
			trade.Currency,
			fixedRate,
			freq,
			trade.ReferenceRate,
			settlement.Format(domain.DateFormat),
			trade.MaturityDate.Format(domain.DateFormat),
			trade.LegalEntity,
		)

		path := filepath.Join(sheetDir, fmt.Sprintf("termsheet_%s.txt", trade.TradeID))
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			panic(err)
		}
		count++
	}

	fmt.Printf("Generated %d termsheets -> termsheets/\n", count)
	fmt.Println("Test data generation complete.")
}

func formatMillions(v float64) string {
	if v >= 1_000_000 && math.Mod(v, 1_000_000) == 0 {
		return fmt.Sprintf("$%g million", v/1_000_000)
	}
	return fmt.Sprintf("$%.2f", v)
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return 0
}

func writeJSONFile(path string, v any) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		panic(err)
	}
}

func findTestdataDir() string {
	// Look for the testdata directory relative to common locations.
	candidates := []string{
		"testdata",
		"./testdata",
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	// Fallback.
	return "testdata"
}
