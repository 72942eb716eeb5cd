package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/veritrade/validator/internal/api"
	"github.com/veritrade/validator/internal/domain"
	"github.com/veritrade/validator/internal/metrics"
	"github.com/veritrade/validator/internal/report"
	"github.com/veritrade/validator/internal/repository"
	"github.com/veritrade/validator/internal/session"
)

func main() {
	// A missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "veritrade.db"
	}

	log.Printf("Initializing database at %s", dbPath)
	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	// Create repositories.
	tradeRepo := repository.NewTradeRepo(db)
	sessRepo := repository.NewSessionRepo(db)
	termRepo := repository.NewTermSheetRepo(db)
	discRepo := repository.NewDiscrepancyRepo(db)
	decRepo := repository.NewDecisionRepo(db)

	// Create services.
	m := metrics.New()
	svc := session.NewService(tradeRepo, sessRepo, termRepo, discRepo, decRepo, m)
	reports := report.NewBuilder(tradeRepo, sessRepo, discRepo, decRepo)

	// Seed trade records if DB is empty.
	count, err := tradeRepo.Count()
	if err != nil {
		log.Fatalf("Failed to count trade records: %v", err)
	}
	if count == 0 {
		log.Println("Database is empty, seeding trade records from testdata...")
		if err := seedTrades(tradeRepo); err != nil {
			log.Printf("WARNING: Failed to seed trade records: %v", err)
		}
	} else {
		log.Printf("Database already has %d trade records, skipping seed", count)
	}

	// Create router.
	router := api.NewRouter(tradeRepo, sessRepo, discRepo, svc, reports)

	log.Printf("VeriTrade Termsheet Validation Engine")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("API base: http://localhost:%s/api/v1", port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /api/v1/trades")
	log.Printf("  GET    /api/v1/trades")
	log.Printf("  GET    /api/v1/trades/{tradeID}")
	log.Printf("  POST   /api/v1/sessions")
	log.Printf("  GET    /api/v1/sessions")
	log.Printf("  GET    /api/v1/sessions/{id}")
	log.Printf("  POST   /api/v1/sessions/{id}/validate")
	log.Printf("  GET    /api/v1/sessions/{id}/discrepancies")
	log.Printf("  POST   /api/v1/sessions/{id}/decision")
	log.Printf("  GET    /api/v1/sessions/{id}/report")
	log.Printf("  GET    /api/v1/discrepancies")
	log.Printf("  GET    /api/v1/discrepancies/summary")
	log.Printf("  GET    /metrics")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func seedTrades(repo *repository.TradeRepo) error {
	// Try multiple possible locations for testdata.
	candidates := []string{
		"testdata/trade_records.json",
		filepath.Join(".", "testdata", "trade_records.json"),
	}

	// Also try to find relative to the executable.
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "testdata", "trade_records.json"),
			filepath.Join(dir, "..", "..", "testdata", "trade_records.json"),
		)
	}

	var data []byte
	var loadErr error
	for _, path := range candidates {
		data, loadErr = os.ReadFile(path)
		if loadErr == nil {
			log.Printf("Loaded trade records from %s", path)
			break
		}
	}
	if loadErr != nil {
		return fmt.Errorf("could not find trade_records.json in any candidate path: %w", loadErr)
	}

	var trades []domain.TradeRecord
	if err := json.Unmarshal(data, &trades); err != nil {
		return fmt.Errorf("unmarshal trade records: %w", err)
	}

	inserted, err := repo.BulkInsert(trades)
	if err != nil {
		return fmt.Errorf("bulk insert: %w", err)
	}

	log.Printf("Seeded %d trade records (out of %d in file)", inserted, len(trades))
	return nil
}
