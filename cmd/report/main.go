package main

import (
	"context"
	"fmt"
	"log"

	"github.com/cpenseur/CSIT314-Null/internal/config"
	"github.com/cpenseur/CSIT314-Null/internal/db"
	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	"github.com/cpenseur/CSIT314-Null/internal/logging"
)

// Prints the two admin aggregates to stdout. Runs against the live
// database over the sqlx handle; nothing here writes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	if err := db.InitPostgres(cfg.Database.DSN()); err != nil {
		logging.Fatal("connect database", "error", err)
	}

	ctx := context.Background()
	reports := repositories.NewReportRepository(db.DB)

	engagement, err := reports.EngagementSummary(ctx)
	if err != nil {
		logging.Fatal("run engagement report", "error", err)
	}
	fmt.Println("reference        service           status     views  shortlists")
	for _, row := range engagement {
		fmt.Printf("%-16s %-17s %-10s %5d  %10d\n",
			row.RequestID, row.ServiceType, row.Status, row.ViewCount, row.ShortlistCount)
	}

	claims, err := reports.ClaimTotals(ctx)
	if err != nil {
		logging.Fatal("run claim report", "error", err)
	}
	fmt.Println()
	fmt.Println("reference        claims  total      settled")
	for _, row := range claims {
		fmt.Printf("%-16s %6d  %9s  %7d\n",
			row.RequestID, row.ClaimCount, row.TotalAmount.StringFixed(2), row.SettledCount)
	}
}
