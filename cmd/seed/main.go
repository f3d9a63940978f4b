package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/common"
	"github.com/cpenseur/CSIT314-Null/internal/config"
	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/db"
	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	"github.com/cpenseur/CSIT314-Null/internal/logging"
	"github.com/cpenseur/CSIT314-Null/internal/metrics"
	"github.com/cpenseur/CSIT314-Null/internal/models/dtos"
	"github.com/cpenseur/CSIT314-Null/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Seeds one account per role plus a small request history so a fresh
// database has something to look at: two requests, a view, a shortlist,
// an accepted match with a chat line, and a settled claim.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	database, err := db.InitPostgresORM(cfg.Database.DSN())
	if err != nil {
		logging.Fatal("connect database", "error", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		logging.Fatal("run migrations", "error", err)
	}

	cache, err := common.NewCache(cfg)
	if err != nil {
		logging.Fatal("init cache", "error", err)
	}
	defer cache.Close()

	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	userRepo := repositories.NewUserRepository(database)
	requestRepo := repositories.NewRequestRepository(database)
	engagementRepo := repositories.NewEngagementRepository(database)
	claimRepo := repositories.NewClaimRepository(database)
	disputeRepo := repositories.NewDisputeRepository(database)
	messageRepo := repositories.NewMessageRepository(database)

	identity := services.NewIdentityService(userRepo, reg)
	requests := services.NewRequestService(requestRepo, userRepo, reg)
	engagement := services.NewEngagementService(engagementRepo, nil, cache, reg, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
	matching := services.NewMatchingService(database, reg)
	chat := services.NewChatService(messageRepo, requestRepo)
	finance := services.NewFinanceService(claimRepo, disputeRepo, requestRepo, userRepo, reg)

	ctx := context.Background()
	dob := time.Date(1948, time.March, 11, 0, 0, 0, 0, time.UTC)

	admin, err := identity.Register(ctx, dtos.RegisterUserInput{
		Username: "admin",
		Password: "ChangeMe123!",
		Email:    "admin@example.org",
		FullName: "Platform Admin",
		Role:     constants.RoleAdmin,
	})
	if err != nil {
		logging.Fatal("seed admin", "error", err)
	}
	fmt.Printf("created %s user %s (%s)\n", admin.Role, admin.Username, admin.ID)

	csr, err := identity.Register(ctx, dtos.RegisterUserInput{
		Username:     "sarah.chen",
		Password:     "ChangeMe123!",
		Email:        "sarah.chen@citycare.example.org",
		FullName:     "Sarah Chen",
		Role:         constants.RoleCSR,
		CompanyName:  "CityCare Staffing",
		CompanyID:    "202412345K",
		CompanyEmail: "ops@citycare.example.org",
	})
	if err != nil {
		logging.Fatal("seed csr", "error", err)
	}
	fmt.Printf("created %s user %s (%s)\n", csr.Role, csr.Username, csr.ID)

	cv, err := identity.Register(ctx, dtos.RegisterUserInput{
		Username:     "marcus.tan",
		Password:     "ChangeMe123!",
		Email:        "marcus.tan@helpinghands.example.org",
		FullName:     "Marcus Tan",
		Role:         constants.RoleCV,
		CompanyName:  "Helping Hands SG",
		CompanyID:    "201998765W",
		CompanyEmail: "volunteers@helpinghands.example.org",
	})
	if err != nil {
		logging.Fatal("seed cv", "error", err)
	}
	fmt.Printf("created %s user %s (%s)\n", cv.Role, cv.Username, cv.ID)

	pin, err := identity.Register(ctx, dtos.RegisterUserInput{
		Username:    "lim.beehoon",
		Password:    "ChangeMe123!",
		Email:       "lim.beehoon@example.org",
		FullName:    "Lim Bee Hoon",
		DateOfBirth: &dob,
		HomeAddress: "Blk 214 Serangoon Ave 4 #05-112",
		Role:        constants.RolePIN,
	})
	if err != nil {
		logging.Fatal("seed pin", "error", err)
	}
	fmt.Printf("created %s user %s (%s)\n", pin.Role, pin.Username, pin.ID)

	if _, err := identity.SetPreference(ctx, pin.ID, "Hokkien", "female"); err != nil {
		logging.Fatal("seed preference", "error", err)
	}
	fmt.Printf("set preference for %s\n", pin.Username)

	dialysis, err := requests.Create(ctx, dtos.CreateRequestInput{
		PINID:           pin.ID,
		ServiceType:     constants.ServiceDialysisEscort,
		AppointmentDate: time.Now().AddDate(0, 0, 7),
		PickupLocation:  "Blk 214 Serangoon Ave 4",
		ServiceLocation: "NKF Dialysis Centre Serangoon",
		Description:     "Wheelchair user, needs help boarding the shuttle.",
	})
	if err != nil {
		logging.Fatal("seed request", "error", err)
	}
	fmt.Printf("created request %s (%s)\n", dialysis.RequestID, dialysis.ServiceType)

	followUp, err := requests.Duplicate(ctx, dialysis.ID, time.Now().AddDate(0, 0, 14))
	if err != nil {
		logging.Fatal("seed duplicate request", "error", err)
	}
	fmt.Printf("created request %s (duplicate of %s)\n", followUp.RequestID, dialysis.RequestID)

	if _, err := engagement.RecordView(ctx, dialysis.ID, cv.ID); err != nil {
		logging.Fatal("seed view", "error", err)
	}
	if _, err := engagement.RecordShortlist(ctx, dialysis.ID, csr.ID); err != nil {
		logging.Fatal("seed shortlist", "error", err)
	}
	fmt.Printf("logged a view and a shortlist on %s\n", dialysis.RequestID)

	if _, err := matching.Offer(ctx, dialysis.ID, cv.ID); err != nil {
		logging.Fatal("seed offer", "error", err)
	}
	if _, err := matching.Accept(ctx, dialysis.ID); err != nil {
		logging.Fatal("seed accept", "error", err)
	}
	fmt.Printf("matched %s to %s\n", cv.Username, dialysis.RequestID)

	if _, err := chat.Post(ctx, dialysis.ID, cv.ID, "Hi, I'll be at the void deck at 8:15am."); err != nil {
		logging.Fatal("seed message", "error", err)
	}
	fmt.Printf("posted a chat message on %s\n", dialysis.RequestID)

	claim, err := finance.SubmitClaim(ctx, dtos.SubmitClaimInput{
		RequestID: dialysis.ID,
		CVID:      cv.ID,
		Items: []dtos.ClaimItemInput{
			{
				Category:      "Transport",
				DateOfExpense: time.Now().AddDate(0, 0, -1),
				TotalAmount:   decimal.NewFromFloat(12.50),
				PaymentMethod: "EZ-Link",
				Description:   "Shuttle fare, both ways",
			},
		},
	})
	if err != nil {
		logging.Fatal("seed claim", "error", err)
	}
	if _, err := finance.ApproveAsPIN(ctx, claim.ID, pin.ID); err != nil {
		logging.Fatal("seed pin approval", "error", err)
	}
	if _, err := finance.ApproveAsCSR(ctx, claim.ID, csr.ID); err != nil {
		logging.Fatal("seed csr approval", "error", err)
	}
	fmt.Printf("settled claim %s on %s\n", claim.ID, dialysis.RequestID)

	fmt.Println("seed complete")
}
