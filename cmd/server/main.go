package main

import (
	"log"
	"os"
	"stage-entry-api/config"
	"stage-entry-api/internal/admin"
	"stage-entry-api/internal/auth"
	"stage-entry-api/internal/deadline"
	"stage-entry-api/internal/entry"
	"stage-entry-api/internal/logs"
	"stage-entry-api/internal/selection"
	"stage-entry-api/internal/stagesync"
	"stage-entry-api/internal/submission"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	logService := &logs.LogService{DB: db}
	userService := &auth.AuthService{DB: db, CFG: &cfg}
	auth.RegisterRoutes(r, userService, logService)

	entryService := &entry.EntryService{DB: db}
	deadlineService := &deadline.DeadlineService{DB: db}
	deadline.RegisterRoutes(r, deadlineService)

	syncService := &stagesync.SyncService{Entries: entryService}
	submissionService := &submission.SubmissionService{
		DB:        db,
		Entries:   entryService,
		Deadlines: deadlineService,
		Sync:      syncService,
		CFG:       &cfg,
	}
	submission.RegisterRoutes(r, submissionService, logService)

	selectionService := &selection.SelectionService{DB: db}
	selection.RegisterRoutes(r, selectionService, logService)

	adminService := &admin.AdminService{
		DB:         db,
		Entries:    entryService,
		Selections: selectionService,
		CFG:        &cfg,
	}
	admin.RegisterRoutes(r, adminService, logService)

	// Cloud Run expects plain HTTP on $PORT, bound to 0.0.0.0.
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on 0.0.0.0:%s ...", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}
