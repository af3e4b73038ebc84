package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/scottnuma/student-worksessions/api"
	"github.com/scottnuma/student-worksessions/db"
	"github.com/scottnuma/student-worksessions/janitor"
	"github.com/scottnuma/student-worksessions/services/holidayfetcher"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Initialize database connection
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	// Get maintenance interval from environment variable (default to 5 minutes)
	maintenanceInterval := 300
	if intervalStr := os.Getenv("JANITOR_INTERVAL"); intervalStr != "" {
		if interval, err := strconv.Atoi(intervalStr); err == nil {
			maintenanceInterval = interval
		}
	}

	// Load the public holiday calendar used to annotate the feed
	country := os.Getenv("HOLIDAY_COUNTRY")
	if country == "" {
		country = "US"
	}
	holidays := holidayfetcher.NewCalendar(country)
	if err := holidays.Refresh(); err != nil {
		log.Printf("Warning: could not load public holidays: %v", err)
	}

	// Create the maintenance janitor
	j := janitor.NewJanitor(db.Store{})
	ticker := time.NewTicker(time.Duration(maintenanceInterval) * time.Second)
	defer ticker.Stop()

	// Set up API routes
	router := api.NewRouter(db.Store{}, j, holidays)

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	// Start the API server in a goroutine
	go func() {
		log.Printf("Starting API server on %s", listenAddr)
		if err := http.ListenAndServe(listenAddr, router); err != nil {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	log.Printf("Starting maintenance janitor (interval: %d seconds)", maintenanceInterval)

	// Initial maintenance pass
	if err := j.Run(); err != nil {
		log.Printf("Error running maintenance: %v", err)
	}

	// Continuous maintenance
	for range ticker.C {
		if err := j.Run(); err != nil {
			log.Printf("Error running maintenance: %v", err)
		}
	}
}
