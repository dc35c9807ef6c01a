// Command remind-deadlines runs one deadline reminder sweep and exits.
// The API process runs the same sweep on a cron schedule; this binary
// exists for manual runs and external schedulers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"application-tracking-api/config"
	"application-tracking-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	var asOf string
	flag.StringVar(&asOf, "as-of", "", "evaluate deadlines as of this date (YYYY-MM-DD, default now)")
	flag.Parse()

	now := time.Now()
	if asOf != "" {
		parsed, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			log.Fatalf("invalid -as-of date '%s': %v", asOf, err)
		}
		now = parsed
	}

	job := services.NewDeadlineReminderService(nil)
	summary, err := job.RunOnce(context.Background(), now)
	if err != nil {
		log.Fatalf("deadline reminder sweep failed: %v", err)
	}

	fmt.Printf("Scanned: %d scholarships, %d colleges\n", summary.ScholarshipsScanned, summary.CollegesScanned)
	fmt.Printf("Reminders created: %d (already notified: %d, emails sent: %d)\n",
		summary.RemindersCreated,
		summary.AlreadyNotified,
		summary.EmailsSent,
	)
}
