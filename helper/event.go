package helper

import (
	"log"
	"time"

	"event_hub/database"
	"event_hub/model"

	"github.com/go-co-op/gocron/v2"
)

var eventScheduler gocron.Scheduler

// AutoDeactivatePastEvents flips is_active off for events whose date has
// passed so they stop appearing in public listings.
func AutoDeactivatePastEvents() {
	log.Println("[CRON] AutoDeactivatePastEvents triggered")

	res := database.DB.Model(&model.Event{}).
		Where("is_active = ? AND event_date < ?", true, time.Now()).
		Update("is_active", false)
	if res.Error != nil {
		log.Printf("failed to deactivate past events: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("deactivated %d past event(s)", res.RowsAffected)
	}
}

func StartEventStatusScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	eventScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 5, 0),
			),
		),
		gocron.NewTask(AutoDeactivatePastEvents),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("event status scheduler started (00:05)")
}

func StopEventStatusScheduler() {
	if eventScheduler != nil {
		if err := eventScheduler.Shutdown(); err != nil {
			log.Printf("failed to stop event scheduler: %v", err)
		}
	}
}
