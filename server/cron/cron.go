package cron

import (
	"time"

	"github.com/go-co-op/gocron"
)

const DEFAULT_TIME_ZONE = "America/Toronto"

// NewScheduler returns a scheduler running in timeZone, falling back to UTC
// when timeZone can't be loaded. Job tags are unique per scheduler.
func NewScheduler(timeZone string) *gocron.Scheduler {
	if timeZone == "" {
		timeZone = DEFAULT_TIME_ZONE
	}

	location, err := time.LoadLocation(timeZone)
	if err != nil {
		location = time.UTC
	}

	scheduler := gocron.NewScheduler(location)
	scheduler.TagsUnique()
	return scheduler
}
