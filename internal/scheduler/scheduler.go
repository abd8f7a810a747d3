package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"weather-session/internal/session"
)

// Scheduler periodically refreshes the weather summaries of all saved
// cities so the city list stays warm between user visits.
type Scheduler struct {
	scheduler *gocron.Scheduler
	ctrl      *session.Controller
	interval  time.Duration
}

func New(ctrl *session.Controller, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		ctrl:      ctrl,
		interval:  interval,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		cities := s.ctrl.Cities()
		if len(cities) == 0 {
			return
		}
		log.Printf("scheduler: refreshing weather for %d saved cities", len(cities))
		s.ctrl.RefreshCityList()
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
