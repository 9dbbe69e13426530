package jobs

import (
	"context"

	"lumen/config"
	"lumen/internal/controllers"
	"lumen/internal/database"
	"lumen/internal/repositories"
	"lumen/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	controllers controllers.Controllers,
	repos repositories.Repository,
	db database.DB,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	snapshotJob := NewOccupancySnapshotJob(controllers.Admin, repos.ActivityLog, db, Hourly)
	if err := schedulerService.AddJob(snapshotJob); err != nil {
		return log.Err("failed to register occupancy snapshot job", err)
	}
	log.Info("Registered jobs", "count", schedulerService.GetJobCount())

	// Record a snapshot at boot so the activity feed does not wait an hour.
	if err := schedulerService.RunJobNow(context.Background(), snapshotJob.Name()); err != nil {
		log.Er("failed to take startup occupancy snapshot", err)
	}

	return nil
}
