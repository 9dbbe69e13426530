package jobs

import (
	"context"
	"fmt"

	adminController "lumen/internal/controllers/admin"
	"lumen/internal/database"
	. "lumen/internal/models"
	"lumen/internal/repositories"
	"lumen/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type StatsSource interface {
	Stats(ctx context.Context) (*adminController.Stats, error)
}

// OccupancySnapshotJob appends the current dashboard figures to the activity feed.
type OccupancySnapshotJob struct {
	stats        StatsSource
	activityRepo repositories.ActivityLogRepository
	db           database.DB
	log          logger.Logger
	schedule     services.Schedule
}

func NewOccupancySnapshotJob(
	stats StatsSource,
	activityRepo repositories.ActivityLogRepository,
	db database.DB,
	schedule services.Schedule,
) *OccupancySnapshotJob {
	log := logger.New("occupancySnapshotJob")
	log.Info("Creating new occupancy snapshot job", "schedule", schedule)

	return &OccupancySnapshotJob{
		stats:        stats,
		activityRepo: activityRepo,
		db:           db,
		log:          log,
		schedule:     schedule,
	}
}

func (j *OccupancySnapshotJob) Name() string {
	return "HourlyOccupancySnapshot"
}

func (j *OccupancySnapshotJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	stats, err := j.stats.Stats(ctx)
	if err != nil {
		return log.Err("failed to compute stats", err)
	}

	entry := &ActivityLog{
		Type:    ActivityTypeSnapshot,
		Message: SnapshotMessage(stats),
	}
	if err := j.activityRepo.Create(ctx, j.db.SQL, entry); err != nil {
		return log.Err("failed to record snapshot", err)
	}

	log.Info("Occupancy snapshot recorded", "occupancyRate", stats.OccupancyRate)
	return nil
}

func (j *OccupancySnapshotJob) Schedule() services.Schedule {
	return j.schedule
}

func SnapshotMessage(stats *adminController.Stats) string {
	return fmt.Sprintf(
		"Occupancy %d%% (%d/%d rooms), revenue %s",
		stats.OccupancyRate,
		stats.OccupiedRooms,
		stats.TotalRooms,
		stats.TotalRevenue.StringFixed(2),
	)
}
