package adminController

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"

	"lumen/internal/database"
	. "lumen/internal/models"
	"lumen/internal/repositories"
	"lumen/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200

	SensorPoints      = 13
	WaterMetric       = "Water Consumption (Gallons)"
	TemperatureMetric = "Temperature (°F)"

	defaultRoomKey = "default"
)

type Stats struct {
	TotalRooms    int64           `json:"totalRooms"`
	OccupiedRooms int64           `json:"occupiedRooms"`
	OccupancyRate int             `json:"occupancyRate"`
	ActiveGuests  int64           `json:"activeGuests"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	ActiveAlerts  int64           `json:"activeAlerts"`
}

type RoomDetails struct {
	ID         string `json:"id"`
	SensorType string `json:"sensorType"`
}

type AnomalyReport struct {
	RoomDetails RoomDetails              `json:"roomDetails"`
	GraphData   []services.SensorReading `json:"graphData"`
	MetricLabel string                   `json:"metricLabel"`
	AIAnalysis  services.IoTAnalysis     `json:"aiAnalysis"`
}

type AdminControllerInterface interface {
	Stats(ctx context.Context) (*Stats, error)
	Anomalies(ctx context.Context, roomID string) (*AnomalyReport, error)
	Activity(ctx context.Context, limit int) ([]*ActivityLog, error)
}

type AdminController struct {
	roomRepo     repositories.RoomRepository
	bookingRepo  repositories.BookingRepository
	activityRepo repositories.ActivityLogRepository
	anomalyCache repositories.AnomalyCacheRepository
	ai           services.AIGateway
	db           database.DB
	log          logger.Logger
}

func New(repos repositories.Repository, services services.Service, db database.DB) AdminControllerInterface {
	return &AdminController{
		roomRepo:     repos.Room,
		bookingRepo:  repos.Booking,
		activityRepo: repos.ActivityLog,
		anomalyCache: repos.AnomalyCache,
		ai:           services.AI,
		db:           db,
		log:          logger.New("adminController"),
	}
}

func (ac *AdminController) Stats(ctx context.Context) (*Stats, error) {
	log := ac.log.TraceFromContext(ctx).Function("Stats")

	totalRooms, err := ac.roomRepo.Count(ctx, ac.db.SQL)
	if err != nil {
		return nil, log.Err("failed to count rooms", err)
	}

	occupiedRooms, err := ac.roomRepo.CountByStatus(ctx, ac.db.SQL, RoomStatusOccupied)
	if err != nil {
		return nil, log.Err("failed to count occupied rooms", err)
	}

	activeAlerts, err := ac.roomRepo.CountByStatus(ctx, ac.db.SQL, RoomStatusMaintenance)
	if err != nil {
		return nil, log.Err("failed to count rooms under maintenance", err)
	}

	activeGuests, err := ac.bookingRepo.CountByStatus(ctx, ac.db.SQL, BookingStatusCheckedIn)
	if err != nil {
		return nil, log.Err("failed to count checked in bookings", err)
	}

	revenue, err := ac.bookingRepo.SumRevenueByStatus(ctx, ac.db.SQL, BookingStatusConfirmed)
	if err != nil {
		return nil, log.Err("failed to sum revenue", err)
	}

	return &Stats{
		TotalRooms:    totalRooms,
		OccupiedRooms: occupiedRooms,
		OccupancyRate: OccupancyRate(occupiedRooms, totalRooms),
		ActiveGuests:  activeGuests,
		TotalRevenue:  revenue,
		ActiveAlerts:  activeAlerts,
	}, nil
}

// Anomalies returns a mocked sensor series for the room along with the AI's
// reading of it. The AI result is cached per room.
func (ac *AdminController) Anomalies(ctx context.Context, roomID string) (*AnomalyReport, error) {
	log := ac.log.TraceFromContext(ctx).Function("Anomalies")

	metric, series := SensorSeries(roomID)
	report := &AnomalyReport{
		RoomDetails: RoomDetails{ID: roomID, SensorType: strings.Fields(metric)[0]},
		GraphData:   series,
		MetricLabel: metric,
	}

	cacheKey := roomID
	if cacheKey == "" {
		cacheKey = defaultRoomKey
	}

	var cached services.IoTAnalysis
	found, err := ac.anomalyCache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Debug("Anomaly cache unavailable", "roomKey", cacheKey, "error", err)
	}
	if found {
		report.AIAnalysis = cached
		return report, nil
	}

	report.AIAnalysis = ac.ai.AnalyzeIoTData(ctx, services.IoTPayload{Metric: metric, Data: series})
	if report.AIAnalysis == services.FallbackIoTAnalysis() {
		return report, nil
	}

	if err := ac.anomalyCache.Set(ctx, cacheKey, report.AIAnalysis); err != nil {
		log.Debug("Failed to cache anomaly analysis", "roomKey", cacheKey, "error", err)
	}

	return report, nil
}

func (ac *AdminController) Activity(ctx context.Context, limit int) ([]*ActivityLog, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}

	return ac.activityRepo.GetRecent(ctx, ac.db.SQL, limit)
}

// OccupancyRate is the rounded percentage of occupied rooms, 0 when there are none.
func OccupancyRate(occupied, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(occupied) / float64(total) * 100))
}

// SensorSeries builds the 13 hourly readings for a room. An empty id or an even
// first byte yields the water leak scenario, otherwise the overheating one.
// Noise is seeded from the room id so a room always gets the same series.
func SensorSeries(roomID string) (string, []services.SensorReading) {
	hash := fnv.New64a()
	hash.Write([]byte(roomID))
	seed := hash.Sum64()
	noise := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	series := make([]services.SensorReading, SensorPoints)

	if roomID == "" || roomID[0]%2 == 0 {
		for i := range series {
			value := float64(40 + noise.IntN(20))
			switch i {
			case 3:
				value = 450
			case 4:
				value = 200
			}
			series[i] = services.SensorReading{Time: fmt.Sprintf("%d:00", i), Value: value, Baseline: 50}
		}
		return WaterMetric, series
	}

	for i := range series {
		value := float64(68 + noise.IntN(4))
		switch i {
		case 9:
			value = 145
		case 10:
			value = 110
		}
		series[i] = services.SensorReading{Time: fmt.Sprintf("%d:00", i), Value: value, Baseline: 70}
	}
	return TemperatureMetric, series
}
