package repositories

import (
	"context"
	"testing"
	"time"

	"lumen/internal/database"
	. "lumen/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	return setupTestDBWithConfig(t, &gorm.Config{SkipDefaultTransaction: true})
}

func setupTestDBWithConfig(t *testing.T, config *gorm.Config) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), config)
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestBookingRepository_SumRevenueByStatus_FiltersConfirmed(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewBookingRepository()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(rooms\.price\), 0\) AS total FROM "bookings" JOIN rooms ON rooms\.id = bookings\.room_id .*WHERE bookings\.status = \$1`).
		WithArgs(string(BookingStatusConfirmed)).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("450.00"))

	total, err := repo.SumRevenueByStatus(context.Background(), gormDB, BookingStatusConfirmed)

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("450").Equal(total))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_SumRevenueByStatus_Empty(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewBookingRepository()

	mock.ExpectQuery(`SUM\(rooms\.price\)`).
		WithArgs(string(BookingStatusConfirmed)).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("0"))

	total, err := repo.SumRevenueByStatus(context.Background(), gormDB, BookingStatusConfirmed)

	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_CountByStatus(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewBookingRepository()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE status = \$1`).
		WithArgs(string(BookingStatusCheckedIn)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByStatus(context.Background(), gormDB, BookingStatusCheckedIn)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_CountByStatus(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewRoomRepository()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "rooms" WHERE status = \$1`).
		WithArgs(string(RoomStatusOccupied)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByStatus(context.Background(), gormDB, RoomStatusOccupied)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_GetAvailable_OrdersByNumber(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewRoomRepository()

	rows := sqlmock.NewRows([]string{"id", "number", "type", "price", "status"}).
		AddRow(uuid.New(), "101", "SINGLE", "120.00", "AVAILABLE").
		AddRow(uuid.New(), "102", "SUITE", "330.00", "AVAILABLE")

	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE status = \$1 .*ORDER BY number ASC`).
		WithArgs(string(RoomStatusAvailable)).
		WillReturnRows(rows)

	rooms, err := repo.GetAvailable(context.Background(), gormDB)

	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].Number)
	assert.Equal(t, RoomTypeSuite, rooms[1].Type)
	assert.True(t, decimal.RequireFromString("330").Equal(rooms[1].Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_Delete_NotFound(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewRoomRepository()

	mock.ExpectExec(`UPDATE "rooms" SET "deleted_at"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), gormDB, uuid.New())

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_Create_DuplicateNumber(t *testing.T) {
	gormDB, mock := setupTestDBWithConfig(t, &gorm.Config{SkipDefaultTransaction: true, TranslateError: true})
	repo := NewRoomRepository()

	mock.ExpectExec(`INSERT INTO "rooms"`).
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			Message:        `duplicate key value violates unique constraint "idx_rooms_number"`,
			ConstraintName: "idx_rooms_number",
		})

	err := repo.Create(context.Background(), gormDB, &Room{Number: "101", Price: decimal.NewFromInt(120)})

	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewRoomRepository()

	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	room, err := repo.GetByID(context.Background(), gormDB, uuid.New())

	assert.Nil(t, room)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRequestRepository_DeleteAll_SoftDeletes(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewServiceRequestRepository()

	mock.ExpectExec(`UPDATE "service_requests" SET "deleted_at"=\$1 WHERE 1 = 1`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteAll(context.Background(), gormDB)

	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRequestRepository_GetAll_FiltersByType(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewServiceRequestRepository()

	mock.ExpectQuery(`SELECT \* FROM "service_requests" WHERE type = \$1 .*ORDER BY created_at DESC`).
		WithArgs(string(ServiceTypeFood)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type"}))

	serviceType := ServiceTypeFood
	requests, err := repo.GetAll(context.Background(), gormDB, &serviceType)

	require.NoError(t, err)
	assert.Empty(t, requests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityLogRepository_GetRecent(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewActivityLogRepository()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "message", "type", "timestamp"}).
		AddRow(uuid.New(), "New Booking: Room 101", "BOOKING", now).
		AddRow(uuid.New(), "Blocked Booking Attempt: Eve", "ALERT", now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT \* FROM "activity_logs" ORDER BY timestamp DESC LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(rows)

	entries, err := repo.GetRecent(context.Background(), gormDB, 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActivityTypeBooking, entries[0].Type)
	assert.Equal(t, ActivityTypeAlert, entries[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnomalyCacheRepository_NilClient(t *testing.T) {
	repo := NewAnomalyCacheRepository(nil)

	var result map[string]any
	found, err := repo.Get(context.Background(), "room-1", &result)
	assert.False(t, found)
	assert.Error(t, err)

	assert.Error(t, repo.Set(context.Background(), "room-1", map[string]any{"anomalyDetected": true}))
	assert.ErrorIs(t, repo.Invalidate(context.Background(), "room-1"), database.ErrCacheUnavailable)
}
