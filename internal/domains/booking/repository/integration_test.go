//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	otelMocks "hotelier/infras/otel/mocks"
	"hotelier/infras/postgres"
	"hotelier/internal/domains/booking/model"
	"hotelier/internal/domains/booking/repository"
	guestModel "hotelier/internal/domains/guest/model"
	guestRepository "hotelier/internal/domains/guest/repository"
	roomModel "hotelier/internal/domains/room/model"
	roomRepository "hotelier/internal/domains/room/repository"
	"hotelier/shared/constant"
	gModel "hotelier/shared/model"
	gRepo "hotelier/shared/repository"
	"hotelier/shared/timezone"
)

// setupPostgres starts a PostgreSQL container, applies the schema migration
// and returns a ready connection.
func setupPostgres(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "hotelier_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=hotelier_test sslmode=disable", host, port.Port())

	var db *sqlx.DB
	require.Eventually(t, func() bool {
		db, err = sqlx.Connect("postgres", dsn)

		return err == nil && db.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	migration, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "postgres", "000001_init.up.sql"))
	require.NoError(t, err, "failed to read migration file")

	_, err = db.Exec(string(migration))
	require.NoError(t, err, "failed to apply migration")

	return &postgres.Connection{Read: db, Write: db}
}

func metadata() gModel.Metadata {
	return gModel.Metadata{
		CreatedAt:  timezone.Now(),
		ModifiedAt: timezone.Now(),
		CreatedBy:  constant.SystemActor,
		ModifiedBy: constant.SystemActor,
	}
}

func seedRoom(t *testing.T, conn *postgres.Connection, status string) roomModel.Room {
	t.Helper()

	room := roomModel.Room{
		ID:        uuid.NewString(),
		Number:    uuid.NewString()[:8],
		Type:      roomModel.TypeSingle,
		Price:     100,
		Status:    status,
		Amenities: pq.StringArray{"WiFi"},
		Capacity:  1,
		Metadata:  metadata(),
	}

	repo := roomRepository.New(conn, otelMocks.NewOtel())
	require.NoError(t, repo.Insert(context.Background(), room))

	return room
}

func seedGuest(t *testing.T, conn *postgres.Connection, guest guestModel.Guest) guestModel.Guest {
	t.Helper()

	guest.ID = uuid.NewString()
	guest.Metadata = metadata()

	repo := guestRepository.New(conn, otelMocks.NewOtel())
	require.NoError(t, repo.Insert(context.Background(), guest))

	return guest
}

func newBooking(guestID, roomID, checkIn, checkOut, status string) model.Booking {
	in, _ := timezone.Parse(constant.DateOnlyFormat, checkIn)
	out, _ := timezone.Parse(constant.DateOnlyFormat, checkOut)

	return model.Booking{
		ID:            uuid.NewString(),
		GuestID:       guestID,
		RoomID:        roomID,
		CheckIn:       in,
		CheckOut:      out,
		Status:        status,
		PaymentStatus: model.PaymentStatusPending,
		Metadata:      metadata(),
	}
}

func roomStatus(t *testing.T, conn *postgres.Connection, roomID string) string {
	t.Helper()

	var status string
	require.NoError(t, conn.Read.Get(&status, "SELECT status FROM rooms WHERE id = $1", roomID))

	return status
}

func TestBookingRepository_CreateReservingRoom(t *testing.T) {
	conn := setupPostgres(t)
	repo := repository.New(conn, otelMocks.NewOtel())
	ctx := context.Background()

	room := seedRoom(t, conn, roomModel.StatusAvailable)
	guest := seedGuest(t, conn, guestModel.Guest{
		Name:  "John Smith",
		Email: "john.smith@example.com",
		Phone: "+1234567890",
	})

	booking := newBooking(guest.ID, room.ID, "2024-01-15", "2024-01-20", model.StatusConfirmed)
	require.NoError(t, repo.CreateReservingRoom(ctx, booking))
	assert.Equal(t, roomModel.StatusOccupied, roomStatus(t, conn, room.ID), "expected room to be occupied")

	t.Run("overlap is rejected", func(t *testing.T) {
		overlapping := newBooking(guest.ID, room.ID, "2024-01-18", "2024-01-22", model.StatusConfirmed)
		err := repo.CreateReservingRoom(ctx, overlapping)
		assert.ErrorIs(t, err, repository.ErrRoomUnavailable, "room is occupied after the first reservation")
	})

	t.Run("exclusion constraint backs up the check", func(t *testing.T) {
		overlapping := newBooking(guest.ID, room.ID, "2024-01-18", "2024-01-22", model.StatusConfirmed)
		err := repo.Insert(ctx, overlapping)
		require.Error(t, err)
		assert.True(t, gRepo.IsExclusionViolation(err), "expected exclusion violation, got: %v", err)
	})

	t.Run("conflict check under the lock", func(t *testing.T) {
		free := seedRoom(t, conn, roomModel.StatusAvailable)
		existing := newBooking(guest.ID, free.ID, "2024-01-15", "2024-01-20", model.StatusConfirmed)
		require.NoError(t, repo.Insert(ctx, existing))

		overlapping := newBooking(guest.ID, free.ID, "2024-01-18", "2024-01-22", model.StatusConfirmed)
		err := repo.CreateReservingRoom(ctx, overlapping)
		assert.ErrorIs(t, err, repository.ErrBookingConflict)
	})

	t.Run("adjacent stay does not conflict", func(t *testing.T) {
		adjacent := seedRoom(t, conn, roomModel.StatusAvailable)
		first := newBooking(guest.ID, adjacent.ID, "2024-02-10", "2024-02-15", model.StatusCheckedOut)
		require.NoError(t, repo.Insert(ctx, first))

		next := newBooking(guest.ID, adjacent.ID, "2024-02-15", "2024-02-20", model.StatusConfirmed)
		assert.NoError(t, repo.CreateReservingRoom(ctx, next))
	})
}

func TestBookingRepository_FindConflict(t *testing.T) {
	conn := setupPostgres(t)
	repo := repository.New(conn, otelMocks.NewOtel())
	ctx := context.Background()

	room := seedRoom(t, conn, roomModel.StatusAvailable)
	guest := seedGuest(t, conn, guestModel.Guest{
		Name:  "Emma Johnson",
		Email: "emma.j@example.com",
		Phone: "+1987654321",
	})

	existing := newBooking(guest.ID, room.ID, "2024-01-15", "2024-01-20", model.StatusConfirmed)
	require.NoError(t, repo.Insert(ctx, existing))

	interval := func(in, out string) model.Interval {
		b := newBooking("", "", in, out, "")

		return b.Interval()
	}

	t.Run("without an exclusion id", func(t *testing.T) {
		conflict, err := repo.FindConflict(ctx, room.ID, interval("2024-01-18", "2024-01-22"), constant.Empty)
		require.NoError(t, err, "empty exclusion must not reach the uuid bind")
		require.NotNil(t, conflict)
		assert.Equal(t, existing.ID, conflict.ID)
	})

	t.Run("excluding the booking itself", func(t *testing.T) {
		conflict, err := repo.FindConflict(ctx, room.ID, interval("2024-01-18", "2024-01-22"), existing.ID)
		require.NoError(t, err)
		assert.Nil(t, conflict)
	})

	t.Run("half-open boundary", func(t *testing.T) {
		conflict, err := repo.FindConflict(ctx, room.ID, interval("2024-01-20", "2024-01-25"), constant.Empty)
		require.NoError(t, err)
		assert.Nil(t, conflict, "stay starting at check-out must not conflict")
	})
}

func TestBookingRepository_DeleteReleasingRoom(t *testing.T) {
	conn := setupPostgres(t)
	repo := repository.New(conn, otelMocks.NewOtel())
	ctx := context.Background()

	guest := seedGuest(t, conn, guestModel.Guest{
		Name:  "Michael Chen",
		Email: "m.chen@example.com",
		Phone: "+1122334455",
	})

	t.Run("active booking releases the room", func(t *testing.T) {
		room := seedRoom(t, conn, roomModel.StatusAvailable)
		booking := newBooking(guest.ID, room.ID, "2024-03-01", "2024-03-05", model.StatusConfirmed)
		require.NoError(t, repo.CreateReservingRoom(ctx, booking))
		require.Equal(t, roomModel.StatusOccupied, roomStatus(t, conn, room.ID))

		require.NoError(t, repo.DeleteReleasingRoom(ctx, booking))
		assert.Equal(t, roomModel.StatusAvailable, roomStatus(t, conn, room.ID))
	})

	t.Run("checked-out booking leaves the room alone", func(t *testing.T) {
		room := seedRoom(t, conn, roomModel.StatusMaintenance)
		booking := newBooking(guest.ID, room.ID, "2024-03-01", "2024-03-05", model.StatusCheckedOut)
		require.NoError(t, repo.Insert(ctx, booking))

		require.NoError(t, repo.DeleteReleasingRoom(ctx, booking))
		assert.Equal(t, roomModel.StatusMaintenance, roomStatus(t, conn, room.ID))
	})
}

func TestGuestSchema_AcceptsValidatorBounds(t *testing.T) {
	conn := setupPostgres(t)

	t.Run("guest without id proof", func(t *testing.T) {
		guest := seedGuest(t, conn, guestModel.Guest{
			Name:  "No Proof",
			Email: "no.proof@example.com",
			Phone: "+1000000000",
		})
		assert.NotEmpty(t, guest.ID)
	})

	t.Run("columns fit the validator maximums", func(t *testing.T) {
		long := func(n int) string {
			b := make([]byte, n)
			for i := range b {
				b[i] = 'x'
			}

			return string(b)
		}

		room := roomModel.Room{
			ID:       uuid.NewString(),
			Number:   long(50),
			Type:     roomModel.TypeSingle,
			Price:    100,
			Status:   roomModel.StatusAvailable,
			Capacity: 1,
			Metadata: metadata(),
		}
		require.NoError(t, roomRepository.New(conn, otelMocks.NewOtel()).Insert(context.Background(), room))

		guest := seedGuest(t, conn, guestModel.Guest{
			Name:          "Long Fields",
			Email:         "long.fields@example.com",
			Phone:         long(50),
			IDProofType:   guestModel.IDProofPassport,
			IDProofNumber: long(100),
		})
		assert.NotEmpty(t, guest.ID)
	})
}
