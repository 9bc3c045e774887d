package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hotelier/infras/otel"
	"hotelier/infras/postgres"
	"hotelier/internal/domains/booking/model"
	roomModel "hotelier/internal/domains/room/model"
	"hotelier/shared"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	"hotelier/shared/logger"
	gRepo "hotelier/shared/repository"
	"hotelier/shared/timezone"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomUnavailable = errors.New("room is not available")
	ErrBookingConflict = errors.New("room is already booked for the requested dates")
)

// ReserveParams drives UpdateSyncingRoom. The service computes the target
// state; the repository applies it and the room status side effects in a
// single transaction.
type ReserveParams struct {
	Fields           map[string]any
	RoomID           string
	Interval         model.Interval
	Revalidate       bool
	RequireAvailable bool
	ReleaseRoomID    string
	OccupyRoom       bool
}

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertBulk(ctx context.Context, models []model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindConflict(ctx context.Context, roomID string, interval model.Interval, excludeID string) (*model.Booking, error)
	CreateReservingRoom(ctx context.Context, booking model.Booking) error
	UpdateSyncingRoom(ctx context.Context, bookingID string, params ReserveParams) error
	DeleteReleasingRoom(ctx context.Context, booking model.Booking) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const conflictQuery = `
	SELECT id, guest_id, room_id, check_in, check_out, status, payment_status, special_requests
	FROM bookings
	WHERE room_id = $1
	  AND status IN ('confirmed', 'checked-in')
	  AND check_in < $2
	  AND check_out > $3`

// buildConflictQuery appends the self-exclusion clause only when an ID is
// given. bookings.id is a uuid column, so an empty string must never reach
// the bind.
func buildConflictQuery(roomID string, interval model.Interval, excludeID string) (string, []interface{}) {
	query := conflictQuery
	args := []interface{}{roomID, interval.CheckOut, interval.CheckIn}

	if excludeID != "" {
		query += "\n\t  AND id != $4"
		args = append(args, excludeID)
	}

	query += "\n\tLIMIT 1"

	return query, args
}

// FindConflict returns the active booking overlapping the proposed stay, or
// nil when the room is free. The overlap predicate is half-open, so a stay
// starting exactly at another's check-out does not conflict.
func (repo *repositoryImpl) FindConflict(ctx context.Context, roomID string, interval model.Interval, excludeID string) (booking *model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, conflictQuery)

	booking, err = findConflict(ctx, repo.db.Read, roomID, interval, excludeID)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, err
	}

	return booking, nil
}

type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func findConflict(ctx context.Context, q queryer, roomID string, interval model.Interval, excludeID string) (*model.Booking, error) {
	var booking model.Booking

	query, args := buildConflictQuery(roomID, interval, excludeID)

	err := q.GetContext(ctx, &booking, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find conflicting booking: %w", err)
	}

	return &booking, nil
}

// lockRoom takes a row lock on the room so concurrent reservations against
// it serialize, then returns its current status.
func lockRoom(ctx context.Context, tx *sqlx.Tx, roomID string) (string, error) {
	var status string

	err := tx.GetContext(ctx, &status, "SELECT status FROM rooms WHERE id = $1 FOR UPDATE", roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRoomNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to lock room: %w", err)
	}

	return status, nil
}

func setRoomStatus(ctx context.Context, tx *sqlx.Tx, roomID, status string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE rooms SET status = $2, modified_at = $3, modified_by = $4 WHERE id = $1",
		roomID, status, timezone.Now(), constant.SystemActor)
	if err != nil {
		return fmt.Errorf("failed to set room status: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.ErrorWithStack(rollbackErr)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CreateReservingRoom persists the booking and flips the room to occupied in
// one transaction. The room row is locked first and the availability check is
// re-run under that lock, closing the race between two concurrent
// reservations for the same room.
func (repo *repositoryImpl) CreateReservingRoom(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateReservingRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		status, err := lockRoom(ctx, tx, booking.RoomID)
		if err != nil {
			return err
		}

		if status != roomModel.StatusAvailable {
			return ErrRoomUnavailable
		}

		conflict, err := findConflict(ctx, tx, booking.RoomID, booking.Interval(), booking.ID)
		if err != nil {
			return err
		}

		if conflict != nil {
			return ErrBookingConflict
		}

		if err = repo.InsertTx(ctx, tx, booking); err != nil {
			if gRepo.IsExclusionViolation(err) {
				return ErrBookingConflict
			}

			return err
		}

		return setRoomStatus(ctx, tx, booking.RoomID, roomModel.StatusOccupied)
	})
}

// UpdateSyncingRoom applies a partial update to the booking and keeps the
// referenced room's status consistent, re-running the availability check
// under a room lock when the stay or room changed.
func (repo *repositoryImpl) UpdateSyncingRoom(ctx context.Context, bookingID string, params ReserveParams) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateSyncingRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if params.Revalidate {
			status, err := lockRoom(ctx, tx, params.RoomID)
			if err != nil {
				return err
			}

			if params.RequireAvailable && status != roomModel.StatusAvailable {
				return ErrRoomUnavailable
			}

			conflict, err := findConflict(ctx, tx, params.RoomID, params.Interval, bookingID)
			if err != nil {
				return err
			}

			if conflict != nil {
				return ErrBookingConflict
			}
		}

		filter := shared.FilterByID(bookingID, model.FieldID, model.TableName)

		if err := repo.UpdateTx(ctx, tx, params.Fields, filter); err != nil {
			if gRepo.IsExclusionViolation(err) {
				return ErrBookingConflict
			}

			return err
		}

		if params.ReleaseRoomID != "" {
			if err := setRoomStatus(ctx, tx, params.ReleaseRoomID, roomModel.StatusAvailable); err != nil {
				return err
			}
		}

		if params.OccupyRoom {
			if err := setRoomStatus(ctx, tx, params.RoomID, roomModel.StatusOccupied); err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteReleasingRoom removes the booking and, when the booking was still
// occupying its room, releases the room in the same transaction.
func (repo *repositoryImpl) DeleteReleasingRoom(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.DeleteReleasingRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		filter := shared.FilterByID(booking.ID, model.FieldID, model.TableName)

		if err := repo.DeleteTx(ctx, tx, filter); err != nil {
			return err
		}

		if booking.IsActive() {
			return setRoomStatus(ctx, tx, booking.RoomID, roomModel.StatusAvailable)
		}

		return nil
	})
}
