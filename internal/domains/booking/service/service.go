package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotelier/config"
	"hotelier/infras/kafka"
	"hotelier/infras/otel"
	"hotelier/internal/domains/booking/model"
	"hotelier/internal/domains/booking/model/dto"
	"hotelier/internal/domains/booking/repository"
	guestModel "hotelier/internal/domains/guest/model"
	guestRepository "hotelier/internal/domains/guest/repository"
	roomModel "hotelier/internal/domains/room/model"
	roomRepository "hotelier/internal/domains/room/repository"
	"hotelier/shared"
	"hotelier/shared/cache"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	"hotelier/shared/failure"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:get_all"
	cacheCountBooking  = "booking:count"
)

const (
	msgBookingNotFound       = "Booking not found"
	msgRoomNotFound          = "Room not found"
	msgGuestNotFound         = "Guest not found"
	msgRoomNotAvailable      = "Room is not available"
	msgBookingDatesConflict  = "Room is already booked for these dates"
	msgInvalidStay           = "Check-out date must be after check-in date"
	msgInvalidTransition     = "Invalid booking status transition"
	msgBookingUpdateNoFields = "update request cannot be empty"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetByGuest(ctx context.Context, guestID string, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Booking
	roomRepo  roomRepository.Room
	guestRepo guestRepository.Guest
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	kafka     kafka.Client
}

func New(
	repo repository.Booking,
	roomRepo roomRepository.Room,
	guestRepo guestRepository.Guest,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafkaClient kafka.Client,
) Booking {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		guestRepo: guestRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		kafka:     kafkaClient,
	}
}

// Create reserves a room for a guest. The pre-checks mirror the transactional
// re-check inside the repository; they exist to fail fast with a precise
// message before any lock is taken.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	interval := req.Interval()
	if !interval.IsValid() {
		return res, failure.BadRequestFromString(msgInvalidStay) // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
	}

	if room.Status != roomModel.StatusAvailable {
		return res, failure.BadRequestFromString(msgRoomNotAvailable) // nolint:wrapcheck
	}

	guestExist, err := s.guestRepo.Exist(ctx, shared.FilterByID(req.GuestID, guestModel.FieldID, guestModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if guest exists")

		return res, fmt.Errorf("failed to check if guest exists: %w", err)
	}

	if !guestExist {
		return res, failure.NotFound(msgGuestNotFound) // nolint:wrapcheck
	}

	conflict, err := s.repo.FindConflict(ctx, req.RoomID, interval, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking conflicts")

		return res, fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	if conflict != nil {
		return res, failure.BadRequestFromString(msgBookingDatesConflict) // nolint:wrapcheck
	}

	booking := req.ToModel(constant.SystemActor)

	if err = s.repo.CreateReservingRoom(ctx, booking); err != nil {
		return res, s.mapReservationError(err, "failed to create booking")
	}

	created, err := s.repo.Get(ctx, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get created booking")

		return res, fmt.Errorf("failed to get created booking: %w", err)
	}

	res.FromModel(created)

	s.afterWrite(ctx, dto.NewBookingEvent(dto.EventBookingCreated, created), created.ID)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, err
	}

	bookings, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, err
	}

	res.FromModels(bookings, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return total, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// GetByGuest lists a guest's bookings, newest first.
func (s *serviceImpl) GetByGuest(ctx context.Context, guestID string, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByGuest")
	defer scope.End()
	defer scope.TraceIfError(err)

	guestExist, err := s.guestRepo.Exist(ctx, shared.FilterByID(guestID, guestModel.FieldID, guestModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if guest exists")

		return res, fmt.Errorf("failed to check if guest exists: %w", err)
	}

	if !guestExist {
		return res, failure.NotFound(msgGuestNotFound) // nolint:wrapcheck
	}

	filter := shared.FilterByID(guestID, model.FieldGuestID, model.TableName)

	return s.GetAll(ctx, req, filter)
}

// Update applies a partial update. When the stay or the room changes, the
// availability rules run again: the update is rejected unless the new room
// and dates are free. Status changes follow the booking state machine and
// release the room when the booking leaves an active status.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return res, failure.BadRequestFromString(msgBookingUpdateNoFields) // nolint:wrapcheck
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	params, err := s.buildReserveParams(ctx, req, booking)
	if err != nil {
		return res, err
	}

	if err = s.repo.UpdateSyncingRoom(ctx, booking.ID, params); err != nil {
		return res, s.mapReservationError(err, "failed to update booking")
	}

	updated, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get updated booking")

		return res, fmt.Errorf("failed to get updated booking: %w", err)
	}

	res.FromModel(updated)

	eventType := dto.EventBookingUpdated
	if req.Status == model.StatusCancelled {
		eventType = dto.EventBookingCancelled
	}

	s.afterWrite(ctx, dto.NewBookingEvent(eventType, updated), updated.ID)

	return res, nil
}

func (s *serviceImpl) buildReserveParams(ctx context.Context, req dto.UpdateBookingRequest, booking model.Booking) (params repository.ReserveParams, err error) {
	newStatus := booking.Status
	if req.Status != "" {
		if !model.CanTransition(booking.Status, req.Status) {
			return params, failure.BadRequestFromString(msgInvalidTransition) // nolint:wrapcheck
		}

		newStatus = req.Status
	}

	interval := booking.Interval()
	if req.CheckIn != "" {
		interval.CheckIn, _ = time.Parse(constant.DateOnlyFormat, req.CheckIn)
	}

	if req.CheckOut != "" {
		interval.CheckOut, _ = time.Parse(constant.DateOnlyFormat, req.CheckOut)
	}

	if !interval.IsValid() {
		return params, failure.BadRequestFromString(msgInvalidStay) // nolint:wrapcheck
	}

	roomID := booking.RoomID
	if req.RoomID != "" {
		roomID = req.RoomID
	}

	roomChanged := roomID != booking.RoomID
	stayChanged := !interval.CheckIn.Equal(booking.CheckIn) || !interval.CheckOut.Equal(booking.CheckOut)

	fields := shared.TransformFields(req, constant.SystemActor)

	if stayChanged {
		fields[model.FieldCheckIn] = interval.CheckIn
		fields[model.FieldCheckOut] = interval.CheckOut
	}

	if roomChanged {
		fields[model.FieldRoomID] = roomID
	}

	wasActive := booking.IsActive()
	isActive := model.IsActiveStatus(newStatus)

	params = repository.ReserveParams{
		Fields:           fields,
		RoomID:           roomID,
		Interval:         interval,
		Revalidate:       isActive && (roomChanged || stayChanged),
		RequireAvailable: roomChanged,
	}

	if roomChanged && wasActive {
		params.ReleaseRoomID = booking.RoomID
	}

	switch {
	case roomChanged && isActive:
		params.OccupyRoom = true
	case wasActive && !isActive:
		params.ReleaseRoomID = booking.RoomID
	}

	return params, nil
}

// Delete removes the booking. If the booking was still active the room is
// released in the same transaction, matching the cancellation side effect.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	if err = s.repo.DeleteReleasingRoom(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.afterWrite(ctx, dto.NewBookingEvent(dto.EventBookingDeleted, booking), booking.ID)

	return nil
}

func (s *serviceImpl) mapReservationError(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
	case errors.Is(err, repository.ErrRoomUnavailable):
		return failure.BadRequestFromString(msgRoomNotAvailable) // nolint:wrapcheck
	case errors.Is(err, repository.ErrBookingConflict):
		return failure.BadRequestFromString(msgBookingDatesConflict) // nolint:wrapcheck
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

// afterWrite publishes the lifecycle event and drops the stale cache
// entries. Both run off the request path; the write has already committed.
func (s *serviceImpl) afterWrite(ctx context.Context, event dto.BookingEvent, bookingID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if s.cfg.Kafka.Enable {
			message := kafka.Message{Key: bookingID, Value: event}

			if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.BookingEvents, message); err != nil {
				log.Error().Err(err).Str("type", event.Type).Msg("failed to publish booking event")
			}
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, bookingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		// Room status may have changed alongside the booking.
		shared.InvalidateCaches(c, s.cache, "room:")
	}()
}
