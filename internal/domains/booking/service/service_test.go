package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelier/config"
	kafkaMocks "hotelier/infras/kafka/mocks"
	"hotelier/infras/otel/mocks"
	bookingMocks "hotelier/internal/domains/booking/mocks"
	"hotelier/internal/domains/booking/model"
	"hotelier/internal/domains/booking/model/dto"
	"hotelier/internal/domains/booking/repository"
	"hotelier/internal/domains/booking/service"
	guestMocks "hotelier/internal/domains/guest/mocks"
	roomMocks "hotelier/internal/domains/room/mocks"
	roomModel "hotelier/internal/domains/room/model"
	cacheMocks "hotelier/shared/cache/mocks"
	gDto "hotelier/shared/dto"
	"hotelier/shared/failure"
)

func gDtoParams() gDto.QueryParams {
	return gDto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: "DESC"}
}

type serviceMocks struct {
	repo      *bookingMocks.MockBooking
	roomRepo  *roomMocks.MockRoom
	guestRepo *guestMocks.MockGuest
	cache     *cacheMocks.MockRedisCache
	kafka     *kafkaMocks.MockClient
}

func newService(t *testing.T) (service.Booking, serviceMocks, *gomock.Controller) {
	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:      bookingMocks.NewMockBooking(ctrl),
		roomRepo:  roomMocks.NewMockRoom(ctrl),
		guestRepo: guestMocks.NewMockGuest(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		kafka:     kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.roomRepo, m.guestRepo, cfg, m.cache, mocks.NewOtel(), m.kafka)

	return svc, m, ctrl
}

func allowAsync(m serviceMocks) {
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func availableRoom(id string) roomModel.Room {
	return roomModel.Room{ID: id, Number: "101", Status: roomModel.StatusAvailable}
}

func confirmedBooking(id string) model.Booking {
	return model.Booking{
		ID:       id,
		GuestID:  "5c7b9f4e-9d1a-4e3f-8a34-2c1f2f8f4a01",
		RoomID:   "9a1d2c3b-4e5f-6a7b-8c9d-0e1f2a3b4c5d",
		CheckIn:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
		Status:   model.StatusConfirmed,
	}
}

func TestBookingService_Create(t *testing.T) {
	validReq := dto.CreateBookingRequest{
		GuestID:  "5c7b9f4e-9d1a-4e3f-8a34-2c1f2f8f4a01",
		RoomID:   "9a1d2c3b-4e5f-6a7b-8c9d-0e1f2a3b4c5d",
		CheckIn:  "2024-01-15",
		CheckOut: "2024-01-20",
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(m serviceMocks)
		wantErr   string
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  validReq,
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableRoom(validReq.RoomID), nil)
				m.guestRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				m.repo.EXPECT().
					FindConflict(gomock.Any(), validReq.RoomID, gomock.Any(), "").
					Return(nil, nil)
				m.repo.EXPECT().
					CreateReservingRoom(gomock.Any(), gomock.Any()).
					Return(nil)
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmedBooking("b1"), nil)
			},
		},
		{
			name: "check-out before check-in",
			req: dto.CreateBookingRequest{
				GuestID:  validReq.GuestID,
				RoomID:   validReq.RoomID,
				CheckIn:  "2024-01-20",
				CheckOut: "2024-01-15",
			},
			setupMock: func(m serviceMocks) {},
			wantErr:   "Check-out date must be after check-in date",
			wantCode:  400,
		},
		{
			name: "room not found",
			req:  validReq,
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, nil)
			},
			wantErr:  "Room not found",
			wantCode: 404,
		},
		{
			name: "room not available",
			req:  validReq,
			setupMock: func(m serviceMocks) {
				room := availableRoom(validReq.RoomID)
				room.Status = roomModel.StatusMaintenance
				m.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)
			},
			wantErr:  "Room is not available",
			wantCode: 400,
		},
		{
			name: "guest not found",
			req:  validReq,
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableRoom(validReq.RoomID), nil)
				m.guestRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  "Guest not found",
			wantCode: 404,
		},
		{
			name: "overlapping booking",
			req:  validReq,
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableRoom(validReq.RoomID), nil)
				m.guestRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				conflict := confirmedBooking("existing")
				m.repo.EXPECT().
					FindConflict(gomock.Any(), validReq.RoomID, gomock.Any(), "").
					Return(&conflict, nil)
			},
			wantErr:  "Room is already booked for these dates",
			wantCode: 400,
		},
		{
			name: "conflict detected inside the transaction",
			req:  validReq,
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableRoom(validReq.RoomID), nil)
				m.guestRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				m.repo.EXPECT().
					FindConflict(gomock.Any(), validReq.RoomID, gomock.Any(), "").
					Return(nil, nil)
				m.repo.EXPECT().
					CreateReservingRoom(gomock.Any(), gomock.Any()).
					Return(repository.ErrBookingConflict)
			},
			wantErr:  "Room is already booked for these dates",
			wantCode: 400,
		},
		{
			name: "repository error",
			req:  validReq,
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, errors.New("database error"))
			},
			wantErr:  "failed to get room",
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, ctrl := newService(t)
			defer ctrl.Finish()

			allowAsync(m)
			tt.setupMock(m)

			res, err := svc.Create(context.Background(), tt.req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "b1", res.ID)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestBookingService_Create_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := serviceMocks{
		repo:      bookingMocks.NewMockBooking(ctrl),
		roomRepo:  roomMocks.NewMockRoom(ctrl),
		guestRepo: guestMocks.NewMockGuest(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		kafka:     kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Enable = true
	cfg.Kafka.Topic.BookingEvents = "booking-events"

	svc := service.New(m.repo, m.roomRepo, m.guestRepo, cfg, m.cache, mocks.NewOtel(), m.kafka)

	allowAsync(m)

	req := dto.CreateBookingRequest{
		GuestID:  "5c7b9f4e-9d1a-4e3f-8a34-2c1f2f8f4a01",
		RoomID:   "9a1d2c3b-4e5f-6a7b-8c9d-0e1f2a3b4c5d",
		CheckIn:  "2024-01-15",
		CheckOut: "2024-01-20",
	}

	m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(req.RoomID), nil)
	m.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	m.repo.EXPECT().FindConflict(gomock.Any(), req.RoomID, gomock.Any(), "").Return(nil, nil)
	m.repo.EXPECT().CreateReservingRoom(gomock.Any(), gomock.Any()).Return(nil)
	m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmedBooking("b1"), nil)
	m.kafka.EXPECT().
		SendMessages(gomock.Any(), "booking-events", gomock.Any()).
		Return(nil).
		AnyTimes()

	_, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
}

func TestBookingService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateBookingRequest
		setupMock func(m serviceMocks)
		wantErr   string
		wantCode  int
	}{
		{
			name:      "empty update request",
			req:       dto.UpdateBookingRequest{},
			setupMock: func(m serviceMocks) {},
			wantErr:   "update request cannot be empty",
			wantCode:  400,
		},
		{
			name: "booking not found",
			req:  dto.UpdateBookingRequest{Status: model.StatusCheckedIn},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  "Booking not found",
			wantCode: 404,
		},
		{
			name: "illegal status transition",
			req:  dto.UpdateBookingRequest{Status: model.StatusConfirmed},
			setupMock: func(m serviceMocks) {
				booking := confirmedBooking("b1")
				booking.Status = model.StatusCheckedOut
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr:  "Invalid booking status transition",
			wantCode: 400,
		},
		{
			name: "date change re-runs the availability check",
			req:  dto.UpdateBookingRequest{CheckIn: "2024-02-01", CheckOut: "2024-02-05"},
			setupMock: func(m serviceMocks) {
				booking := confirmedBooking("b1")
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
				m.repo.EXPECT().
					UpdateSyncingRoom(gomock.Any(), "b1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, params repository.ReserveParams) error {
						assert.True(t, params.Revalidate)
						assert.Equal(t, booking.RoomID, params.RoomID)
						assert.False(t, params.OccupyRoom)
						assert.Empty(t, params.ReleaseRoomID)
						return nil
					})
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
		},
		{
			name: "new dates conflict with another booking",
			req:  dto.UpdateBookingRequest{CheckIn: "2024-02-01", CheckOut: "2024-02-05"},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmedBooking("b1"), nil)
				m.repo.EXPECT().
					UpdateSyncingRoom(gomock.Any(), "b1", gomock.Any()).
					Return(repository.ErrBookingConflict)
			},
			wantErr:  "Room is already booked for these dates",
			wantCode: 400,
		},
		{
			name: "cancellation releases the room",
			req:  dto.UpdateBookingRequest{Status: model.StatusCancelled},
			setupMock: func(m serviceMocks) {
				booking := confirmedBooking("b1")
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
				m.repo.EXPECT().
					UpdateSyncingRoom(gomock.Any(), "b1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, params repository.ReserveParams) error {
						assert.False(t, params.Revalidate)
						assert.Equal(t, booking.RoomID, params.ReleaseRoomID)
						return nil
					})
				cancelled := booking
				cancelled.Status = model.StatusCancelled
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(cancelled, nil)
			},
		},
		{
			name: "room change demands an available room",
			req:  dto.UpdateBookingRequest{RoomID: "11111111-2222-3333-4444-555555555555"},
			setupMock: func(m serviceMocks) {
				booking := confirmedBooking("b1")
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
				m.repo.EXPECT().
					UpdateSyncingRoom(gomock.Any(), "b1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, params repository.ReserveParams) error {
						assert.True(t, params.Revalidate)
						assert.True(t, params.RequireAvailable)
						assert.True(t, params.OccupyRoom)
						assert.Equal(t, booking.RoomID, params.ReleaseRoomID)
						assert.Equal(t, "11111111-2222-3333-4444-555555555555", params.RoomID)
						return nil
					})
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, ctrl := newService(t)
			defer ctrl.Finish()

			allowAsync(m)
			tt.setupMock(m)

			_, err := svc.Update(context.Background(), tt.req, "b1")

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestBookingService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   string
		wantCode  int
	}{
		{
			name: "deleting an active booking releases the room",
			setupMock: func(m serviceMocks) {
				booking := confirmedBooking("b1")
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
				m.repo.EXPECT().
					DeleteReleasingRoom(gomock.Any(), booking).
					Return(nil)
			},
		},
		{
			name: "booking not found",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  "Booking not found",
			wantCode: 404,
		},
		{
			name: "second delete fails with not found",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  "Booking not found",
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, ctrl := newService(t)
			defer ctrl.Finish()

			allowAsync(m)
			tt.setupMock(m)

			err := svc.Delete(context.Background(), "b1")

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestBookingService_GetByGuest(t *testing.T) {
	t.Run("guest not found", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.guestRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := svc.GetByGuest(context.Background(), "missing", gDtoParams())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Guest not found")
	})

	t.Run("lists the guest's bookings", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		allowAsync(m)

		m.guestRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)
		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{confirmedBooking("b1")}, nil)

		res, err := svc.GetByGuest(context.Background(), "5c7b9f4e-9d1a-4e3f-8a34-2c1f2f8f4a01", gDtoParams())
		assert.NoError(t, err)
		assert.Len(t, res.Bookings, 1)
		assert.Equal(t, 1, res.TotalData)

		time.Sleep(10 * time.Millisecond)
	})
}
