package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelier/config"
	"hotelier/infras/otel/mocks"
	bookingMocks "hotelier/internal/domains/booking/mocks"
	roomMocks "hotelier/internal/domains/room/mocks"
	"hotelier/internal/domains/room/model"
	"hotelier/internal/domains/room/model/dto"
	"hotelier/internal/domains/room/service"
	cacheMocks "hotelier/shared/cache/mocks"
	gDto "hotelier/shared/dto"
	"hotelier/shared/failure"
)

type serviceMocks struct {
	repo        *roomMocks.MockRoom
	bookingRepo *bookingMocks.MockBooking
	cache       *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Room, serviceMocks, *gomock.Controller) {
	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:        roomMocks.NewMockRoom(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.bookingRepo, cfg, m.cache, mocks.NewOtel())

	return svc, m, ctrl
}

func allowAsync(m serviceMocks) {
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestRoomService_Create(t *testing.T) {
	req := dto.CreateRoomRequest{
		Number:    "101",
		Type:      model.TypeSingle,
		Price:     100,
		Amenities: []string{"WiFi", "TV", "AC"},
		Capacity:  1,
	}

	t.Run("successful creation defaults status to available", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		allowAsync(m)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.Room) error {
				assert.Equal(t, model.StatusAvailable, room.Status)
				assert.Equal(t, "101", room.Number)
				return nil
			})

		res, err := svc.Create(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, model.StatusAvailable, res.Status)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("duplicate room number", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: "23505", Constraint: "rooms_number_key"})

		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Room number already exists")
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("repository error", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
		assert.Equal(t, 500, failure.GetCode(err))
	})
}

func TestRoomService_GetAll(t *testing.T) {
	t.Run("populates pagination metadata", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		allowAsync(m)

		params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: model.FieldNumber, SortDir: gDto.SortDirAsc}

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)
		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(25, nil)

		rooms := make([]model.Room, 10)
		for i := range rooms {
			rooms[i] = model.Room{ID: "r", Number: "10", Status: model.StatusAvailable}
		}

		m.repo.EXPECT().
			GetAll(gomock.Any(), params, gomock.Any()).
			Return(rooms, nil)

		res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
		assert.NoError(t, err)
		assert.Len(t, res.Rooms, 10)
		assert.Equal(t, 25, res.TotalData)
		assert.Equal(t, 3, res.TotalPage)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("serves from cache on hit", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		params := gDto.QueryParams{Page: 1, Limit: 10}

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
		assert.NoError(t, err)
	})
}

func TestRoomService_Get(t *testing.T) {
	t.Run("room not found", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Room not found")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestRoomService_Update(t *testing.T) {
	price := 120.0

	t.Run("empty update request", func(t *testing.T) {
		svc, _, ctrl := newService(t)
		defer ctrl.Finish()

		err := svc.Update(context.Background(), dto.UpdateRoomRequest{}, "r1")
		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("updates submitted fields", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		allowAsync(m)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, &price, fields[model.FieldPrice])
				assert.NotContains(t, fields, model.FieldNumber)
				return nil
			})

		err := svc.Update(context.Background(), dto.UpdateRoomRequest{Price: &price}, "r1")
		assert.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("room not found", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Update(context.Background(), dto.UpdateRoomRequest{Price: &price}, "missing")
		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("delete succeeds when no active bookings reference the room", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		allowAsync(m)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.bookingRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)
		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(context.Background(), "r1")
		assert.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("delete is refused while active bookings exist", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.bookingRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Delete(context.Background(), "r1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Room has active bookings")
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("room not found", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(context.Background(), "missing")
		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
