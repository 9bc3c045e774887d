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
	guestMocks "hotelier/internal/domains/guest/mocks"
	"hotelier/internal/domains/guest/model"
	"hotelier/internal/domains/guest/model/dto"
	"hotelier/internal/domains/guest/service"
	cacheMocks "hotelier/shared/cache/mocks"
	gDto "hotelier/shared/dto"
	"hotelier/shared/failure"
)

type serviceMocks struct {
	repo        *guestMocks.MockGuest
	bookingRepo *bookingMocks.MockBooking
	cache       *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Guest, serviceMocks, *gomock.Controller) {
	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:        guestMocks.NewMockGuest(ctrl),
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

func TestGuestService_Create(t *testing.T) {
	req := dto.CreateGuestRequest{
		Name:  "John Smith",
		Email: "John.Smith@Example.COM",
		Phone: "+1234567890",
	}

	t.Run("successful creation lowercases the email", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		allowAsync(m)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, guest model.Guest) error {
				assert.Equal(t, "john.smith@example.com", guest.Email)
				return nil
			})

		res, err := svc.Create(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, "john.smith@example.com", res.Email)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("duplicate email regardless of case", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: "23505", Constraint: "guests_email_key"})

		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Email already exists")
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

func TestGuestService_Get(t *testing.T) {
	t.Run("guest not found", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Guest{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Guest not found")
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("maps address and id proof", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		allowAsync(m)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Guest{
				ID:            "g1",
				Name:          "John Smith",
				Email:         "john.smith@example.com",
				AddressCity:   "New York",
				IDProofType:   model.IDProofPassport,
				IDProofNumber: "P12345678",
			}, nil)

		res, err := svc.Get(context.Background(), "g1")
		assert.NoError(t, err)
		assert.Equal(t, "New York", res.Address.City)
		assert.Equal(t, model.IDProofPassport, res.IDProof.Type)

		time.Sleep(10 * time.Millisecond)
	})
}

func TestGuestService_Update(t *testing.T) {
	t.Run("lowercases a changed email", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		allowAsync(m)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "new@example.com", fields[model.FieldEmail])
				return nil
			})

		err := svc.Update(context.Background(), dto.UpdateGuestRequest{Email: "New@Example.com"}, "g1")
		assert.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("guest not found", func(t *testing.T) {
		svc, m, ctrl := newService(t)
		defer ctrl.Finish()

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Update(context.Background(), dto.UpdateGuestRequest{Name: "New Name"}, "missing")
		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestGuestService_Delete(t *testing.T) {
	t.Run("delete succeeds without active bookings", func(t *testing.T) {
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

		err := svc.Delete(context.Background(), "g1")
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

		err := svc.Delete(context.Background(), "g1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Guest has active bookings")
		assert.Equal(t, 409, failure.GetCode(err))
	})
}
