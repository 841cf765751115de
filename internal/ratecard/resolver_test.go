package ratecard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/ratecard"
	ratecarderrors "go-fleetpay/internal/ratecard/errors"
	"go-fleetpay/internal/ratecard/mock"
	"go-fleetpay/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rateRows(operatorID string) []ratecard.RateSchedule {
	// deliberately unordered
	return []ratecard.RateSchedule{
		{OperatorID: operatorID, Rate: decimal.RequireFromString("0.85"), EffectiveDate: date("2024-06-01")},
		{OperatorID: operatorID, Rate: decimal.RequireFromString("0.80"), EffectiveDate: date("2024-01-01")},
	}
}

func TestSchedule_At(t *testing.T) {
	s := ratecard.NewSchedule("OP-1", rateRows("OP-1"))

	tests := []struct {
		asOf      string
		wantOK    bool
		wantRate  string
		wantSince string
	}{
		{"2024-07-01", true, "0.85", "2024-06-01"},
		{"2024-06-01", true, "0.85", "2024-06-01"},
		{"2024-05-31", true, "0.8", "2024-01-01"},
		{"2024-03-01", true, "0.8", "2024-01-01"},
		{"2024-01-01", true, "0.8", "2024-01-01"},
		{"2023-12-01", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.asOf, func(t *testing.T) {
			res, ok := s.At(date(tt.asOf))
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantRate, res.Rate.String())
			assert.Equal(t, date(tt.wantSince), res.EffectiveDate)
			assert.Equal(t, ratecard.SourceSchedule, res.Source)
			assert.Equal(t, "OP-1", res.OperatorID)
		})
	}

	t.Run("empty history", func(t *testing.T) {
		_, ok := ratecard.NewSchedule("OP-2", nil).At(date("2024-01-01"))
		assert.False(t, ok)
	})
}

type stubDispatchers struct {
	dispatcher *driver.Dispatcher
	err        error
}

func (s stubDispatchers) FindOldestActiveDispatcher(ctx context.Context) (*driver.Dispatcher, error) {
	return s.dispatcher, s.err
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("schedule row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		repo.EXPECT().FindEffective(ctx, "OP-1", date("2024-07-01")).
			Return(&ratecard.RateSchedule{OperatorID: "OP-1", Rate: decimal.RequireFromString("0.85"), EffectiveDate: date("2024-06-01")}, nil)

		res, err := ratecard.NewResolver(repo).Resolve(ctx, "OP-1", date("2024-07-01"))

		assert.NoError(t, err)
		assert.True(t, res.Rate.Equal(decimal.RequireFromString("0.85")))
		assert.Equal(t, ratecard.SourceSchedule, res.Source)
	})

	t.Run("unavailable without fallback", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		repo.EXPECT().FindEffective(ctx, "OP-1", date("2023-12-01")).Return(nil, nil)

		res, err := ratecard.NewResolver(repo).Resolve(ctx, "OP-1", date("2023-12-01"))

		assert.ErrorIs(t, err, ratecarderrors.ErrRateUnavailable)
		assert.True(t, res.Rate.IsZero())
		assert.Contains(t, err.Error(), "OP-1")
	})

	t.Run("dispatcher fallback", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		repo.EXPECT().FindEffective(ctx, "OP-9", gomock.Any()).Return(nil, nil)

		fallback := ratecard.NewDispatcherDefaultFallback(stubDispatchers{
			dispatcher: &driver.Dispatcher{DriverParcelRate: decimal.RequireFromString("0.75"), IsActive: true},
		})
		res, err := ratecard.NewResolver(repo, ratecard.WithFallback(fallback)).Resolve(ctx, "OP-9", date("2024-01-10"))

		assert.NoError(t, err)
		assert.Equal(t, ratecard.SourceDispatcherDefault, res.Source)
		assert.True(t, res.Rate.Equal(decimal.RequireFromString("0.75")))
		assert.True(t, res.EffectiveDate.IsZero())
	})

	t.Run("fallback with zero dispatcher rate stays unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		repo.EXPECT().FindEffective(ctx, "OP-9", gomock.Any()).Return(nil, nil)

		fallback := ratecard.NewDispatcherDefaultFallback(stubDispatchers{
			dispatcher: &driver.Dispatcher{DriverParcelRate: decimal.Zero, IsActive: true},
		})
		_, err := ratecard.NewResolver(repo, ratecard.WithFallback(fallback)).Resolve(ctx, "OP-9", date("2024-01-10"))

		assert.ErrorIs(t, err, ratecarderrors.ErrRateUnavailable)
	})

	t.Run("fallback with no dispatcher stays unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		repo.EXPECT().FindEffective(ctx, "OP-9", gomock.Any()).Return(nil, nil)

		fallback := ratecard.NewDispatcherDefaultFallback(stubDispatchers{})
		_, err := ratecard.NewResolver(repo, ratecard.WithFallback(fallback)).Resolve(ctx, "OP-9", date("2024-01-10"))

		assert.ErrorIs(t, err, ratecarderrors.ErrRateUnavailable)
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		repo.EXPECT().FindEffective(ctx, "OP-1", gomock.Any()).Return(nil, errors.New("db down"))

		_, err := ratecard.NewResolver(repo).Resolve(ctx, "OP-1", date("2024-01-10"))

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodePersistenceError, appErr.Code)
	})

	t.Run("empty operator", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)

		_, err := ratecard.NewResolver(repo).Resolve(ctx, "", date("2024-01-10"))

		assert.ErrorIs(t, err, ratecarderrors.ErrOperatorRequired)
	})
}

func TestResolver_HistoryAndResolveIn(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)

	upTo := date("2024-12-31")
	repo.EXPECT().ListByOperator(ctx, "OP-1", &upTo).Return(rateRows("OP-1"), nil).Times(1)

	resolver := ratecard.NewResolver(repo)
	history, err := resolver.History(ctx, "OP-1", upTo)
	assert.NoError(t, err)
	assert.Equal(t, 2, history.Len())

	res, err := resolver.ResolveIn(ctx, history, date("2024-07-01"))
	assert.NoError(t, err)
	assert.Equal(t, "0.85", res.Rate.String())

	res, err = resolver.ResolveIn(ctx, history, date("2024-03-01"))
	assert.NoError(t, err)
	assert.Equal(t, "0.8", res.Rate.String())

	_, err = resolver.ResolveIn(ctx, history, date("2023-12-01"))
	assert.ErrorIs(t, err, ratecarderrors.ErrRateUnavailable)
}
