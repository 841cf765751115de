package payout_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-fleetpay/internal/payout"
	payouterrors "go-fleetpay/internal/payout/errors"
	payoutmock "go-fleetpay/internal/payout/mock"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/money"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func init() {
	apperror.Init()
}

func setupPayoutRouter(t *testing.T) (*gin.Engine, *payoutmock.MockService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := payoutmock.NewMockService(gomock.NewController(t))
	h := payout.NewHandler(svc)

	r := gin.New()
	r.POST("/compensation/compute-payout", h.ComputePayout)
	r.GET("/pay-statements/:id", h.GetByID)
	r.POST("/pay-statements/:id/mark-paid", h.MarkPaid)
	return r, svc
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPayoutHandler_ComputePayout(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, svc := setupPayoutRouter(t)
		svc.EXPECT().
			ComputePayout(gomock.Any(), payout.ComputePayoutRequest{DriverID: "d-1", PeriodStart: "2024-07-01", PeriodEnd: "2024-07-07"}).
			Return(payout.ComputePayoutResponse{NetPayout: money.NewAmount(decimal.RequireFromString("81"))}, nil)

		w := doJSON(r, http.MethodPost, "/compensation/compute-payout",
			`{"driver_id":"d-1","period_start":"2024-07-01","period_end":"2024-07-07"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"net_payout":81.00`)
	})

	t.Run("missing driver", func(t *testing.T) {
		r, _ := setupPayoutRouter(t)

		w := doJSON(r, http.MethodPost, "/compensation/compute-payout", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"INVALID_INPUT"`)
	})

	t.Run("bad date", func(t *testing.T) {
		r, _ := setupPayoutRouter(t)

		w := doJSON(r, http.MethodPost, "/compensation/compute-payout",
			`{"driver_id":"d-1","period_start":"07/01/2024","period_end":"2024-07-07"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("already paid", func(t *testing.T) {
		r, svc := setupPayoutRouter(t)
		svc.EXPECT().ComputePayout(gomock.Any(), gomock.Any()).
			Return(payout.ComputePayoutResponse{}, payouterrors.ErrStatementAlreadyPaid)

		w := doJSON(r, http.MethodPost, "/compensation/compute-payout", `{"driver_id":"d-1"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPayoutHandler_MarkPaid(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		r, svc := setupPayoutRouter(t)
		svc.EXPECT().MarkPaid(gomock.Any(), "s-1", payout.MarkPaidRequest{}).
			Return(payout.PayStatementResponse{ID: "s-1", Status: payout.StatusPaid}, nil)

		w := doJSON(r, http.MethodPost, "/pay-statements/s-1/mark-paid", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"paid"`)
	})

	t.Run("with reference", func(t *testing.T) {
		r, svc := setupPayoutRouter(t)
		svc.EXPECT().MarkPaid(gomock.Any(), "s-1", payout.MarkPaidRequest{PaymentReference: "BANK-1"}).
			Return(payout.PayStatementResponse{ID: "s-1"}, nil)

		w := doJSON(r, http.MethodPost, "/pay-statements/s-1/mark-paid", `{"payment_reference":"BANK-1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		r, svc := setupPayoutRouter(t)
		svc.EXPECT().GetByID(gomock.Any(), "s-9").
			Return(payout.PayStatementResponse{}, payouterrors.ErrPayStatementNotFound)

		w := doJSON(r, http.MethodGet, "/pay-statements/s-9", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
