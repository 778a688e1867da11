package balance_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finanzasapp/ledger/pkg/api"
	"github.com/finanzasapp/ledger/pkg/handlers"
	"github.com/finanzasapp/ledger/pkg/ledger"
	"github.com/finanzasapp/ledger/pkg/ledger/mocks"
	"github.com/finanzasapp/ledger/pkg/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func getBalance(t *testing.T, mockLedger *mocks.Ledger, authorize bool) *httptest.ResponseRecorder {
	t.Helper()
	sessionManager := sessions.NewManager()
	token := sessionManager.Create(1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := handlers.New(mockLedger, sessionManager).Routes(logger)

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	if authorize {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestGetBalance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)
		mockLedger.On("GetBalance", mock.Anything, int64(1)).Return(int64(1300), nil)

		rr := getBalance(t, mockLedger, true)

		assert.Equal(t, http.StatusOK, rr.Code)
		var current api.Balance
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &current))
		assert.Equal(t, api.Balance{UserId: 1, Balance: 1300}, current)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)
		mockLedger.On("GetBalance", mock.Anything, int64(1)).Return(int64(0), ledger.ErrUserNotFound)

		rr := getBalance(t, mockLedger, true)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)
		mockLedger.On("GetBalance", mock.Anything, int64(1)).Return(int64(0), assert.AnError)

		rr := getBalance(t, mockLedger, true)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Missing Session", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)

		rr := getBalance(t, mockLedger, false)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockLedger.AssertNotCalled(t, "GetBalance", mock.Anything, mock.Anything)
	})
}
