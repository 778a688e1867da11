package users_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finanzasapp/ledger/pkg/api"
	"github.com/finanzasapp/ledger/pkg/handlers/users"
	"github.com/finanzasapp/ledger/pkg/ledger"
	"github.com/finanzasapp/ledger/pkg/ledger/mocks"
	"github.com/finanzasapp/ledger/pkg/models"
	"github.com/finanzasapp/ledger/pkg/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)
		mockLedger.On("RegisterUser", mock.Anything, "alice", "s3cret", int64(2500)).
			Return(&models.User{ID: 1, Username: "alice", Balance: 2500}, nil)
		handler := users.NewUsersHandler(mockLedger, sessions.NewManager())

		initialBalance := int64(2500)
		rr := postJSON(t, handler.Register, "/register", api.RegisterRequest{
			Username:       "alice",
			Password:       "s3cret",
			InitialBalance: &initialBalance,
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		var created api.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, api.User{Id: 1, Username: "alice", Balance: 2500}, created)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Defaults Initial Balance", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)
		mockLedger.On("RegisterUser", mock.Anything, "alice", "s3cret", ledger.DefaultInitialBalance).
			Return(&models.User{ID: 1, Username: "alice", Balance: ledger.DefaultInitialBalance}, nil)
		handler := users.NewUsersHandler(mockLedger, sessions.NewManager())

		rr := postJSON(t, handler.Register, "/register", api.RegisterRequest{
			Username: "alice",
			Password: "s3cret",
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Validation Error", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)
		mockLedger.On("RegisterUser", mock.Anything, "al ice", "s3cret", ledger.DefaultInitialBalance).
			Return(nil, ledger.ErrInvalidCharacters)
		handler := users.NewUsersHandler(mockLedger, sessions.NewManager())

		rr := postJSON(t, handler.Register, "/register", api.RegisterRequest{
			Username: "al ice",
			Password: "s3cret",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Username Taken", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)
		mockLedger.On("RegisterUser", mock.Anything, "alice", "s3cret", ledger.DefaultInitialBalance).
			Return(nil, ledger.ErrUsernameTaken)
		handler := users.NewUsersHandler(mockLedger, sessions.NewManager())

		rr := postJSON(t, handler.Register, "/register", api.RegisterRequest{
			Username: "alice",
			Password: "s3cret",
		})

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		handler := users.NewUsersHandler(new(mocks.Ledger), sessions.NewManager())

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte("{not json")))
		rr := httptest.NewRecorder()
		handler.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)
		mockLedger.On("Authenticate", mock.Anything, "alice", "s3cret").
			Return(&models.User{ID: 1, Username: "alice", Balance: 1000}, nil)
		sessionManager := sessions.NewManager()
		handler := users.NewUsersHandler(mockLedger, sessionManager)

		rr := postJSON(t, handler.Login, "/login", api.LoginRequest{Username: "alice", Password: "s3cret"})

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, api.User{Id: 1, Username: "alice", Balance: 1000}, resp.User)

		userID, ok := sessionManager.Resolve(resp.Token)
		assert.True(t, ok)
		assert.Equal(t, int64(1), userID)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Invalid Credentials", func(t *testing.T) {
		mockLedger := new(mocks.Ledger)
		mockLedger.On("Authenticate", mock.Anything, "alice", "wrong").
			Return(nil, ledger.ErrInvalidCredentials)
		handler := users.NewUsersHandler(mockLedger, sessions.NewManager())

		rr := postJSON(t, handler.Login, "/login", api.LoginRequest{Username: "alice", Password: "wrong"})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockLedger.AssertExpectations(t)
	})
}

func TestLogout(t *testing.T) {
	t.Run("Destroys Session", func(t *testing.T) {
		sessionManager := sessions.NewManager()
		token := sessionManager.Create(1)
		handler := users.NewUsersHandler(new(mocks.Ledger), sessionManager)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.Logout(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		_, ok := sessionManager.Resolve(token)
		assert.False(t, ok)
	})
}
