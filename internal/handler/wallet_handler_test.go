package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) Summary(ctx context.Context, userID uuid.UUID) (*wallet.Summary, error) {
	args := m.Called(ctx, userID)
	summary := args.Get(0)
	if summary == nil {
		return nil, args.Error(1)
	}
	return summary.(*wallet.Summary), args.Error(1)
}

func (m *MockWalletService) user(args mock.Arguments) (*model.User, error) {
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockWalletService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.User, error) {
	return m.user(m.Called(ctx, userID, amount))
}

func (m *MockWalletService) SetPenalty(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.User, error) {
	return m.user(m.Called(ctx, userID, amount))
}

func setupWalletRouter(userID uuid.UUID) (*gin.Engine, *MockWalletService) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := new(MockWalletService)
	h := handler.NewWalletHandler(svc, zap.NewNop())

	authed := r.Group("/", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	authed.GET("/me/wallet", h.Get)
	authed.POST("/me/wallet/deposit", h.Deposit)
	authed.PUT("/me/penalty", h.SetPenalty)
	return r, svc
}

func amountIs(want int64) any {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(want)) })
}

func TestWallet_Get(t *testing.T) {
	userID := uuid.New()
	router, svc := setupWalletRouter(userID)

	day := "2026-03-09"
	svc.On("Summary", mock.Anything, userID).Return(&wallet.Summary{
		Balance:             decimal.NewFromInt(150000),
		PenaltyPerMiss:      model.DefaultPenaltyPerMiss,
		ConsecutiveFailures: 2,
		Transactions: []model.WalletTransaction{{
			ID:          uuid.New(),
			UserID:      userID,
			Amount:      decimal.NewFromInt(50000),
			Kind:        model.TransactionPenalty,
			PenaltyDate: &day,
			CreatedAt:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		}},
	}, nil)

	resp := doJSON(router, http.MethodGet, "/me/wallet", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	var body handler.WalletResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Balance.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, 2, body.ConsecutiveFailures)
	require.Len(t, body.Transactions, 1)
	assert.Equal(t, "penalty", body.Transactions[0].Kind)
	assert.Equal(t, &day, body.Transactions[0].PenaltyDate)
}

func TestWallet_Deposit(t *testing.T) {
	userID := uuid.New()
	router, svc := setupWalletRouter(userID)

	svc.On("Deposit", mock.Anything, userID, amountIs(1000)).
		Return(&model.User{ID: userID, WalletBalance: decimal.NewFromInt(1000)}, nil)

	resp := doJSON(router, http.MethodPost, "/me/wallet/deposit", map[string]any{"amount": "1000"})

	assert.Equal(t, http.StatusOK, resp.Code)
	var user handler.UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.True(t, user.WalletBalance.Equal(decimal.NewFromInt(1000)))
	svc.AssertExpectations(t)
}

func TestWallet_DepositRejectsNonPositive(t *testing.T) {
	userID := uuid.New()
	router, svc := setupWalletRouter(userID)

	svc.On("Deposit", mock.Anything, userID, amountIs(0)).
		Return(nil, fmt.Errorf("%w: deposit must be greater than 0", wallet.ErrInvalidAmount))

	resp := doJSON(router, http.MethodPost, "/me/wallet/deposit", map[string]any{"amount": 0})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "validation_error", decodeBody(t, resp)["code"])
}

func TestWallet_SetPenalty(t *testing.T) {
	userID := uuid.New()
	router, svc := setupWalletRouter(userID)

	svc.On("SetPenalty", mock.Anything, userID, amountIs(25000)).
		Return(&model.User{ID: userID, PenaltyPerMiss: decimal.NewFromInt(25000)}, nil)

	resp := doJSON(router, http.MethodPut, "/me/penalty", map[string]any{"amount": 25000})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(router, http.MethodPut, "/me/penalty", map[string]any{"amount": "lots"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNumberOfCalls(t, "SetPenalty", 1)
}
