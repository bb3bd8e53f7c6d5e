package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/wallet"
)

type WalletService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*wallet.Summary, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.User, error)
	SetPenalty(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.User, error)
}

type WalletHandler struct {
	wallet WalletService
	log    *zap.Logger
}

func NewWalletHandler(wallet WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{wallet: wallet, log: log}
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
}

func (h *WalletHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	summary, err := h.wallet.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := WalletResponse{
		Balance:             summary.Balance,
		PenaltyPerMiss:      summary.PenaltyPerMiss,
		ConsecutiveFailures: summary.ConsecutiveFailures,
		Transactions:        make([]TransactionResponse, 0, len(summary.Transactions)),
	}
	for _, t := range summary.Transactions {
		resp.Transactions = append(resp.Transactions, TransactionResponse{
			ID:          t.ID,
			Amount:      t.Amount,
			Kind:        string(t.Kind),
			PenaltyDate: t.PenaltyDate,
			CreatedAt:   t.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	user, err := h.wallet.Deposit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *WalletHandler) SetPenalty(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	user, err := h.wallet.SetPenalty(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}
