// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/internal/middleware"
	"github.com/flowserve/ledger/pkg/errorspkg"
	"github.com/flowserve/ledger/pkg/tokenpkg"
	"github.com/flowserve/ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetPrimaryByOwner(ctx context.Context, owner string) (domain.Account, error)
	GetBalance(ctx context.Context, id int64) (string, error)
	ListByOwner(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Account, error)
	ListSubaccounts(ctx context.Context, ownerAccountID int64, pageSize, pageID int32) ([]domain.Account, error)
	ListTransactions(ctx context.Context, accountID int64, pageSize, pageID int32) ([]domain.Transaction, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type uriRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

// authorizedAccount resolves the :id account and checks that the caller owns it.
func (h *Handler) authorizedAccount(gctx *gin.Context) (domain.Account, bool) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return domain.Account{}, false
	}

	account, err := h.service.Get(ctx, req.ID)
	if err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return domain.Account{}, false
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return domain.Account{}, false
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)
	if account.Owner != authPayload.Username {
		gctx.JSON(http.StatusForbidden, web.Error(domain.ErrInvalidOwner))
		return domain.Account{}, false
	}

	return account, true
}

// Get handles http request to get an account.
func (h *Handler) Get(gctx *gin.Context) {
	account, ok := h.authorizedAccount(gctx)
	if !ok {
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: struct {
		Account domain.Account `json:"account"`
	}{account}})
}

// GetBalance handles http request to get an account's current balance.
func (h *Handler) GetBalance(gctx *gin.Context) {
	account, ok := h.authorizedAccount(gctx)
	if !ok {
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: struct {
		AccountID int64  `json:"account_id"`
		Balance   string `json:"balance"`
	}{account.ID, account.Balance}})
}

// List handles http request to list the caller's accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	accounts, err := h.service.ListByOwner(ctx, authPayload.Username, req.PageSize, req.PageID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: struct {
		Accounts []domain.Account `json:"accounts"`
	}{accounts}})
}

// ListSubaccounts handles http request to list subaccounts of an account.
func (h *Handler) ListSubaccounts(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	account, ok := h.authorizedAccount(gctx)
	if !ok {
		return
	}

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	subaccounts, err := h.service.ListSubaccounts(ctx, account.ID, req.PageSize, req.PageID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: struct {
		Subaccounts []domain.Account `json:"subaccounts"`
	}{subaccounts}})
}

// ListTransactions handles http request to page through an account's log.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	account, ok := h.authorizedAccount(gctx)
	if !ok {
		return
	}

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	transactions, err := h.service.ListTransactions(ctx, account.ID, req.PageSize, req.PageID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: struct {
		Transactions []domain.Transaction `json:"transactions"`
	}{transactions}})
}
