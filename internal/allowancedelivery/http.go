// Package allowancedelivery manages delivery layer of subaccounts.
package allowancedelivery

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

// Service provides service layer interface needed by allowance delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package allowancedelivery
type Service interface {
	CreateSubaccount(ctx context.Context, owner, spendingLimit string) (domain.Account, error)
	UpdateSpendingLimit(ctx context.Context, owner string, subaccountID int64, newLimit string) (domain.Account, error)
	DeleteSubaccount(ctx context.Context, owner string, subaccountID int64) error
}

// Handler facilitates allowance delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns allowance handler.
func NewHandler(as Service) *Handler {
	return &Handler{
		service: as,
	}
}

type subaccountData struct {
	Subaccount domain.Account `json:"subaccount"`
}

type createRequest struct {
	SpendingLimit string `json:"spending_limit" binding:"required"`
}

type uriRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type updateRequest struct {
	SpendingLimit string `json:"spending_limit" binding:"required"`
}

func respondError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrInvalidOwner:
		gctx.JSON(http.StatusForbidden, web.Error(err))
	case domain.ErrAccountNotFound, domain.ErrNotSubaccount:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case
		domain.ErrInvalidAmount,
		domain.ErrNegativeAmount,
		domain.ErrAmountTooLarge,
		domain.ErrInsufficientBalance,
		domain.ErrAccountClosed:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

// Create handles http request to create a funded subaccount.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
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

	subaccount, err := h.service.CreateSubaccount(ctx, authPayload.Username, req.SpendingLimit)
	if err != nil {
		l.Info().Err(err).Send()
		respondError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: subaccountData{subaccount}})
}

// UpdateLimit handles http request to set a subaccount's spending limit.
func (h *Handler) UpdateLimit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	subaccount, err := h.service.UpdateSpendingLimit(ctx, authPayload.Username, uri.ID, req.SpendingLimit)
	if err != nil {
		l.Info().Err(err).Send()
		respondError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: subaccountData{subaccount}})
}

// Delete handles http request to close a subaccount.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	if err := h.service.DeleteSubaccount(ctx, authPayload.Username, uri.ID); err != nil {
		l.Info().Err(err).Send()
		respondError(gctx, err)

		return
	}

	gctx.Status(http.StatusNoContent)
}
