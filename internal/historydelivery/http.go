// Package historydelivery manages delivery layer of transaction history.
package historydelivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/internal/middleware"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
	"github.com/go-petr/dream-bank/pkg/tokenpkg"
	"github.com/go-petr/dream-bank/pkg/web"
)

// Service provides service layer interface needed by history delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package historydelivery
type Service interface {
	History(ctx context.Context, ownerID int64, ref domain.DocumentRef) (domain.Account, []domain.Transaction, error)
	Statement(ctx context.Context, ownerID int64, ref domain.DocumentRef, date time.Time) (string, string, error)
	GetRelatedCounterparties(ctx context.Context, ownerID int64) ([]string, error)
	MarkViewed(ctx context.Context, id, ownerID int64) (domain.Transaction, error)
}

// Handler facilitates history delivery layer logic.
type Handler struct {
	service Service
	now     func() time.Time
}

// NewHandler returns history handler.
func NewHandler(hs Service) *Handler {
	return &Handler{
		service: hs,
		now:     time.Now,
	}
}

type documentURI struct {
	Kind string `uri:"kind" binding:"required,oneof=account card"`
	ID   int64  `uri:"id" binding:"required,min=1"`
}

func (u documentURI) ref() domain.DocumentRef {
	return domain.DocumentRef{Kind: domain.DocumentKind(u.Kind), ID: u.ID}
}

type transactionURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type historyData struct {
	AccountID    int64                `json:"account_id"`
	Balance      decimal.Decimal      `json:"balance"`
	Transactions []domain.Transaction `json:"transactions"`
}

type counterpartiesData struct {
	Counterparties []string `json:"counterparties"`
}

type transactionData struct {
	Transaction domain.Transaction `json:"transaction"`
}

func (h *Handler) fail(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())
	l.Info().Err(err).Send()

	switch {
	case errors.Is(err, domain.ErrInvalidOwner):
		gctx.JSON(http.StatusForbidden, web.Error(err))
	case errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case errors.Is(err, domain.ErrUnknownDocumentKind):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

// List handles http request to list transactions of the caller's document, newest first.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri documentURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	account, txs, err := h.service.History(ctx, authPayload.OwnerID, uri.ref())
	if err != nil {
		h.fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: historyData{
		AccountID:    account.ID,
		Balance:      account.Amount,
		Transactions: txs,
	}})
}

// Statement handles http request to download the history of the caller's document as text.
func (h *Handler) Statement(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri documentURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	filename, content, err := h.service.Statement(ctx, authPayload.OwnerID, uri.ref(), h.now())
	if err != nil {
		h.fail(gctx, err)
		return
	}

	gctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	gctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// Counterparties handles http request to list usernames the caller has exchanged money with.
func (h *Handler) Counterparties(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	names, err := h.service.GetRelatedCounterparties(ctx, authPayload.OwnerID)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: counterpartiesData{Counterparties: names}})
}

// MarkViewed handles http request to mark the transaction as viewed by the caller's side.
func (h *Handler) MarkViewed(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri transactionURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	t, err := h.service.MarkViewed(ctx, uri.ID, authPayload.OwnerID)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: transactionData{Transaction: t}})
}
