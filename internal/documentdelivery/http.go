// Package documentdelivery manages delivery layer of accounts and cards.
package documentdelivery

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/internal/middleware"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
	"github.com/go-petr/dream-bank/pkg/tokenpkg"
	"github.com/go-petr/dream-bank/pkg/web"
)

// Service provides service layer interface needed by document delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package documentdelivery
type Service interface {
	DocumentsFor(ctx context.Context, ownerID int64) (map[int]domain.Document, error)
}

// Handler facilitates document delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns document handler.
func NewHandler(ds Service) *Handler {
	return &Handler{service: ds}
}

// Item is a numbered document as shown to its owner.
type Item struct {
	Number      int                 `json:"number"`
	Kind        domain.DocumentKind `json:"kind"`
	ID          int64               `json:"id"`
	ShortNumber string              `json:"short_number"`
	Balance     decimal.Decimal     `json:"balance"`
}

type data struct {
	Documents []Item `json:"documents"`
}

type response struct {
	Data data `json:"data"`
}

// List handles http request to list the caller's accounts and cards.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	docs, err := h.service.DocumentsFor(ctx, authPayload.OwnerID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	items := make([]Item, 0, len(docs))

	for n, doc := range docs {
		items = append(items, Item{
			Number:      n,
			Kind:        doc.Kind(),
			ID:          doc.DocumentID(),
			ShortNumber: doc.ShortNumber(),
			Balance:     doc.Balance(),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Number < items[j].Number })

	gctx.JSON(http.StatusOK, response{Data: data{Documents: items}})
}
