// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/dream-bank/internal/attachment"
	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/internal/middleware"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
	"github.com/go-petr/dream-bank/pkg/moneypkg"
	"github.com/go-petr/dream-bank/pkg/tokenpkg"
	"github.com/go-petr/dream-bank/pkg/web"
)

// PhotoField is the multipart form field carrying the optional photo.
const PhotoField = "photo"

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, ownerID int64, arg domain.TransferParams) (domain.Transaction, bool, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service       Service
	maxPhotoBytes int64
}

// NewHandler returns transfer handler.
func NewHandler(ts Service, maxPhotoBytes int64) *Handler {
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = attachment.DefaultMaxBytes
	}

	return &Handler{
		service:       ts,
		maxPhotoBytes: maxPhotoBytes,
	}
}

type request struct {
	SourceKind      string `json:"source_kind" form:"source_kind" binding:"required,oneof=account card"`
	SourceID        int64  `json:"source_id" form:"source_id" binding:"required,min=1"`
	DestinationKind string `json:"destination_kind" form:"destination_kind" binding:"required,oneof=account card"`
	DestinationID   int64  `json:"destination_id" form:"destination_id" binding:"required,min=1"`
	Amount          string `json:"amount" form:"amount" binding:"required"`
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Create handles http request to transfer money between two documents.
// The body is either JSON or a multipart form with an optional photo.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBind(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	accrual, err := moneypkg.ParseAccrual(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	photo, err := h.readPhoto(gctx)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := domain.TransferParams{
		Source:      domain.DocumentRef{Kind: domain.DocumentKind(req.SourceKind), ID: req.SourceID},
		Destination: domain.DocumentRef{Kind: domain.DocumentKind(req.DestinationKind), ID: req.DestinationID},
		Accrual:     accrual,
		Attachment:  photo,
	}

	transaction, ok, err := h.service.Transfer(ctx, authPayload.OwnerID, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch {
		case errors.Is(err, domain.ErrInvalidOwner):
			gctx.JSON(http.StatusForbidden, web.Error(err))
		case errors.Is(err, domain.ErrDocumentNotFound),
			errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, domain.ErrSameAccount),
			errors.Is(err, domain.ErrContractViolation),
			errors.Is(err, domain.ErrUnknownDocumentKind):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	if !ok {
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInsufficientBalance))
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{transaction}})
}

// readPhoto returns nil when the request carries no photo.
// At most maxPhotoBytes+1 bytes are read so the service can reject oversized files.
func (h *Handler) readPhoto(gctx *gin.Context) (*domain.Attachment, error) {
	header, err := gctx.FormFile(PhotoField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}

		return nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, h.maxPhotoBytes+1))
	if err != nil {
		return nil, err
	}

	return &domain.Attachment{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     content,
	}, nil
}
