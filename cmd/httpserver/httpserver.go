// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-petr/dream-bank/internal/attachment"
	"github.com/go-petr/dream-bank/internal/documentdelivery"
	"github.com/go-petr/dream-bank/internal/documentrepo"
	"github.com/go-petr/dream-bank/internal/documentservice"
	"github.com/go-petr/dream-bank/internal/historydelivery"
	"github.com/go-petr/dream-bank/internal/historyrepo"
	"github.com/go-petr/dream-bank/internal/historyservice"
	"github.com/go-petr/dream-bank/internal/middleware"
	"github.com/go-petr/dream-bank/internal/transferdelivery"
	"github.com/go-petr/dream-bank/internal/transferrepo"
	"github.com/go-petr/dream-bank/internal/transferservice"
	"github.com/go-petr/dream-bank/pkg/configpkg"
	"github.com/go-petr/dream-bank/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB         *sql.DB
	Redis      redis.UniversalClient
	Engine     *gin.Engine
	Config     configpkg.Config
	TokenMaker tokenpkg.Maker
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
//
// rdb may be nil, then POST /transfers is served without idempotency keys.
func New(conn *sql.DB, rdb redis.UniversalClient, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	tokenMaker, err := tokenpkg.NewMaker(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	documentRepo := documentrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)
	historyRepo := historyrepo.NewRepoPGS(conn)

	photoStore := attachment.NewOsFileStore(config.MediaRoot)

	documentService := documentservice.New(documentRepo)
	transferService := transferservice.New(transferRepo, documentService, photoStore, config.MaxPhotoBytes)
	historyService := historyservice.New(historyRepo, documentService)

	documentHandler := documentdelivery.NewHandler(documentService)
	transferHandler := transferdelivery.NewHandler(transferService, config.MaxPhotoBytes)
	historyHandler := historydelivery.NewHandler(historyService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/documents", documentHandler.List)
	authRoutes.GET("/documents/:kind/:id/transactions", historyHandler.List)
	authRoutes.GET("/documents/:kind/:id/statement", historyHandler.Statement)
	authRoutes.GET("/counterparties", historyHandler.Counterparties)
	authRoutes.POST("/transactions/:id/viewed", historyHandler.MarkViewed)

	if rdb != nil {
		authRoutes.POST("/transfers", middleware.Idempotency(rdb, config.IdempotencyTTL), transferHandler.Create)
	} else {
		authRoutes.POST("/transfers", transferHandler.Create)
	}

	server := &Server{
		DB:         conn,
		Redis:      rdb,
		Engine:     engine,
		Config:     config,
		TokenMaker: tokenMaker,
	}

	return server, nil
}
