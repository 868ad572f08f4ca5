// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/flowserve/ledger/internal/accountdelivery"
	"github.com/flowserve/ledger/internal/accountrepo"
	"github.com/flowserve/ledger/internal/accountservice"
	"github.com/flowserve/ledger/internal/allowancedelivery"
	"github.com/flowserve/ledger/internal/allowanceservice"
	"github.com/flowserve/ledger/internal/depositservice"
	"github.com/flowserve/ledger/internal/middleware"
	"github.com/flowserve/ledger/internal/sessiondelivery"
	"github.com/flowserve/ledger/internal/sessionrepo"
	"github.com/flowserve/ledger/internal/sessionservice"
	"github.com/flowserve/ledger/internal/transactionrepo"
	"github.com/flowserve/ledger/internal/transferdelivery"
	"github.com/flowserve/ledger/internal/transferrepo"
	"github.com/flowserve/ledger/internal/transferservice"
	"github.com/flowserve/ledger/internal/userdelivery"
	"github.com/flowserve/ledger/internal/userrepo"
	"github.com/flowserve/ledger/internal/userservice"
	"github.com/flowserve/ledger/internal/webhookdelivery"
	"github.com/flowserve/ledger/pkg/configpkg"
	"github.com/flowserve/ledger/pkg/currencypkg"
	"github.com/flowserve/ledger/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	maxAmount, err := decimal.NewFromString(config.TransferMaxAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_MAX_AMOUNT %q: %w", config.TransferMaxAmount, err)
	}

	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo, config.LedgerCurrency)
	accountService := accountservice.New(accountRepo, transactionRepo)
	transferService := transferservice.New(transferRepo, accountService, maxAmount)
	depositService := depositservice.New(transferRepo, transactionRepo, maxAmount)
	allowanceService := allowanceservice.New(transferRepo, accountService, maxAmount)

	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)
	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	verifier := webhookdelivery.NewHMACVerifier(config.WebhookCashSecret, config.WebhookCardSecret)

	userHandler := userdelivery.NewHandler(userService, sessionService)
	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)
	allowanceHandler := allowancedelivery.NewHandler(allowanceService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)
	webhookHandler := webhookdelivery.NewHandler(depositService, verifier, config.LedgerCurrency)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	engine.POST("/webhooks/cash", webhookHandler.HandleCash)
	engine.POST("/webhooks/card", webhookHandler.HandleCard)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(sessionService.TokenMaker))

	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.GET("/accounts/:id/balance", accountHandler.GetBalance)
	authRoutes.GET("/accounts/:id/transactions", accountHandler.ListTransactions)
	authRoutes.GET("/accounts/:id/subaccounts", accountHandler.ListSubaccounts)

	authRoutes.POST("/transfers", transferHandler.Create)

	authRoutes.POST("/subaccounts", allowanceHandler.Create)
	authRoutes.PATCH("/subaccounts/:id", allowanceHandler.UpdateLimit)
	authRoutes.DELETE("/subaccounts/:id", allowanceHandler.Delete)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("currency", currencypkg.ValidCurrency)
		if err != nil {
			return nil, errors.New("cannot register currency validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
