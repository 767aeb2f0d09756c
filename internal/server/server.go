package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hangerine/coin-trader/internal/domain"
	"github.com/hangerine/coin-trader/internal/engine"
	"github.com/hangerine/coin-trader/internal/event"
	"github.com/hangerine/coin-trader/internal/infra"
	"github.com/hangerine/coin-trader/internal/infra/storage"
	"github.com/hangerine/coin-trader/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Server is the HTTP surface of the dashboard: REST for history, sizing and
// trading, WebSocket for live view streaming. It never mutates engine state
// directly; mutations go through the controller inbox.
type Server struct {
	cfg        *infra.Config
	controller *engine.Controller
	store      *service.MarketStore
	storage    *storage.Storage
	submitter  domain.OrderSubmitter
	balances   domain.BalanceProvider
	hub        *Hub
	httpSrv    *http.Server
}

// New creates the server and its routes.
func New(
	cfg *infra.Config,
	controller *engine.Controller,
	store *service.MarketStore,
	store2 *storage.Storage,
	submitter domain.OrderSubmitter,
	balances domain.BalanceProvider,
	hub *Hub,
) *Server {
	s := &Server{
		cfg:        cfg,
		controller: controller,
		store:      store,
		storage:    store2,
		submitter:  submitter,
		balances:   balances,
		hub:        hub,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/market/history", s.handleMarketHistory)
		api.GET("/market/current", s.handleMarketCurrent)
		api.GET("/views", s.handleViews)
		api.GET("/trades", s.handleTrades)
		api.GET("/keys", s.handleKeys)
		api.POST("/keys", s.handleSaveKey)
		api.GET("/assets", s.handleAssets)
		api.POST("/assets/:symbol/favorite", s.handleToggleFavorite)
		api.DELETE("/assets/:symbol", s.handleRemoveAsset)
		api.GET("/balances", s.handleBalances)
		api.POST("/trade/preview", s.handleTradePreview)
		api.POST("/trade", s.handleTrade)
		api.POST("/ingest", s.handleIngest)
		api.GET("/status", s.handleStatus)
	}
	router.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	s.httpSrv = &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}
	return s
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) {
	go func() {
		slog.Info("HTTP server listening", slog.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", slog.Any("error", err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()
}

func (s *Server) handleMarketHistory(c *gin.Context) {
	symbol := strings.ToUpper(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "500"))

	ticks, err := s.storage.RecentTicks(symbol, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ticks)
}

func (s *Server) handleMarketCurrent(c *gin.Context) {
	type current struct {
		Symbol string      `json:"symbol"`
		Tick   domain.Tick `json:"tick"`
	}
	result := make([]current, 0)
	for _, symbol := range s.store.Symbols() {
		if tick, ok := s.store.Last(symbol); ok {
			result = append(result, current{Symbol: symbol, Tick: tick})
		}
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleViews(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Views())
}

func (s *Server) handleTrades(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	trades, err := s.storage.RecentTrades(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trades)
}

func (s *Server) handleKeys(c *gin.Context) {
	keys, err := s.storage.GetAPIKeys()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, keys)
}

func (s *Server) handleSaveKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		Exchange  string `json:"exchange"`
		AccessKey string `json:"access_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.storage.SaveAPIKey(req.Name, strings.ToUpper(req.Exchange), req.AccessKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (s *Server) handleAssets(c *gin.Context) {
	assets, err := s.storage.GetAllAssets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (s *Server) handleToggleFavorite(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	fav, err := s.storage.ToggleFavorite(symbol)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "is_favorite": fav})
}

// handleRemoveAsset takes an asset off the dashboard. The window state goes
// through the controller (single writer); catalog cleanup is direct.
func (s *Server) handleRemoveAsset(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	s.controller.Inbox() <- &event.RemoveAssetEvent{Symbol: symbol}
	if err := s.storage.DeleteAsset(symbol); err != nil {
		slog.Warn("Failed to delete asset from catalog",
			slog.String("symbol", symbol), slog.Any("error", err))
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed", "symbol": symbol})
}

func (s *Server) handleBalances(c *gin.Context) {
	book, err := s.balances.Balances(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balances": book.Snapshot(),
		"sellable": service.SellableAssets(book),
	})
}

// tradeRequest is the order-entry payload for preview and submission.
type tradeRequest struct {
	FiatAmount decimal.Decimal `json:"fiat_amount"`
	Asset      string          `json:"asset"`
	Exchange   string          `json:"exchange"`
	Side       string          `json:"side"`
}

func (r *tradeRequest) normalize() service.SizingRequest {
	side := strings.ToUpper(r.Side)
	exchange := strings.ToUpper(r.Exchange)
	if exchange == "" {
		exchange = domain.ExchangeBithumb
	}
	return service.SizingRequest{
		FiatAmount: r.FiatAmount,
		Asset:      strings.ToUpper(r.Asset),
		Exchange:   exchange,
		Side:       side,
	}
}

// size runs the sizing calculator against the live price and balances.
func (s *Server) size(ctx context.Context, req service.SizingRequest) (service.TradeSizingResult, decimal.Decimal) {
	price := s.store.PriceOn(req.Asset, req.Exchange)
	book, err := s.balances.Balances(ctx)
	if err != nil {
		slog.Warn("Balance fetch failed", slog.Any("error", err))
		book = nil
	}
	return service.EstimateOrder(req, price, book), price
}

func (s *Server) handleTradePreview(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sized := req.normalize()
	result, _ := s.size(c.Request.Context(), sized)
	c.JSON(http.StatusOK, gin.H{
		"sizing":         result,
		"quote_currency": domain.QuoteCurrency(sized.Exchange),
	})
}

func (s *Server) handleTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sized := req.normalize()
	result, price := s.size(c.Request.Context(), sized)
	if !result.Feasible {
		// Infeasibility is user-visible but non-fatal; surface the reason
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	order := domain.Order{
		Symbol:     sized.Asset,
		Exchange:   sized.Exchange,
		Side:       sized.Side,
		FiatAmount: sized.FiatAmount,
		Quantity:   result.EstimatedQuantity,
		Price:      price,
		CreatedAt:  time.Now(),
	}
	fill, err := s.submitter.Submit(c.Request.Context(), order)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if err := s.storage.SaveTrade(fill); err != nil {
		slog.Error("Failed to persist trade", slog.Any("error", err))
	}
	infra.GlobalMetrics.RecordTrade()

	c.JSON(http.StatusOK, gin.H{"sizing": result, "fill": fill})
}

// handleIngest accepts an external snapshot push in either the normalized
// or legacy flat shape. The engine stays transport-agnostic: this is just
// another producer for the same inbox the poller uses.
func (s *Server) handleIngest(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := service.DecodeSnapshot(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev := event.AcquireSnapshotEvent()
	ev.Snapshot = snap
	s.controller.Inbox() <- ev
	infra.GlobalMetrics.RecordSnapshot()

	c.JSON(http.StatusAccepted, gin.H{"assets": len(snap.Assets)})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, infra.GlobalMetrics.Snapshot())
}
