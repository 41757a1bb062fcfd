package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/edward-jazzhands/connect-four/internal/analytics"
	"github.com/edward-jazzhands/connect-four/internal/game"
	"github.com/edward-jazzhands/connect-four/internal/storage"
)

const maxSimulationGames = 1000

type Server struct {
	router     *gin.Engine
	manager    *game.Manager
	store      storage.Store
	analytics  *analytics.Producer
	logger     *slog.Logger
	randomness float64
	seed       int64
	rows       int
	columns    int
	sweepEvery time.Duration
}

type Config struct {
	// Rows and Columns size sessions, simulations and watch streams that do
	// not ask for a size.
	Rows        int
	Columns     int
	SessionIdle time.Duration
	Randomness  float64
	Seed        int64
	Store       storage.Store
	Analytics   *analytics.Producer
	Logger      *slog.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := cfg.Store
	if store == nil {
		store = storage.NewMemoryStore()
	}
	rows, columns := cfg.Rows, cfg.Columns
	if rows == 0 && columns == 0 {
		rows, columns = game.DefaultRows, game.DefaultColumns
	}
	idle := cfg.SessionIdle
	if idle <= 0 {
		idle = 10 * time.Minute
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	s := &Server{
		router:     router,
		store:      store,
		analytics:  cfg.Analytics,
		logger:     logger,
		randomness: cfg.Randomness,
		seed:       cfg.Seed,
		rows:       rows,
		columns:    columns,
		sweepEvery: idle / 4,
	}
	s.manager = game.NewManager(idle, cfg.Randomness, logger, s.onFinish)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.manager.Count()})
	})
	api := router.Group("/api")
	{
		api.POST("/games", s.handleStart)
		api.GET("/games/:id", s.handleGet)
		api.POST("/games/:id/moves", s.handleMove)
		api.DELETE("/games/:id", s.handleAbandon)
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/winner", s.handleWinner)
		api.POST("/simulations", s.handleRunSimulation)
		api.GET("/simulations", s.handleListSimulations)
	}
	router.GET("/ws/watch", s.handleWatch)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	go s.sweeper(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) sweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.manager.SweepIdle(); n > 0 {
				s.logger.Info("swept idle sessions", "count", n)
			}
		}
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"dur", time.Since(start))
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrColumnFull),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrNoCandidates):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidColumn),
		errors.Is(err, game.ErrInvalidSize),
		errors.Is(err, game.ErrMalformedBoard):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type startRequest struct {
	Rows    int   `json:"rows"`
	Columns int   `json:"columns"`
	Human   int   `json:"human"`
	Seed    int64 `json:"seed"`
}

func (s *Server) handleStart(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Human != 0 && !game.TurnToken(req.Human).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "human must be 1 or 2"})
		return
	}
	if req.Rows == 0 && req.Columns == 0 {
		req.Rows, req.Columns = s.rows, s.columns
	}
	seed := req.Seed
	if seed == 0 {
		seed = s.seed
	}
	st, err := s.manager.Start(c.Request.Context(), game.SessionConfig{
		Rows:    req.Rows,
		Columns: req.Columns,
		Human:   game.TurnToken(req.Human),
		Seed:    seed,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newStateDTO(st))
}

func (s *Server) handleGet(c *gin.Context) {
	st, ok := s.manager.Get(c.Param("id"))
	if !ok {
		s.fail(c, game.ErrGameNotFound)
		return
	}
	c.JSON(http.StatusOK, newStateDTO(st))
}

type moveRequest struct {
	Column string `json:"column" binding:"required"`
}

func (s *Server) handleMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	current, ok := s.manager.Get(id)
	if !ok {
		s.fail(c, game.ErrGameNotFound)
		return
	}
	col, err := game.ParseColumn(req.Column, current.Columns)
	if err != nil {
		s.fail(c, err)
		return
	}
	st, err := s.manager.HandleMove(c.Request.Context(), id, col)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newStateDTO(st))
}

func (s *Server) handleAbandon(c *gin.Context) {
	s.manager.Abandon(c.Param("id"))
	c.Status(http.StatusNoContent)
}

type analyzeRequest struct {
	Board []string `json:"board" binding:"required"`
	Side  int      `json:"side"`
	Seed  int64    `json:"seed"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := game.ParseBoard(req.Board)
	if err != nil {
		s.fail(c, err)
		return
	}
	side := game.TurnToken(req.Side)
	if req.Side == 0 {
		side = game.Side1
	}
	if !side.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be 1 or 2"})
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = s.seed
	}
	strategy := game.NewSeededStrategy(seed)
	strategy.Randomness = s.randomness
	strategy.Logger = s.logger
	d, err := strategy.Decide(b, side)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDecisionDTO(d))
}

type winnerRequest struct {
	Board []string `json:"board" binding:"required"`
}

func (s *Server) handleWinner(c *gin.Context) {
	var req winnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := game.ParseBoard(req.Board)
	if err != nil {
		s.fail(c, err)
		return
	}
	line, ok := game.FindWin(b)
	if !ok {
		c.JSON(http.StatusOK, winnerDTO{Winner: game.Empty.String()})
		return
	}
	c.JSON(http.StatusOK, winnerDTO{
		Winner:    line.Winner.String(),
		Direction: line.Direction.String(),
		Row:       &line.Row,
		Column:    game.ColumnLabel(line.Col),
	})
}

type simulationRequest struct {
	Rows    int   `json:"rows"`
	Columns int   `json:"columns"`
	Games   int   `json:"games" binding:"required"`
	Seed    int64 `json:"seed"`
}

func (s *Server) handleRunSimulation(c *gin.Context) {
	var req simulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Games < 1 || req.Games > maxSimulationGames {
		c.JSON(http.StatusBadRequest, gin.H{"error": "games must be between 1 and " + strconv.Itoa(maxSimulationGames)})
		return
	}
	if req.Rows == 0 && req.Columns == 0 {
		req.Rows, req.Columns = s.rows, s.columns
	}
	b, err := game.NewBoard(req.Rows, req.Columns)
	if err != nil {
		s.fail(c, err)
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = s.seed
	}
	g := s.computerGame(b, seed)
	sum, err := game.NewSimulator(g).Run(c.Request.Context(), req.Games)
	if err != nil {
		s.fail(c, err)
		return
	}
	rec := storage.NewRecord(sum)
	if err := s.store.SaveSimulation(c.Request.Context(), rec); err != nil {
		s.logger.Warn("save simulation failed", "id", rec.ID, "err", err)
	}
	s.analytics.PublishAsync(analytics.EventSimulationFinished, analytics.SimulationFinishedPayload(rec))
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleListSimulations(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	recs, err := s.store.ListSimulations(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if recs == nil {
		recs = []storage.SimulationRecord{}
	}
	c.JSON(http.StatusOK, recs)
}

// computerGame pairs two strategies seeded from one base seed. A zero seed
// leaves both on the clock.
func (s *Server) computerGame(b *game.Board, seed int64) *game.Game {
	second := seed
	if seed != 0 {
		second = seed + 1
	}
	p1, p2 := game.NewSeededStrategy(seed), game.NewSeededStrategy(second)
	for _, st := range []*game.Strategy{p1, p2} {
		st.Randomness = s.randomness
		st.Logger = s.logger
	}
	g := game.NewGame(b, game.NewComputerPlayer(p1), game.NewComputerPlayer(p2))
	g.Logger = s.logger
	return g
}

func (s *Server) onFinish(st game.SessionState) {
	s.logger.Info("session finished",
		"id", st.ID,
		"status", st.Status,
		"winner", st.Result.Winner,
		"moves", st.Result.Player1Moves+st.Result.Player2Moves)
	s.analytics.PublishAsync(analytics.EventGameFinished, analytics.GameFinishedPayload(st))
}
