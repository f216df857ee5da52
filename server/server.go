package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/drawguess/broadcast"
	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/monitor"
	"github.com/wfunc/drawguess/network"
	"github.com/wfunc/drawguess/persistence"
	"github.com/wfunc/drawguess/room"
	"github.com/wfunc/drawguess/rpc"
	"github.com/wfunc/drawguess/services"
	"github.com/wfunc/drawguess/session"
)

// Options configure the transport side of the server.
type Options struct {
	HTTPAddress    string
	RPCAddress     string // empty disables the gRPC health server
	AllowedOrigins []string
	Heartbeat      time.Duration
}

// Deps are the game collaborators shared by every room.
type Deps struct {
	Settings  room.Settings
	Words     room.WordSource
	Scheduler room.Scheduler
	Database  persistence.Database // nil disables the game archive
}

type GameServer struct {
	opts           Options
	upgrader       websocket.Upgrader
	router         *gin.Engine
	httpServer     *http.Server
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	results        *services.ResultService
	monitor        *monitor.Monitor

	mutex     sync.Mutex
	rpcServer *rpc.Server
	conns     sync.WaitGroup
}

func NewGameServer(opts Options, deps Deps) *GameServer {
	s := &GameServer{
		opts:           opts,
		sessionManager: session.NewManager(),
		results:        services.NewResultService(deps.Database),
		monitor:        monitor.NewMonitor("drawguess"),
	}
	s.broadcaster = broadcast.NewSessionBroadcaster(s.sessionManager)
	s.roomManager = room.NewRoomManager(deps.Settings, room.Deps{
		Broadcaster: s.broadcaster,
		Scheduler:   deps.Scheduler,
		Words:       deps.Words,
		Observer:    room.Observers{s.monitor, s.results},
	})
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              opts.HTTPAddress,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *GameServer) Handler() http.Handler {
	return s.router
}

func (s *GameServer) Rooms() *room.Manager {
	return s.roomManager
}

// Start serves HTTP (and gRPC health, if configured) until Shutdown.
func (s *GameServer) Start() error {
	if s.opts.RPCAddress != "" {
		rpcServer, err := rpc.NewServer(s.opts.RPCAddress)
		if err != nil {
			return fmt.Errorf("rpc listen: %w", err)
		}
		s.mutex.Lock()
		s.rpcServer = rpcServer
		s.mutex.Unlock()
		go rpcServer.Start()
	}

	logger.Log.Infof("Game server listening on %s", s.opts.HTTPAddress)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections, closes every room so no timer fires
// afterwards, drops the remaining websockets and waits for their handlers.
func (s *GameServer) Shutdown(ctx context.Context) error {
	s.mutex.Lock()
	rpcServer := s.rpcServer
	s.mutex.Unlock()
	if rpcServer != nil {
		rpcServer.SetDraining()
	}

	_ = s.broadcaster.BroadcastToAll(network.EventSystemMessage, "Server shutting down.")
	err := s.httpServer.Shutdown(ctx)

	s.roomManager.CloseAll()
	s.sessionManager.CloseAll()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Log.Warnf("Shutdown: connections still open: %v", ctx.Err())
	}

	if rpcServer != nil {
		rpcServer.Stop()
	}
	s.results.Wait()
	return err
}

func (s *GameServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(s.corsConfig()))

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.monitor.Handler()))
	r.GET("/ws", s.handleWebSocket)

	api := r.Group("/api")
	api.GET("/rooms", s.handleListRooms)
	api.GET("/games/recent", s.handleRecentGames)
	return r
}

func (s *GameServer) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
		MaxAge: 12 * time.Hour,
	}
	if len(s.opts.AllowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.opts.AllowedOrigins
	}
	return cfg
}

// checkOrigin admits non-browser clients, which send no Origin header.
func (s *GameServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.opts.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(s.opts.AllowedOrigins, origin)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log.Debugw("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func (s *GameServer) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.conns.Add(1)
	defer s.conns.Done()
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn, s.opts.Heartbeat)
	sess := session.NewSession(uuid.NewString(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.leaveRoom(sess)
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		env, err := wsConn.ReadEnvelope()
		if err != nil {
			if errors.Is(err, network.ErrMalformedMessage) {
				logger.Log.Debugf("Session %s: %v", sess.GetID(), err)
				continue
			}
			return
		}
		sess.Touch()

		start := time.Now()
		known := s.dispatch(sess, env)
		if !known {
			env.Event = "unknown"
		}
		s.monitor.IncMessagesReceived(env.Event)
		s.monitor.ObserveMessageLatency(time.Since(start))
	}
}
