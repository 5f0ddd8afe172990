package main

import (
	"context"
	"net/http"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/gate/protocol"
	"github.com/creastat/gate/sink"
	"github.com/creastat/infra/telemetry"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const watchBuffer = 64

// Server exposes entities over WebSocket and metrics over HTTP
type Server struct {
	store    *entity.Store
	gatherer prometheus.Gatherer
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a new server
func NewServer(store *entity.Store, gatherer prometheus.Gatherer, logger telemetry.Logger) *Server {
	return &Server{
		store:    store,
		gatherer: gatherer,
		logger:   logger.WithModule("server"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// serveWS streams changes of one property to the client and applies the
// property writes it sends
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("entity"))
	if err != nil {
		http.Error(w, "invalid entity id", http.StatusBadRequest)
		return
	}
	e, ok := s.store.Entity(id)
	if !ok {
		http.Error(w, "entity not found", http.StatusNotFound)
		return
	}
	property := r.URL.Query().Get("property")
	if !e.Has(property) {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Upgrade failed", telemetry.Err(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, err := e.Watch(ctx, property, watchBuffer)
	if err != nil {
		s.logger.Error("Watch failed", telemetry.Err(err))
		return
	}

	session := uuid.NewString()
	out := sink.NewWebSocketSink(sink.WebSocketSinkConfig{
		Conn:      conn,
		SessionID: session,
		Logger:    s.logger,
	})
	if err := out.Send(protocol.NewSubscriptionStartMessage(session, id.String(), property)); err != nil {
		s.logger.Warn("Failed to start subscription", telemetry.Err(err))
		return
	}

	// Property changes and input errors share the sink, the only writer
	errs := make(chan core.Event, watchBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = out.Process(ctx, sink.MergeEvents(ctx, events, errs))
	}()

	in := sink.NewWebSocketSource(sink.WebSocketSourceConfig{
		Conn:     conn,
		Entities: s.store,
		Logger:   s.logger,
		Errors:   errs,
	})
	if err := in.Run(ctx); err != nil {
		s.logger.Debug("Session ended", telemetry.String("session_id", session), telemetry.Err(err))
	}

	close(errs)
	cancel()
	<-done
	_ = out.Send(protocol.NewSubscriptionEndMessage(session, id.String(), property))
}
