// OTRadioLink
// Copyright (c) 2026 The OTRadioLink Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of OTRadioLink.
//
// OTRadioLink is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// OTRadioLink is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with OTRadioLink; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	otradiolink "github.com/bimec/OTRadioLink"
	"github.com/bimec/OTRadioLink/listen"
)

// NodeStatus is the last authenticated report from one valve node.
type NodeStatus struct {
	NodeID     string          `json:"node_id"`
	ValvePC    *uint8          `json:"valve_pc,omitempty"`
	Stats      json.RawMessage `json:"stats,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}

// Hub receives valve reports off the radio and serves them over HTTP:
// JSON status, a websocket event stream and Prometheus metrics.
type Hub struct {
	link   *otradiolink.Link
	log    *slog.Logger
	status *cache.Cache

	upgrader websocket.Upgrader
	wsMu     sync.Mutex
	wsConns  map[*websocket.Conn]struct{}

	framesTotal  *prometheus.CounterVec
	valvePercent *prometheus.GaugeVec
}

// NewHub creates a hub over link. statusTTL bounds how long a node's
// last report counts as current.
func NewHub(link *otradiolink.Link, logger *slog.Logger, statusTTL time.Duration) *Hub {
	return &Hub{
		link:    link,
		log:     logger,
		status:  cache.New(statusTTL, statusTTL/2),
		wsConns: make(map[*websocket.Conn]struct{}),
		framesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trvhub_frames_total",
			Help: "Received radio frames by outcome.",
		}, []string{"outcome"}),
		valvePercent: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "trvhub_valve_percent_open",
			Help: "Last reported valve percentage open per node.",
		}, []string{"node"}),
	}
}

// Run receives frames and serves HTTP until ctx is cancelled.
func (h *Hub) Run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/status", h.handleStatus)
	mux.HandleFunc("/ws", h.handleWS)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		h.log.Info("http listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	listener := listen.New(h.link, &listen.Config{
		OnFrame: h.onFrame,
		OnError: func(err error) error {
			h.framesTotal.WithLabelValues(outcomeLabel(err)).Inc()
			h.log.Warn("frame rejected", "err", err)
			return nil
		},
		ErrorBackoff: 100 * time.Millisecond,
	})
	go func() {
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("listener failed: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	h.closeAllWS()
	return runErr
}

// outcomeLabel maps a decode failure onto a small metric label set.
func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, otradiolink.ErrReplayDetected):
		return "replay"
	case errors.Is(err, otradiolink.ErrAuthenticationFailed):
		return "auth_failed"
	case errors.Is(err, otradiolink.ErrNoAssociation):
		return "unknown_sender"
	default:
		return "invalid"
	}
}

// onFrame records one authenticated valve report.
func (h *Hub) onFrame(f listen.Frame) error {
	h.framesTotal.WithLabelValues("ok").Inc()
	node := hex.EncodeToString(f.SenderID)

	st := NodeStatus{
		NodeID:     node,
		ReceivedAt: time.Now().UTC(),
	}
	if len(f.Body) >= 2 {
		if pc := f.Body[0]; pc <= 100 {
			v := pc
			st.ValvePC = &v
			h.valvePercent.WithLabelValues(node).Set(float64(pc))
		}
		if f.Body[1]&0x10 != 0 && len(f.Body) > 2 {
			// Stats JSON arrives with its closing brace trimmed to save
			// a byte on the wire.
			raw := string(f.Body[2:])
			if !strings.HasSuffix(raw, "}") {
				raw += "}"
			}
			if json.Valid([]byte(raw)) {
				st.Stats = json.RawMessage(raw)
			} else {
				h.log.Warn("discarding malformed stats payload", "node", node)
			}
		}
	}

	h.status.Set(node, st, cache.DefaultExpiration)
	h.log.Info("valve report", "node", node, "valve_pc", st.ValvePC)
	h.broadcast(st)
	return nil
}

// handleStatus serves the current status of every fresh node.
func (h *Hub) handleStatus(w http.ResponseWriter, _ *http.Request) {
	all := make([]NodeStatus, 0)
	for _, item := range h.status.Items() {
		if st, ok := item.Object.(NodeStatus); ok {
			all = append(all, st)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(all); err != nil {
		h.log.Warn("status encode failed", "err", err)
	}
}

// handleWS upgrades to a websocket and streams node status events.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	h.wsMu.Lock()
	h.wsConns[conn] = struct{}{}
	h.wsMu.Unlock()

	// Drain reads so close frames are processed; drop on any error.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.dropWS(conn)
				return
			}
		}
	}()
}

// broadcast pushes one status event to every websocket client.
func (h *Hub) broadcast(st NodeStatus) {
	payload, err := json.Marshal(st)
	if err != nil {
		return
	}
	h.wsMu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.wsConns))
	for c := range h.wsConns {
		conns = append(conns, c)
	}
	h.wsMu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.dropWS(c)
		}
	}
}

func (h *Hub) dropWS(conn *websocket.Conn) {
	h.wsMu.Lock()
	delete(h.wsConns, conn)
	h.wsMu.Unlock()
	_ = conn.Close()
}

func (h *Hub) closeAllWS() {
	h.wsMu.Lock()
	defer h.wsMu.Unlock()
	for c := range h.wsConns {
		_ = c.Close()
	}
	h.wsConns = map[*websocket.Conn]struct{}{}
}
