/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Floor plan quiz sessions
//
// Each session is a Hub goroutine that owns one quiz controller. Every browser
// tab connected to /floorplan/:gameid/ws sees the same round, and every event
// from any tab is applied by the hub one at a time, in arrival order.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - Clicking a room asks the server for a numbered prompt, sent only to that tab
// - Choosing a name, checking and resetting are broadcast to every tab as a round_state
// - The result message is sent after --feedback-delay, and never touches round state
// - Per-client rate limiting of inbound messages
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/floorplan/games/floorplan"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"
)

const (
	gameIDLength   = 8
	gameIDLetters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	sendBufferSize = 16
	writeWait      = 10 * time.Second
)

// Messages coming from clients
type ClientMessage struct {
	Type   string `json:"type"`              // "select", "choose", "check", "reset"
	RoomID int    `json:"room_id,omitempty"` // select / choose
	Choice int    `json:"choice,omitempty"`  // choose, 1-based index into the pool
}

// RoundStateMessage carries everything a client needs to redraw.
type RoundStateMessage struct {
	Type  string         `json:"type"` // "round_state"
	Round floorplan.View `json:"round"`
}

// PromptMessage is sent to a single client after it selects a room.
type PromptMessage struct {
	Type    string             `json:"type"` // "prompt"
	RoomID  int                `json:"room_id"`
	Choices []floorplan.Choice `json:"choices"`
}

// FeedbackMessage is the delayed result message shown after checking.
type FeedbackMessage struct {
	Type    string         `json:"type"`  // "feedback"
	Round   int            `json:"round"` // round the feedback belongs to
	Correct int            `json:"correct"`
	Total   int            `json:"total"`
	Tier    floorplan.Tier `json:"tier"`
	Message string         `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
	limiter  *rate.Limiter
}

type clientEvent struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id      string
	clients map[*Client]bool
	ctrl    *floorplan.Controller

	register chan *Client
	unreg    chan *Client
	events   chan clientEvent
	feedback chan FeedbackMessage
	done     chan struct{}
	stopOnce sync.Once

	mu         sync.RWMutex
	createdAt  time.Time
	lastActive time.Time

	feedbackDelay time.Duration
	metrics       *Metrics
}

func newHub(gameID string, feedbackDelay time.Duration, m *Metrics) *Hub {
	now := time.Now()
	return &Hub{
		id:            gameID,
		clients:       make(map[*Client]bool),
		ctrl:          floorplan.NewController(floorplan.Apartment(), floorplan.NewShuffler(nil)),
		register:      make(chan *Client),
		unreg:         make(chan *Client),
		events:        make(chan clientEvent),
		feedback:      make(chan FeedbackMessage),
		done:          make(chan struct{}),
		createdAt:     now,
		lastActive:    now,
		feedbackDelay: feedbackDelay,
		metrics:       m,
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastActive
}

// stop ends the hub loop, which then disconnects every client.
func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.touch()
			h.clients[c] = true
			h.sendTo(c, h.stateMessage())

		case c := <-h.unreg:
			h.touch()
			h.drop(c)

		case ev := <-h.events:
			h.touch()
			h.handle(cfg, ev)

		case fb := <-h.feedback:
			h.broadcast(fb)

		case <-h.done:
			for c := range h.clients {
				h.drop(c)
				_ = c.conn.Close()
			}
			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) sendTo(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		h.drop(c)
	}
}

func (h *Hub) broadcast(msg any) {
	for c := range h.clients {
		h.sendTo(c, msg)
	}
}

func (h *Hub) stateMessage() RoundStateMessage {
	return RoundStateMessage{
		Type:  "round_state",
		Round: h.ctrl.View(),
	}
}

func (h *Hub) handle(cfg *Config, ev clientEvent) {
	msg := ev.msg

	switch msg.Type {
	case "select":
		prompt, err := h.ctrl.SelectRoom(msg.RoomID)
		if err != nil {
			h.reject(cfg, err)
			return
		}
		if prompt == nil {
			return
		}
		h.sendTo(ev.client, PromptMessage{
			Type:    "prompt",
			RoomID:  prompt.RoomID,
			Choices: prompt.Choices,
		})

	case "choose":
		ok, err := h.ctrl.Choose(msg.RoomID, msg.Choice)
		if err != nil {
			h.reject(cfg, err)
			return
		}
		if ok {
			h.broadcast(h.stateMessage())
		}

	case "check":
		if h.ctrl.Round().Revealed() {
			return
		}
		res, ok := h.ctrl.Check()
		if !ok {
			return
		}
		h.metrics.checked(res.Correct, res.Total)
		logf(cfg, "GAMES: Round %d of %s checked, %d/%d correct", h.ctrl.Round().Number(), h.id, res.Correct, res.Total)

		h.broadcast(h.stateMessage())
		h.scheduleFeedback(FeedbackMessage{
			Type:    "feedback",
			Round:   h.ctrl.Round().Number(),
			Correct: res.Correct,
			Total:   res.Total,
			Tier:    res.Tier(),
			Message: res.Tier().Message(),
		})

	case "reset":
		h.ctrl.Reset()
		h.metrics.roundStarted()
		logf(cfg, "GAMES: Round %d of %s started", h.ctrl.Round().Number(), h.id)

		h.broadcast(h.stateMessage())
	}
}

// reject logs ids that no page we serve would send, and otherwise ignores them.
func (h *Hub) reject(cfg *Config, err error) {
	if errors.Is(err, floorplan.ErrInvalidRoomID) || errors.Is(err, floorplan.ErrUnknownName) {
		logf(cfg, "GAMES: Ignoring event for %s: %v", h.id, err)
		return
	}
	errorf(cfg, "GAMES: Event for %s failed: %v", h.id, err)
}

// scheduleFeedback hands fb back to the hub loop after the feedback delay.
func (h *Hub) scheduleFeedback(fb FeedbackMessage) {
	time.AfterFunc(h.feedbackDelay, func() {
		select {
		case h.feedback <- fb:
		case <-h.done:
		}
	})
}

// enqueue delivers an event to the hub loop unless the hub has stopped.
func (h *Hub) enqueue(ev clientEvent) bool {
	select {
	case h.events <- ev:
		return true
	case <-h.done:
		return false
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "floorplan_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

func validGameID(id string) bool {
	if len(id) != gameIDLength {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(gameIDLetters, r) {
			return false
		}
	}
	return true
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	metrics     *Metrics
}

func newGameManager(ctx context.Context, idleTimeout time.Duration, m *Metrics) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: idleTimeout,
		metrics:     m,
	}
	if idleTimeout > 0 {
		go gm.reaperLoop(ctx)
	}
	go func() {
		<-ctx.Done()
		gm.closeAll()
	}()
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, cfg.feedbackDelay, gm.metrics)
	gm.hubs[gameID] = hub
	gm.metrics.sessionOpened()
	gm.metrics.roundStarted()
	go hub.run(cfg)
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	for {
		buf := make([]byte, gameIDLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, gameIDLength)
		for i := range out {
			out[i] = gameIDLetters[int(buf[i])%len(gameIDLetters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

func (gm *GameManager) count() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return len(gm.hubs)
}

// reap removes hubs that have been idle since before cutoff.
func (gm *GameManager) reap(cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, hub := range gm.hubs {
		if hub.idleSince().Before(cutoff) {
			delete(gm.hubs, id)
			hub.stop()
			gm.metrics.sessionClosed()
			reaped++
		}
	}
	return reaped
}

func (gm *GameManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.reap(time.Now().Add(-gm.idleTimeout))
		}
	}
}

func (gm *GameManager) closeAll() {
	gm.reap(time.Now().Add(time.Hour))
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			errorf(cfg, "SERVE: Websocket upgrade for %s failed: %v", gameID, err)
			return
		}

		hub := gm.getHub(cfg, gameID)

		client := &Client{
			conn:     conn,
			send:     make(chan any, sendBufferSize),
			playerID: playerID,
			limiter:  rate.NewLimiter(rate.Limit(cfg.rateLimit), max(1, int(cfg.rateLimit*2))),
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "GAMES: Player %s connected to %s from %s", playerID, gameID, realIP(r))

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if !c.limiter.Allow() {
			h.metrics.limited()
			continue
		}

		switch msg.Type {
		case "select", "choose", "check", "reset":
			h.metrics.received()
			if !h.enqueue(clientEvent{client: c, msg: msg}) {
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if !validGameID(gameID) {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func getIndexHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.NotFound(w, r)
			return
		}

		data, err := assets.ReadFile("assets/floorplan/index.html")
		if err != nil {
			errs <- err
			http.Error(w, "missing client", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		cacheHeaders(w)
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		if _, err := w.Write(data); err != nil {
			errs <- err
		}
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerFloorplanGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerFloorplanGame(ctx context.Context, cfg *Config, path string, mux *httprouter.Router, m *Metrics, errs chan<- error) *GameManager {
	gm := newGameManager(ctx, cfg.sessionTimeout, m)

	// Root path → redirect to new random game
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	// Per-game client view (HTML)
	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg, errs))

	// Per-game websocket
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	// Per-game QR code
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)

	return gm
}
