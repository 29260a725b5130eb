package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kube-copilot/copilot/internal/model"
	"github.com/kube-copilot/copilot/internal/protocol"
	"github.com/kube-copilot/copilot/internal/transport"
)

// Manager owns one streaming connection's full lifecycle and presents a
// simplified status + data model.
type Manager interface {
	// Start begins a new session. Idempotent: any existing transport is
	// closed first, and transcript/insights are reset. An invalid language
	// falls back to German, the backend default.
	Start(language model.Language, sessionID string)

	// Stop requests a graceful shutdown. Only meaningful while Listening;
	// otherwise a no-op. The transport stays open until the backend confirms
	// with status "stopped", so no in-flight output is lost.
	Stop()

	// Snapshot returns a copy of the current session state. Insights are
	// ordered newest-first.
	Snapshot() model.Snapshot

	// Stats returns current counters.
	Stats() Stats

	// Close tears the manager down: cancels both heartbeat timers and closes
	// any open transport unconditionally, bypassing the stop handshake.
	// Blocks until the event loop has exited. Safe to call twice.
	Close()
}

type cmdKind int

const (
	cmdStart cmdKind = iota
	cmdStop
)

type command struct {
	kind      cmdKind
	language  model.Language
	sessionID string
}

type evKind int

const (
	evOpened evKind = iota
	evDialFailed
	evTransport
)

// event is one loop input. gen identifies the transport generation it
// belongs to; events from a superseded transport are dropped.
type event struct {
	gen  uint64
	kind evKind
	tr   transport.Client // evOpened
	err  error            // evDialFailed
	te   transport.Event  // evTransport
}

// manager implements the Manager interface.
type manager struct {
	cfg    Config
	logger *slog.Logger
	obs    Observer

	cmds      chan command
	events    chan event
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once

	// Session state. Written only by the event loop; guarded by mu so
	// Snapshot/Stats can read from any goroutine.
	mu         sync.RWMutex
	language   model.Language
	sessionID  string
	status     model.Status
	transcript string
	insights   []model.Insight
	stats      Stats

	// Connection state, private to the event loop.
	gen           uint64
	link          transport.Client // last handle; retained after close for supersede
	live          bool
	stopRequested bool
	pingTicker    *time.Ticker
	pingC         <-chan time.Time
	pongTimer     *time.Timer
	pongC         <-chan time.Time

	handlers map[string]func(data string)
}

// NewManager creates a session manager and starts its event loop.
func NewManager(cfg Config, obs Observer, logger *slog.Logger) Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if obs == nil {
		obs = Callbacks{}
	}

	m := &manager{
		cfg:      cfg,
		logger:   logger,
		obs:      obs,
		cmds:     make(chan command, 8),
		events:   make(chan event, cfg.BufferSize),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		status:   model.StatusIdle,
	}

	// Dispatch table over the closed set of server message kinds.
	m.handlers = map[string]func(string){
		protocol.TypePong:       m.handlePong,
		protocol.TypeStatus:     m.handleStatusMsg,
		protocol.TypeTranscript: m.handleTranscript,
		protocol.TypeInsight:    m.handleInsight,
	}

	go m.run()

	return m
}

// Start enqueues a start command.
func (m *manager) Start(language model.Language, sessionID string) {
	if !language.Valid() {
		m.logger.Warn("invalid language, falling back to German", "language", language)
		language = model.LanguageGerman
	}
	select {
	case m.cmds <- command{kind: cmdStart, language: language, sessionID: sessionID}:
	case <-m.done:
	}
}

// Stop enqueues a stop command.
func (m *manager) Stop() {
	select {
	case m.cmds <- command{kind: cmdStop}:
	case <-m.done:
	}
}

// Snapshot returns a copy of the visible session state.
func (m *manager) Snapshot() model.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	insights := make([]model.Insight, len(m.insights))
	copy(insights, m.insights)

	return model.Snapshot{
		Language:   m.language,
		SessionID:  m.sessionID,
		Status:     m.status,
		Transcript: m.transcript,
		Insights:   insights,
	}
}

// Stats returns current counters.
func (m *manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// Close shuts the manager down and waits for the event loop to exit.
func (m *manager) Close() {
	m.closeOnce.Do(func() { close(m.done) })
	<-m.loopDone
}

// run is the event loop. Every state transition happens here, one event at
// a time: caller commands, dial results, transport events, timer firings.
func (m *manager) run() {
	defer close(m.loopDone)

	for {
		select {
		case <-m.done:
			m.teardown()
			return

		case cmd := <-m.cmds:
			switch cmd.kind {
			case cmdStart:
				m.handleStart(cmd)
			case cmdStop:
				m.handleStop()
			}

		case ev := <-m.events:
			m.handleEvent(ev)

		case <-m.pingC:
			m.sendPing()

		case <-m.pongC:
			m.pongDeadlineExpired()
		}
	}
}

// handleStart supersedes any existing transport and opens a new one.
func (m *manager) handleStart(cmd command) {
	if m.live && m.link != nil {
		// At most one live handle: close the old one before dialing. Its
		// close event arrives with a stale generation and is dropped.
		m.stopHeartbeat()
		m.link.Close(transport.CauseClient)
		m.live = false
	}

	m.gen++
	gen := m.gen
	m.stopRequested = false

	m.mu.Lock()
	m.language = cmd.language
	m.sessionID = cmd.sessionID
	m.transcript = ""
	m.insights = nil
	m.mu.Unlock()

	m.setStatus(model.StatusInitializing)
	m.logger.Info("starting session",
		"language", cmd.language,
		"session_id", cmd.sessionID,
		"url", m.cfg.URL,
	)

	tr := transport.NewClient(transport.Config{
		URL:              m.cfg.URL,
		HandshakeTimeout: m.cfg.HandshakeTimeout,
		WriteTimeout:     m.cfg.WriteTimeout,
		BufferSize:       m.cfg.BufferSize,
	}, m.logger.With("gen", gen))

	go func() {
		if err := tr.Connect(context.Background()); err != nil {
			m.deliver(event{gen: gen, kind: evDialFailed, err: err})
			return
		}
		if !m.deliver(event{gen: gen, kind: evOpened, tr: tr}) {
			// Manager torn down while dialing.
			tr.Close(transport.CauseClient)
		}
	}()
}

// handleStop begins the graceful-stop handshake.
func (m *manager) handleStop() {
	m.mu.RLock()
	status := m.status
	m.mu.RUnlock()

	if status != model.StatusListening {
		m.logger.Debug("stop ignored", "status", status)
		return
	}

	// Mark before sending so a close arriving immediately after is still
	// classified as self-initiated.
	m.stopRequested = true

	data, err := protocol.EncodeStop()
	if err == nil {
		err = m.link.Send(data)
	}
	if err != nil {
		m.logger.Warn("failed to send stop", "error", err)
	}

	m.setStatus(model.StatusStopping)
}

// handleEvent processes one dial result or transport event.
func (m *manager) handleEvent(ev event) {
	if ev.gen != m.gen {
		// Superseded transport; its events are no-ops.
		if ev.kind == evOpened {
			ev.tr.Close(transport.CauseClient)
		}
		return
	}

	switch ev.kind {
	case evOpened:
		m.link = ev.tr
		m.live = true

		go m.pump(ev.gen, ev.tr)

		m.mu.RLock()
		language := m.language
		sessionID := m.sessionID
		m.mu.RUnlock()

		data, err := protocol.EncodeStart(language, sessionID)
		if err == nil {
			err = m.link.Send(data)
		}
		if err != nil {
			// The transport will surface its own close event shortly.
			m.logger.Warn("failed to send start", "error", err)
		}

		m.startHeartbeat()

	case evDialFailed:
		m.logger.Warn("connection failed", "error", ev.err)
		m.setStatus(model.StatusDisconnected)

	case evTransport:
		switch ev.te.Kind {
		case transport.EventMessage:
			m.dispatch(ev.te.Data)
		case transport.EventClosed:
			m.handleClosed(ev.te)
		}
	}
}

// pump forwards transport events into the loop, tagged with their
// generation.
func (m *manager) pump(gen uint64, tr transport.Client) {
	for te := range tr.Events() {
		m.deliver(event{gen: gen, kind: evTransport, te: te})
	}
}

// deliver queues a loop event; reports false if the manager is shut down.
func (m *manager) deliver(ev event) bool {
	select {
	case m.events <- ev:
		return true
	case <-m.done:
		return false
	}
}

// handleClosed processes the transport's final event. Every path that ends a
// transport's life funnels through here with an explicit cause.
func (m *manager) handleClosed(te transport.Event) {
	m.stopHeartbeat()
	m.live = false
	m.stopRequested = false
	// m.link is retained on purpose: a later Start supersedes it.

	if te.Cause.SelfInitiated() {
		m.setStatus(model.StatusIdle)
		return
	}

	if te.Err != nil {
		m.logger.Warn("connection lost", "cause", te.Cause, "error", te.Err)
	} else {
		m.logger.Warn("connection lost", "cause", te.Cause)
	}
	m.setStatus(model.StatusDisconnected)
}

// dispatch parses one server frame and routes it through the handler table.
// Malformed frames and unknown kinds are counted and ignored, never fatal.
func (m *manager) dispatch(data []byte) {
	m.bump(&m.stats.MessagesReceived)

	msg, err := protocol.Parse(data)
	if err != nil {
		m.logger.Debug("ignoring malformed frame", "error", err)
		m.bump(&m.stats.ParseErrors)
		return
	}

	handler, ok := m.handlers[msg.Type]
	if !ok {
		m.logger.Debug("ignoring unknown message kind", "type", msg.Type)
		m.bump(&m.stats.UnknownMessages)
		return
	}

	handler(msg.Data)
}

func (m *manager) handlePong(string) {
	m.bump(&m.stats.PongsReceived)

	if m.pongTimer != nil {
		m.pongTimer.Stop()
		m.pongTimer = nil
		m.pongC = nil
	}
}

func (m *manager) handleStatusMsg(data string) {
	m.mu.RLock()
	status := m.status
	m.mu.RUnlock()

	switch data {
	case protocol.StatusListening:
		if status != model.StatusInitializing {
			m.logger.Debug("unexpected listening milestone", "status", status)
			return
		}
		m.setStatus(model.StatusListening)

	case protocol.StatusStopped:
		if status != model.StatusStopping || !m.stopRequested {
			m.logger.Debug("unexpected stopped milestone", "status", status)
			return
		}
		// Server-confirmed graceful shutdown: the backend has flushed its
		// final output, so closing is safe now. The close event arrives
		// self-initiated and lands the session in Idle.
		m.link.Close(transport.CauseClient)

	default:
		m.logger.Debug("ignoring unknown status payload", "data", data)
	}
}

func (m *manager) handleTranscript(data string) {
	m.mu.Lock()
	m.transcript = data
	m.stats.TranscriptUpdates++
	m.mu.Unlock()

	m.obs.OnTranscript(data)
}

func (m *manager) handleInsight(data string) {
	m.mu.Lock()
	if len(m.insights) > 0 && m.insights[0].Text == data {
		// Immediate duplicate re-emission from the backend pipeline.
		m.stats.InsightsDeduped++
		m.mu.Unlock()
		return
	}

	insight := model.Insight{
		ID:         uuid.New(),
		Text:       data,
		ReceivedAt: time.Now(),
	}
	m.insights = append([]model.Insight{insight}, m.insights...)
	m.stats.InsightsKept++
	m.mu.Unlock()

	m.obs.OnInsight(insight)
}

// startHeartbeat arms the ping ticker for the current transport.
func (m *manager) startHeartbeat() {
	m.pingTicker = time.NewTicker(m.cfg.PingInterval)
	m.pingC = m.pingTicker.C
}

// stopHeartbeat cancels both heartbeat timers. Nil-ing the channels makes
// late firings unobservable even if cancellation races a pending tick, so
// no timer can act on a transport that is no longer current.
func (m *manager) stopHeartbeat() {
	if m.pingTicker != nil {
		m.pingTicker.Stop()
		m.pingTicker = nil
		m.pingC = nil
	}
	if m.pongTimer != nil {
		m.pongTimer.Stop()
		m.pongTimer = nil
		m.pongC = nil
	}
}

// sendPing emits one heartbeat probe and arms the pong deadline.
func (m *manager) sendPing() {
	if !m.live {
		return
	}

	data, err := protocol.EncodePing()
	if err == nil {
		err = m.link.Send(data)
	}
	if err != nil {
		m.logger.Debug("failed to send ping", "error", err)
	}
	m.bump(&m.stats.PingsSent)

	if m.pongC == nil {
		m.pongTimer = time.NewTimer(m.cfg.PongTimeout)
		m.pongC = m.pongTimer.C
	}
}

// pongDeadlineExpired declares the connection dead and forces it closed.
// The resulting close event carries the liveness cause, which is not
// self-initiated, so the ordinary close handling confirms Disconnected.
func (m *manager) pongDeadlineExpired() {
	m.pongTimer = nil
	m.pongC = nil

	m.logger.Warn("pong deadline expired, connection dead",
		"timeout", m.cfg.PongTimeout,
	)

	m.setStatus(model.StatusDisconnected)
	m.stopHeartbeat()
	if m.link != nil {
		m.link.Close(transport.CauseLiveness)
	}
	m.live = false
}

// teardown is the unconditional shutdown path: both timers cancelled and the
// transport closed regardless of state, bypassing the stop handshake.
func (m *manager) teardown() {
	m.stopHeartbeat()
	if m.link != nil && m.live {
		m.link.Close(transport.CauseClient)
		m.live = false
	}
	m.setStatus(model.StatusIdle)
	m.logger.Debug("session manager closed")
}

// setStatus publishes a status transition and notifies the observer.
func (m *manager) setStatus(to model.Status) {
	m.mu.Lock()
	from := m.status
	if from == to {
		m.mu.Unlock()
		return
	}
	m.status = to
	m.mu.Unlock()

	m.logger.Info("session status", "from", from, "to", to)
	m.obs.OnStatusChange(from, to)
}

// bump increments a stats counter under the state lock.
func (m *manager) bump(counter *int64) {
	m.mu.Lock()
	*counter++
	m.mu.Unlock()
}
