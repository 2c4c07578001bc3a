package fitserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/evefit/fitcalc/pkg/catalog"
	"github.com/evefit/fitcalc/pkg/fit"
	"github.com/evefit/fitcalc/pkg/obs"
)

// hostedFit pairs a *fit.Fit with the server-side bookkeeping the REST/WS
// surface needs but the core engine deliberately doesn't have: string
// holder IDs (holders are identified by pointer in pkg/fit) and the set
// of WebSocket clients watching this fit for invalidation events.
type hostedFit struct {
	id      string
	f       *fit.Fit
	logger  *slog.Logger
	metrics *obs.Metrics

	mu      sync.Mutex
	holders map[string]*fit.Holder
	ids     map[*fit.Holder]string
	nextID  uint64
	pending []invalidatedItem

	clientsMu sync.Mutex
	clients   map[*wsClient]struct{}
}

func newHostedFit(id string, cat *catalog.Catalog, logger *slog.Logger, metrics *obs.Metrics) *hostedFit {
	hf := &hostedFit{
		id:      id,
		logger:  logger,
		metrics: metrics,
		holders: make(map[string]*fit.Holder),
		ids:     make(map[*fit.Holder]string),
		clients: make(map[*wsClient]struct{}),
	}
	hf.f = fit.New(cat, fit.WithLogger(logger))
	hf.f.SetInvalidationHook(hf.onInvalidate)
	return hf
}

// onInvalidate is fit's invalidation hook (see pkg/fit.Fit.SetInvalidationHook).
// It only records holders this server has itself assigned an ID to;
// fit-internal bookkeeping for unregistered holders never reaches a client.
func (hf *hostedFit) onInvalidate(h *fit.Holder, attr catalog.AttrID) {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	id, ok := hf.ids[h]
	if !ok {
		return
	}
	hf.pending = append(hf.pending, invalidatedItem{HolderID: id, AttrID: int32(attr)})
}

// flushInvalidations drains whatever accumulated in onInvalidate during the
// current request and broadcasts it as one batched event. Called once at
// the end of every mutating handler.
func (hf *hostedFit) flushInvalidations() {
	hf.mu.Lock()
	items := hf.pending
	hf.pending = nil
	hf.mu.Unlock()

	if hf.metrics != nil {
		hf.metrics.ObserveInvalidation(len(items))
	}

	if len(items) == 0 {
		return
	}
	hf.broadcast(invalidatedEvent{Type: "invalidated", Entries: items})
}

func (hf *hostedFit) registerHolder(h *fit.Holder) string {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	hf.nextID++
	id := fmt.Sprintf("h%d", hf.nextID)
	hf.holders[id] = h
	hf.ids[h] = id
	return id
}

func (hf *hostedFit) unregisterHolder(id string) {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	if h, ok := hf.holders[id]; ok {
		delete(hf.ids, h)
		delete(hf.holders, id)
	}
}

func (hf *hostedFit) holder(id string) (*fit.Holder, bool) {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	h, ok := hf.holders[id]
	return h, ok
}

func (hf *hostedFit) holderID(h *fit.Holder) string {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	if id, ok := hf.ids[h]; ok {
		return id
	}
	return ""
}

// wsClient is one connected WebSocket watching a hostedFit for invalidation
// events. The writer pump owns the connection; addClient's caller starts it.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func (hf *hostedFit) addClient(c *wsClient) {
	hf.clientsMu.Lock()
	defer hf.clientsMu.Unlock()
	hf.clients[c] = struct{}{}
}

func (hf *hostedFit) removeClient(c *wsClient) {
	hf.clientsMu.Lock()
	defer hf.clientsMu.Unlock()
	if _, ok := hf.clients[c]; ok {
		delete(hf.clients, c)
		close(c.send)
	}
}

// broadcast fans ev out to every connected client, dropping it for any
// client whose send buffer is full rather than blocking the mutation that
// triggered it.
func (hf *hostedFit) broadcast(ev invalidatedEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		hf.logger.Error("fitserver: marshal invalidated event", "error", err)
		return
	}

	hf.clientsMu.Lock()
	defer hf.clientsMu.Unlock()
	for c := range hf.clients {
		select {
		case c.send <- data:
		default:
			hf.logger.Warn("fitserver: dropping invalidated event for slow client", "fit_id", hf.id)
		}
	}
}

func (hf *hostedFit) closeAllClients() {
	hf.clientsMu.Lock()
	defer hf.clientsMu.Unlock()
	for c := range hf.clients {
		close(c.send)
		c.conn.Close()
		delete(hf.clients, c)
	}
}
