package ws

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Jayasakthi-07/foodie/internal/notify"
)

// ErrHubClosed is returned once the hub has stopped accepting work.
var ErrHubClosed = errors.New("websocket hub closed")

const (
	defaultSendBuffer  = 256
	ownerLookupTimeout = 3 * time.Second
)

// OrderOwnerFunc returns the id of the user who placed orderID.
type OrderOwnerFunc func(ctx context.Context, orderID string) (string, error)

// Option customises a Hub.
type Option func(*Hub)

// WithOrderOwner lets customers join the rooms of orders they placed.
// Without it customers cannot subscribe to order rooms at all.
func WithOrderOwner(owner OrderOwnerFunc) Option {
	return func(h *Hub) {
		h.owner = owner
	}
}

type message struct {
	topic string
	body  []byte
}

type subscription struct {
	client *Client
	topic  string
	join   bool
}

type countRequest struct {
	topic string
	reply chan int
}

// Hub keeps websocket clients grouped into topic rooms and delivers
// published events to every member of a room.
type Hub struct {
	logger     *slog.Logger
	sendBuffer int
	owner      OrderOwnerFunc

	register   chan *Client
	unregister chan *Client
	subs       chan subscription
	broadcast  chan message
	counts     chan countRequest

	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	done   chan struct{}
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
}

// NewHub constructs a hub. Start must be called before clients connect.
func NewHub(logger *slog.Logger, opts ...Option) *Hub {
	h := &Hub{
		logger:     logger,
		sendBuffer: defaultSendBuffer,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subs:       make(chan subscription),
		broadcast:  make(chan message, 64),
		counts:     make(chan countRequest),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// authorize reports whether identity may join topic. Customers may join an
// order room only when the order is theirs.
func (h *Hub) authorize(identity Identity, topic string) bool {
	if identity.CanSubscribe(topic) {
		return true
	}
	orderID, ok := notify.OrderIDFromTopic(topic)
	if !ok || h.owner == nil || identity.Staff {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), ownerLookupTimeout)
	defer cancel()
	owner, err := h.owner(ctx, orderID)
	if err != nil {
		h.logger.Debug("order owner lookup failed",
			slog.String("order_id", orderID), slog.String("error", err.Error()))
		return false
	}
	return owner != "" && owner == identity.UserID
}

// Start launches the hub loop.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel

	h.wg.Add(1)
	go h.run(runCtx)
}

// Stop disconnects every client and waits for the loop to exit.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.mu.Unlock()

	h.wg.Wait()
}

// Publish implements notify.Publisher.
func (h *Hub) Publish(ctx context.Context, topic string, event notify.Event) error {
	body, err := notify.Encode(topic, event)
	if err != nil {
		return err
	}

	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	select {
	case h.broadcast <- message{topic: topic, body: body}:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribers returns the number of clients currently in topic's room.
func (h *Hub) Subscribers(topic string) int {
	req := countRequest{topic: topic, reply: make(chan int, 1)}
	select {
	case h.counts <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) run(ctx context.Context) {
	defer h.wg.Done()
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			for _, topic := range c.initialTopics() {
				h.join(c, topic)
			}
		case c := <-h.unregister:
			h.drop(c)
		case s := <-h.subs:
			if !h.clients[s.client] {
				continue
			}
			if s.join {
				h.join(s.client, s.topic)
			} else {
				h.leave(s.client, s.topic)
			}
		case msg := <-h.broadcast:
			for c := range h.rooms[msg.topic] {
				select {
				case c.send <- msg.body:
				default:
					h.logger.Warn("dropping slow websocket client", slog.String("user_id", c.identity.UserID))
					h.drop(c)
				}
			}
		case req := <-h.counts:
			req.reply <- len(h.rooms[req.topic])
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		}
	}
}

func (h *Hub) join(c *Client, topic string) {
	room, ok := h.rooms[topic]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[topic] = room
	}
	room[c] = true
	c.topics[topic] = true
}

func (h *Hub) leave(c *Client, topic string) {
	if room, ok := h.rooms[topic]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, topic)
		}
	}
	delete(c.topics, topic)
}

func (h *Hub) drop(c *Client) {
	if !h.clients[c] {
		return
	}
	for topic := range c.topics {
		h.leave(c, topic)
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) enqueue(ch chan *Client, c *Client) bool {
	select {
	case ch <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) requestSubscription(s subscription) {
	select {
	case h.subs <- s:
	case <-h.done:
	}
}
