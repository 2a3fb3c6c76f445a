package sse

import (
	"sync"

	"github.com/google/uuid"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
)

type SSEEvent string

const (
	SSEEventOrdinanceChanged SSEEvent = "OrdinanceChanged"
	SSEEventMinutesChanged   SSEEvent = "MinutesChanged"
	SSEEventMaternalChanged  SSEEvent = "MaternalChanged"
	SSEEventMedicineChanged  SSEEvent = "MedicineChanged"
	SSEEventSummonChanged    SSEEvent = "SummonChanged"
	SSEEventTreasuryChanged  SSEEvent = "TreasuryChanged"
)

const (
	ChannelOrdinances = "ordinances"
	ChannelMinutes    = "minutes"
	ChannelMaternal   = "maternal"
	ChannelMedicine   = "medicine"
	ChannelSummons    = "summons"
	ChannelTreasury   = "treasury"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	Logger   *logger.Logger
}

type SSEHub struct {
	mu            sync.RWMutex
	logger        *logger.Logger
	subscriptions map[string]map[*SSEClient]bool
}

func NewSSEHub(log *logger.Logger) *SSEHub {
	return &SSEHub{
		logger:        log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*SSEClient]bool),
	}
}

func (hub *SSEHub) NewSSEClient(userID uuid.UUID) *SSEClient {
	client := &SSEClient{
		ID:       uuid.New(),
		UserID:   userID,
		Channels: make(map[string]bool),
		Outbound: make(chan SSEMessage, 10),
	}
	client.Logger = hub.logger.With("clientID", client.ID)
	return client
}

func (hub *SSEHub) AddChannel(client *SSEClient, channel string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if channel == "" {
		return
	}
	client.Channels[channel] = true

	clients, exists := hub.subscriptions[channel]
	if !exists {
		clients = make(map[*SSEClient]bool)
		hub.subscriptions[channel] = clients
	}
	clients[client] = true

	hub.logger.Debug("SSE client subscribed", "clientID", client.ID, "channel", channel)
}

func (hub *SSEHub) RemoveChannel(client *SSEClient, channel string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if channel == "" {
		return
	}
	delete(client.Channels, channel)

	if subMap, ok := hub.subscriptions[channel]; ok {
		delete(subMap, client)
		if len(subMap) == 0 {
			delete(hub.subscriptions, channel)
		}
	}
	hub.logger.Debug("SSE client unsubscribed from channel", "clientID", client.ID, "channel", channel)
}

func (hub *SSEHub) RemoveClient(client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for ch := range client.Channels {
		if subMap, ok := hub.subscriptions[ch]; ok {
			delete(subMap, client)
			if len(subMap) == 0 {
				delete(hub.subscriptions, ch)
			}
		}
	}
	client.Channels = make(map[string]bool)
	hub.logger.Debug("SSE client unsubscribed from all channels", "clientID", client.ID)
}

func (hub *SSEHub) Broadcast(msg SSEMessage) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	clients, ok := hub.subscriptions[msg.Channel]
	if !ok {
		return
	}
	for client := range clients {
		select {
		case client.Outbound <- msg:
		default:
			hub.logger.Warn("SSE client outbound buffer full, dropping message", "clientID", client.ID, "channel", msg.Channel)
		}
	}
}
