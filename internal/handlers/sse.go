package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/requestdata"
	"github.com/barangaylink/barangaylink-backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		log: log.With("handler", "SSEHandler"),
		hub: hub,
	}
}

// Stream subscribes the caller to the channels named in the "channels"
// query param (comma separated) and holds the connection open.
func (sh *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	channels := parseChannels(c.Query("channels"))
	if len(channels) == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_channels", fmt.Errorf("no valid channels requested"))
		return
	}

	client := sh.hub.NewSSEClient(rd.UserID)
	for _, ch := range channels {
		sh.hub.AddChannel(client, ch)
	}
	defer sh.hub.RemoveClient(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case msg, ok := <-client.Outbound:
			if !ok {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				client.Logger.Warn("Failed to marshal SSE message", "error", err)
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", msg.Event, payload)
			c.Writer.Flush()
		}
	}
}

var knownChannels = map[string]bool{
	sse.ChannelOrdinances: true,
	sse.ChannelMinutes:    true,
	sse.ChannelMaternal:   true,
	sse.ChannelMedicine:   true,
	sse.ChannelSummons:    true,
	sse.ChannelTreasury:   true,
}

func parseChannels(raw string) []string {
	var channels []string
	for _, part := range strings.Split(raw, ",") {
		ch := strings.TrimSpace(part)
		if knownChannels[ch] {
			channels = append(channels, ch)
		}
	}
	return channels
}
