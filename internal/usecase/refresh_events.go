package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/ws"
	"MarketBoard/pkg/logger"
)

// RefreshEventHandler consumes snapshot refresh events and pushes them to
// websocket clients, so dashboards learn about new data the moment any
// replica scrapes it.
type RefreshEventHandler struct {
	topic string
	hub   *ws.Hub
	log   *logger.Logger
}

// NewRefreshEventHandler builds the handler for a topic.
func NewRefreshEventHandler(topic string, hub *ws.Hub, log *logger.Logger) *RefreshEventHandler {
	return &RefreshEventHandler{topic: topic, hub: hub, log: log}
}

func (h *RefreshEventHandler) Topic() string {
	return h.topic
}

func (h *RefreshEventHandler) Handle(ctx context.Context, payload []byte) error {
	var ev models.RefreshEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode refresh event: %w", err)
	}
	h.log.Debug("refresh event received",
		logger.String("source", ev.SourceID),
		logger.Int("records", ev.Records))
	h.hub.Broadcast(map[string]any{
		"type":      "refresh",
		"sourceId":  ev.SourceID,
		"records":   ev.Records,
		"fallback":  ev.Fallback,
		"fetchedAt": ev.FetchedAt,
	})
	return nil
}
