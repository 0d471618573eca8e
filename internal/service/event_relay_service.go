package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"amplified-be/internal/dto"
	"amplified-be/internal/pkg/logger"
	"amplified-be/pkg/events"
	pktNats "amplified-be/pkg/nats"
)

// EventSink is where relayed bus events land, implemented by the websocket
// hub.
type EventSink interface {
	Send(userID uuid.UUID, event dto.WsEvent)
}

type IEventRelayService interface {
	Start() error
}

// eventRelayService forwards domain events from the NATS bus to the user's
// open sockets. Events produced on one instance reach clients connected to
// any instance because the hub also fans out through Redis.
type eventRelayService struct {
	subscriber *pktNats.Subscriber
	sink       EventSink
	logger     logger.ILogger
}

func NewEventRelayService(subscriber *pktNats.Subscriber, sink EventSink, log logger.ILogger) IEventRelayService {
	return &eventRelayService{
		subscriber: subscriber,
		sink:       sink,
		logger:     log,
	}
}

func (s *eventRelayService) Start() error {
	return s.subscriber.Subscribe("events.>", "ws-relay", s.relay)
}

func (s *eventRelayService) relay(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	rawUserId, ok := payload["user_id"].(string)
	if !ok || rawUserId == "" {
		// Not user-addressed, nothing to deliver.
		return nil
	}
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		s.logger.Warn("EventRelay", "Event carries malformed user_id", map[string]interface{}{
			"type": event.EventType(), "user_id": rawUserId,
		})
		return nil
	}

	s.sink.Send(userId, dto.WsEvent{
		Type:    strings.ToLower(event.EventType()),
		Payload: payload,
	})
	return nil
}
