package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"amplified-be/internal/apperror"
	"amplified-be/internal/dto"
	"amplified-be/internal/entity"
	"amplified-be/internal/repository/specification"
	"amplified-be/internal/repository/unitofwork"
	"amplified-be/pkg/knowledge"

	"amplified-be/pkg/events"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the indexing topic and embeds artifacts off the
// request path.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	indexer        *knowledge.Indexer
	eventPublisher IEventPublisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	indexer *knowledge.Indexer,
	eventPublisher IEventPublisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		indexer:        indexer,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing %s %s", payload.EntityType, payload.EntityId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	var src knowledge.Source
	switch payload.EntityType {
	case entity.EntityTypeDocument:
		doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.EntityId})
		if err != nil {
			log.Printf("[ERROR] Failed to get document %s: %v", payload.EntityId, err)
			msg.Nack() // Retriable
			return
		}
		if doc == nil {
			log.Printf("[WARN] Document not found, skipping: %s", payload.EntityId)
			msg.Ack() // Deleted before indexing ran
			return
		}
		src = knowledge.Source{
			EntityId:   doc.Id,
			EntityType: entity.EntityTypeDocument,
			UserId:     doc.UserId,
			Title:      doc.Title,
			Content:    doc.Content,
		}
	case entity.EntityTypeMeeting:
		meeting, err := uow.MeetingRepository().FindOne(ctx, specification.ByID{ID: payload.EntityId})
		if err != nil {
			log.Printf("[ERROR] Failed to get meeting %s: %v", payload.EntityId, err)
			msg.Nack()
			return
		}
		if meeting == nil || len(meeting.Summaries) == 0 {
			log.Printf("[WARN] Meeting missing or unsummarized, skipping: %s", payload.EntityId)
			msg.Ack()
			return
		}
		src = knowledge.Source{
			EntityId:   meeting.Id,
			EntityType: entity.EntityTypeMeeting,
			UserId:     meeting.UserId,
			Title:      meeting.Title,
			Content:    meetingSummaryText(meeting),
		}
	default:
		log.Printf("[WARN] Unknown entity type %q, skipping: %s", payload.EntityType, payload.EntityId)
		msg.Ack()
		return
	}

	chunks, err := cs.indexer.BuildChunks(ctx, src)
	if err != nil {
		log.Printf("[ERROR] Embedding %s %s failed: %v", src.EntityType, src.EntityId, err)
		if apperror.IsProvider(err) {
			msg.Nack() // Backend may recover
		} else {
			msg.Ack()
		}
		return
	}

	// Delete-then-insert runs transactionally so a reader never sees the
	// source half indexed.
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Begin tx for %s %s: %v", src.EntityType, src.EntityId, err)
		msg.Nack()
		return
	}

	if err := cs.indexer.Reindex(ctx, uow.KnowledgeChunkRepository(), src.EntityId, chunks); err != nil {
		_ = uow.Rollback()
		log.Printf("[ERROR] Reindex %s %s: %v", src.EntityType, src.EntityId, err)
		msg.Nack()
		return
	}

	if src.EntityType == entity.EntityTypeDocument {
		if err := cs.markDocumentIndexed(ctx, uow, src.EntityId); err != nil {
			_ = uow.Rollback()
			log.Printf("[ERROR] Mark document %s indexed: %v", src.EntityId, err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Commit index for %s %s: %v", src.EntityType, src.EntityId, err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil && src.EntityType == entity.EntityTypeDocument {
		evt := events.NewDocumentIndexed(src.EntityId.String(), src.UserId.String(), len(chunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_INDEXED event: %v", err)
		}
	}

	log.Printf("[INFO] %s %s indexed with %d chunks", src.EntityType, src.EntityId, len(chunks))
	msg.Ack()
}

func (cs *consumerService) markDocumentIndexed(ctx context.Context, uow unitofwork.UnitOfWork, documentId uuid.UUID) error {
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	now := timeNow()
	doc.IndexedAt = &now
	return uow.DocumentRepository().Update(ctx, doc)
}

// meetingSummaryText flattens every session's summary into one indexable
// body, newest session last.
func meetingSummaryText(m *entity.Meeting) string {
	var b strings.Builder
	for _, s := range m.Summaries {
		fmt.Fprintf(&b, "Session %d: %s\n%s\n\n", s.SessionNumber, s.ShortSummary, s.DetailedSummary)
	}
	return strings.TrimSpace(b.String())
}
