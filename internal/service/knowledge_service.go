package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"amplified-be/internal/apperror"
	"amplified-be/internal/dto"
	"amplified-be/internal/entity"
	"amplified-be/internal/pkg/logger"
	"amplified-be/internal/repository/specification"
	"amplified-be/internal/repository/unitofwork"
	"amplified-be/pkg/knowledge"
)

type IKnowledgeService interface {
	CreateDocument(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	ListDocuments(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	GetDocument(ctx context.Context, userId, documentId uuid.UUID) (*dto.DocumentResponse, error)
	DeleteDocument(ctx context.Context, userId, documentId uuid.UUID) error
	Search(ctx context.Context, userId uuid.UUID, req *dto.SearchKnowledgeRequest) ([]*dto.KnowledgeMatchResponse, error)
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	indexer          *knowledge.Indexer
	logger           logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	indexer *knowledge.Indexer,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		indexer:          indexer,
		logger:           log,
	}
}

// CreateDocument stores the document and queues it for embedding. Indexing
// runs async so a slow embedding backend never blocks the upload.
func (s *knowledgeService) CreateDocument(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	source := req.Source
	if source == "" {
		source = "upload"
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc := &entity.Document{
		Id:      uuid.New(),
		UserId:  userId,
		Title:   req.Title,
		Source:  source,
		Content: req.Content,
	}
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishIndexMessage{EntityId: doc.Id, EntityType: entity.EntityTypeDocument}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	s.logger.Info("KnowledgeService", "Document queued for indexing", map[string]interface{}{
		"document_id": doc.Id, "user_id": userId,
	})
	return toDocumentResponse(doc), nil
}

func (s *knowledgeService) findOwnedDocument(ctx context.Context, uow unitofwork.UnitOfWork, userId, documentId uuid.UUID) (*entity.Document, error) {
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.DocumentOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document")
	}
	return doc, nil
}

func (s *knowledgeService) ListDocuments(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.DocumentOwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = toDocumentResponse(d)
	}
	return responses, nil
}

func (s *knowledgeService) GetDocument(ctx context.Context, userId, documentId uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := s.findOwnedDocument(ctx, uow, userId, documentId)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// DeleteDocument removes the document and its chunks together so searches
// never cite a deleted source.
func (s *knowledgeService) DeleteDocument(ctx context.Context, userId, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := s.findOwnedDocument(ctx, uow, userId, documentId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.KnowledgeChunkRepository().DeleteByEntityId(ctx, doc.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (s *knowledgeService) Search(ctx context.Context, userId uuid.UUID, req *dto.SearchKnowledgeRequest) ([]*dto.KnowledgeMatchResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	matches, err := s.indexer.Search(ctx, uow.KnowledgeChunkRepository(), userId, req.Query, req.TopK)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.KnowledgeMatchResponse, len(matches))
	for i, m := range matches {
		responses[i] = &dto.KnowledgeMatchResponse{
			EntityId:    m.Chunk.EntityId,
			EntityType:  m.Chunk.EntityType,
			SourceTitle: m.Chunk.SourceTitle,
			Excerpt:     excerpt(m.Chunk.Content, 200),
			Similarity:  m.Similarity,
		}
	}
	return responses, nil
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:        d.Id,
		Title:     d.Title,
		Source:    d.Source,
		IndexedAt: d.IndexedAt,
		CreatedAt: d.CreatedAt,
	}
}
