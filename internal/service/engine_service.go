package service

import (
	"context"

	"github.com/google/uuid"

	"amplified-be/internal/dto"
	"amplified-be/internal/entity"
	"amplified-be/internal/pkg/logger"
	"amplified-be/internal/repository/unitofwork"
	"amplified-be/pkg/events"
	"amplified-be/pkg/llm/factory"
)

type IEngineService interface {
	ListEngines(ctx context.Context, userId uuid.UUID) (*dto.EngineListResponse, error)
	SelectEngine(ctx context.Context, userId uuid.UUID, engine string) (*dto.EngineStatusResponse, error)
}

type engineService struct {
	uowFactory     unitofwork.RepositoryFactory
	registry       *factory.Registry
	eventPublisher IEventPublisher
	logger         logger.ILogger
}

func NewEngineService(
	uowFactory unitofwork.RepositoryFactory,
	registry *factory.Registry,
	eventPublisher IEventPublisher,
	log logger.ILogger,
) IEngineService {
	return &engineService{
		uowFactory:     uowFactory,
		registry:       registry,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *engineService) selectedEngine(ctx context.Context, userId uuid.UUID) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pref, err := uow.LLMPreferenceRepository().FindByUserId(ctx, userId)
	if err != nil {
		return "", err
	}
	if pref == nil {
		return s.registry.DefaultName(), nil
	}
	return pref.Engine, nil
}

func (s *engineService) ListEngines(ctx context.Context, userId uuid.UUID) (*dto.EngineListResponse, error) {
	selected, err := s.selectedEngine(ctx, userId)
	if err != nil {
		return nil, err
	}

	engines := make([]dto.EngineStatusResponse, 0)
	for _, name := range s.registry.Names() {
		provider, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		status := dto.EngineStatusResponse{
			Engine:    name,
			Available: true,
			Selected:  name == selected,
		}
		if verr := provider.Validate(ctx); verr != nil {
			status.Available = false
			status.Reason = verr.Error()
		}
		engines = append(engines, status)
	}

	return &dto.EngineListResponse{
		Engines:  engines,
		Selected: selected,
	}, nil
}

// SelectEngine commits a preference only after the engine proves usable. A
// failed validation leaves the previous selection untouched.
func (s *engineService) SelectEngine(ctx context.Context, userId uuid.UUID, engine string) (*dto.EngineStatusResponse, error) {
	provider, err := s.registry.Get(engine)
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(ctx); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	pref := &entity.UserLLMPreference{
		Id:     uuid.New(),
		UserId: userId,
		Engine: engine,
	}
	if err := uow.LLMPreferenceRepository().Upsert(ctx, pref); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewEngineSelected(userId.String(), engine)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("EngineService", "Failed to publish ENGINE_SELECTED event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("EngineService", "Engine selected", map[string]interface{}{
		"user_id": userId, "engine": engine,
	})
	return &dto.EngineStatusResponse{
		Engine:    engine,
		Available: true,
		Selected:  true,
	}, nil
}
