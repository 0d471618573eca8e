package service

import (
	"context"

	"github.com/google/uuid"

	"amplified-be/internal/apperror"
	"amplified-be/internal/dto"
	"amplified-be/internal/entity"
	"amplified-be/internal/repository/unitofwork"
)

type IVoiceService interface {
	UpsertProfile(ctx context.Context, userId uuid.UUID, req *dto.UpsertVoiceProfileRequest) (*dto.VoiceProfileResponse, error)
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.VoiceProfileResponse, error)
	DeleteProfile(ctx context.Context, userId uuid.UUID) error
}

type voiceService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewVoiceService(uowFactory unitofwork.RepositoryFactory) IVoiceService {
	return &voiceService{uowFactory: uowFactory}
}

func (s *voiceService) UpsertProfile(ctx context.Context, userId uuid.UUID, req *dto.UpsertVoiceProfileRequest) (*dto.VoiceProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile := &entity.VoiceProfile{
		Id:          uuid.New(),
		UserId:      userId,
		DisplayName: req.DisplayName,
		SampleText:  req.SampleText,
		Calibrated:  req.Calibrated,
	}
	if err := uow.VoiceProfileRepository().Upsert(ctx, profile); err != nil {
		return nil, err
	}

	saved, err := uow.VoiceProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	return toVoiceProfileResponse(saved), nil
}

func (s *voiceService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.VoiceProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.VoiceProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound("voice profile")
	}
	return toVoiceProfileResponse(profile), nil
}

func (s *voiceService) DeleteProfile(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.VoiceProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return err
	}
	if profile == nil {
		return apperror.NotFound("voice profile")
	}
	return uow.VoiceProfileRepository().DeleteByUserId(ctx, userId)
}

func toVoiceProfileResponse(p *entity.VoiceProfile) *dto.VoiceProfileResponse {
	return &dto.VoiceProfileResponse{
		DisplayName: p.DisplayName,
		SampleText:  p.SampleText,
		Calibrated:  p.Calibrated,
		UpdatedAt:   p.UpdatedAt,
	}
}
