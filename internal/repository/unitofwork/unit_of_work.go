package unitofwork

import (
	"context"

	"amplified-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	MeetingRepository() contract.MeetingRepository
	MeetingSummaryRepository() contract.MeetingSummaryRepository
	MeetingActionRepository() contract.MeetingActionRepository
	TranscriptRepository() contract.TranscriptRepository

	DocumentRepository() contract.DocumentRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository

	LLMPreferenceRepository() contract.LLMPreferenceRepository
	VoiceProfileRepository() contract.VoiceProfileRepository
}
