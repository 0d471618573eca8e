package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amplified-be/internal/apperror"
	"amplified-be/internal/config"
	"amplified-be/internal/entity"
	"amplified-be/internal/pkg/logger"
	"amplified-be/pkg/events"
	"amplified-be/pkg/llm/anthropic"
	"amplified-be/pkg/llm/factory"
	"amplified-be/pkg/llm/openai"
)

// engineTestConfig builds a registry where OpenAI carries a credential and
// Anthropic does not, so its Validate fails without any network traffic.
func engineTestConfig() *config.Config {
	return &config.Config{
		Keys: config.APIKeys{OpenAI: "sk-test", Anthropic: ""},
		Ai: config.AIConfig{
			LocalLLMURL:   "http://localhost:11434",
			LocalLLMModel: "llama3.2:3b",
			DefaultEngine: openai.EngineName,
		},
	}
}

func newEngineServiceForTest(t *testing.T, uow *fakeUow, bus IEventPublisher) IEngineService {
	t.Helper()
	return NewEngineService(
		&fakeUowFactory{uow: uow},
		factory.NewRegistry(engineTestConfig()),
		bus,
		logger.NewIsolatedLogger(t.TempDir()+"/test.log"),
	)
}

func TestSelectEngineFailedValidationKeepsPreviousPreference(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{}
	uow.prefs.pref = &entity.UserLLMPreference{
		Id:     uuid.New(),
		UserId: userId,
		Engine: openai.EngineName,
	}

	svc := newEngineServiceForTest(t, uow, nil)

	_, err := svc.SelectEngine(context.Background(), userId, anthropic.EngineName)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConfig, apperror.KindOf(err))

	// The old selection stays committed, nothing was written.
	assert.Empty(t, uow.prefs.upserts)
	assert.Equal(t, openai.EngineName, uow.prefs.pref.Engine)
}

func TestSelectEngineUnknownEngineWritesNothing(t *testing.T) {
	uow := &fakeUow{}
	svc := newEngineServiceForTest(t, uow, nil)

	_, err := svc.SelectEngine(context.Background(), uuid.New(), "gpt5_turbo_max")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConfig, apperror.KindOf(err))
	assert.Empty(t, uow.prefs.upserts)
}

func TestSelectEngineCommitsAfterValidation(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{}
	bus := &recordingEventPublisher{}
	svc := newEngineServiceForTest(t, uow, bus)

	status, err := svc.SelectEngine(context.Background(), userId, openai.EngineName)
	require.NoError(t, err)
	assert.True(t, status.Selected)

	require.Len(t, uow.prefs.upserts, 1)
	assert.Equal(t, openai.EngineName, uow.prefs.upserts[0].Engine)
	assert.Equal(t, userId, uow.prefs.upserts[0].UserId)
	assert.Equal(t, []string{events.TypeEngineSelected}, bus.types())
}
