package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amplified-be/internal/apperror"
	"amplified-be/internal/config"
	"amplified-be/pkg/llm/anthropic"
	"amplified-be/pkg/llm/ollama"
	"amplified-be/pkg/llm/openai"
)

func testConfig() *config.Config {
	return &config.Config{
		Keys: config.APIKeys{OpenAI: "sk-test", Anthropic: ""},
		Ai: config.AIConfig{
			LocalLLMURL:   "http://localhost:11434",
			LocalLLMModel: "llama3.2:3b",
			DefaultEngine: anthropic.EngineName,
		},
	}
}

func TestRegistryIsAClosedSet(t *testing.T) {
	r := NewRegistry(testConfig())
	assert.Equal(t, []string{anthropic.EngineName, ollama.EngineName, openai.EngineName}, r.Names())
}

func TestRegistryUnknownEngineIsConfigError(t *testing.T) {
	r := NewRegistry(testConfig())
	_, err := r.Get("gpt5_turbo_max")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConfig, apperror.KindOf(err))
}

func TestRegistryDefaultFollowsConfig(t *testing.T) {
	r := NewRegistry(testConfig())
	assert.Equal(t, anthropic.EngineName, r.DefaultName())
	assert.Equal(t, anthropic.EngineName, r.Default().Name())
}

func TestRegistryBogusDefaultFallsBackToOpenAI(t *testing.T) {
	cfg := testConfig()
	cfg.Ai.DefaultEngine = "nonsense"
	r := NewRegistry(cfg)
	assert.Equal(t, openai.EngineName, r.DefaultName())
}

func TestValidateReflectsMissingCredential(t *testing.T) {
	r := NewRegistry(testConfig())

	oai, err := r.Get(openai.EngineName)
	require.NoError(t, err)
	assert.NoError(t, oai.Validate(context.Background()))

	claude, err := r.Get(anthropic.EngineName)
	require.NoError(t, err)
	verr := claude.Validate(context.Background())
	require.Error(t, verr)
	assert.Equal(t, apperror.KindConfig, apperror.KindOf(verr))
}

func TestRegistryAppliesProviderTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Ai.ProviderTimeout = 30
	r := NewRegistry(cfg)

	oai, err := r.Get(openai.EngineName)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, oai.(*openai.OpenAIProvider).Client.Timeout)

	claude, err := r.Get(anthropic.EngineName)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, claude.(*anthropic.AnthropicProvider).Client.Timeout)

	local, err := r.Get(ollama.EngineName)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, local.(*ollama.OllamaProvider).Client.Timeout)
}

func TestRegistryTimeoutDefaultsWhenUnset(t *testing.T) {
	r := NewRegistry(testConfig())

	oai, err := r.Get(openai.EngineName)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, oai.(*openai.OpenAIProvider).Client.Timeout)
}
