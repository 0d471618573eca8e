package factory

import (
	"sort"
	"time"

	"amplified-be/internal/apperror"
	"amplified-be/internal/config"
	"amplified-be/pkg/llm"
	"amplified-be/pkg/llm/anthropic"
	"amplified-be/pkg/llm/ollama"
	"amplified-be/pkg/llm/openai"
)

// Registry holds the closed set of engines this deployment knows about.
// Unknown engine names are a config error, never a dynamic lookup.
type Registry struct {
	providers map[string]llm.LLMProvider
	defaultId string
}

func NewRegistry(cfg *config.Config) *Registry {
	timeout := time.Duration(cfg.Ai.ProviderTimeout) * time.Second
	providers := map[string]llm.LLMProvider{
		openai.EngineName:    openai.NewOpenAIProvider(cfg.Keys.OpenAI, timeout),
		anthropic.EngineName: anthropic.NewAnthropicProvider(cfg.Keys.Anthropic, timeout),
		ollama.EngineName:    ollama.NewOllamaProvider(cfg.Ai.LocalLLMURL, cfg.Ai.LocalLLMModel, timeout),
	}

	defaultId := cfg.Ai.DefaultEngine
	if _, ok := providers[defaultId]; !ok {
		defaultId = openai.EngineName
	}

	return &Registry{
		providers: providers,
		defaultId: defaultId,
	}
}

func (r *Registry) Get(engine string) (llm.LLMProvider, error) {
	p, ok := r.providers[engine]
	if !ok {
		return nil, apperror.Configf("unknown engine %q, available engines: %v", engine, r.Names())
	}
	return p, nil
}

func (r *Registry) Default() llm.LLMProvider {
	return r.providers[r.defaultId]
}

func (r *Registry) DefaultName() string {
	return r.defaultId
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
