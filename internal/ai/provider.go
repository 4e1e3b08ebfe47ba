// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides LLM access for topic generation and draft writing.
// Each provider builds its own requests and parses its own responses, but
// all calls go out through the shared retrying HTTP client; the Selector
// routes pipeline stages to providers by cost: short topic/benchmark
// prompts go to the budget model (Anthropic), long drafts to the quality
// model (OpenAI).
package ai

import (
	"context"
	"fmt"

	"autopress/internal/httpx"
	"autopress/internal/metrics"
)

// Stage labels a pipeline LLM call so the Selector can pick a model by cost.
type Stage string

const (
	StageTopic  Stage = "topic"
	StageBench  Stage = "bench"
	StageDraft  Stage = "draft"
	StageReview Stage = "review"
)

// Provider defines the interface that all LLM providers implement.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the generated text.
	// systemPrompt sets the model's behaviour; userPrompt is the request.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier (e.g., "openai", "claude").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Selector routes stages to providers. The quality provider is required;
// the budget provider is optional and falls back to quality when absent.
type Selector struct {
	quality Provider
	budget  Provider
}

// NewSelector builds a Selector from the OpenAI (quality) and Anthropic
// (budget) configs over the shared retrying HTTP client. Returns an error
// when no quality provider key is set.
func NewSelector(hc *httpx.Client, openAICfg, claudeCfg ProviderConfig) (*Selector, error) {
	if openAICfg.APIKey == "" {
		return nil, fmt.Errorf("ai: no OpenAI API key configured")
	}
	s := &Selector{quality: newOpenAI(hc, openAICfg)}
	if claudeCfg.APIKey != "" {
		s.budget = newClaude(hc, claudeCfg)
	}
	return s, nil
}

// ForStage returns the provider handling the given stage. Topic and
// benchmark calls prefer the budget provider when one is configured.
func (s *Selector) ForStage(stage Stage) Provider {
	if (stage == StageTopic || stage == StageBench) && s.budget != nil {
		return s.budget
	}
	return s.quality
}

// Generate calls the provider selected for the stage.
func (s *Selector) Generate(ctx context.Context, stage Stage, systemPrompt, userPrompt string) (string, error) {
	p := s.ForStage(stage)
	metrics.LLMCalls.WithLabelValues(p.Name(), string(stage)).Inc()
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// Register replaces a provider slot; used by tests to inject fakes.
func (s *Selector) Register(stage Stage, p Provider) {
	if stage == StageTopic || stage == StageBench {
		s.budget = p
		return
	}
	s.quality = p
}
