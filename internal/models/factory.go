package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/nikhil181511/smartplan/internal/config"
)

// CreateModel builds a chat model from a provider config.
func CreateModel(ctx context.Context, cfg config.ProviderConfig) (model.ToolCallingChatModel, error) {
	switch strings.ToLower(cfg.Driver) {
	case "openai":
		return newOpenAI(ctx, cfg)
	case "ollama":
		return newOllama(ctx, cfg)
	case "claude":
		return newClaude(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown model driver: %s", cfg.Driver)
	}
}
