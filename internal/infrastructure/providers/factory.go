package providers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/pkg/config"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

// BuildRegistry constructs a client for every validated declaration.
//
// Construction runs for all clients even when one fails, so that all errors
// in the configuration can be returned to the user at once.
func BuildRegistry(ctx context.Context, settings map[string]config.ClientSettings, log logger.Logger) (*llm.Registry, error) {
	clients := make(map[string]llm.Client, len(settings))
	var errs []string

	ids := make([]string, 0, len(settings))
	for id := range settings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		var client llm.Client
		var err error

		switch declaration := settings[id].(type) {
		case *config.OpenAISettings:
			client, err = NewOpenAIClient(declaration, log)
		case *config.AzureSettings:
			client, err = NewAzureClient(declaration, log)
		case *config.BedrockAnthropicSettings:
			client, err = NewBedrockAnthropicClient(ctx, declaration, log)
		default:
			err = fmt.Errorf("unknown client settings type %T", settings[id])
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("Error creating client %s: %v", id, err))
			continue
		}
		clients[id] = client
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	log.Info("Created ", len(clients), " LLM client(s)")
	return llm.NewRegistry(clients), nil
}
