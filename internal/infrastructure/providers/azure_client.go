package providers

import (
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/pkg/config"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

// NewAzureClient creates an llm.Client talking to an Azure OpenAI deployment.
// Azure routes requests by deployment name, so the deployment takes the place
// of the model identifier.
func NewAzureClient(settings *config.AzureSettings, log logger.Logger) (llm.Client, error) {
	return &openAIClient{
		client: openai.NewClient(
			azure.WithEndpoint(settings.Endpoint, settings.APIVersion),
			azure.WithAPIKey(settings.APIKey),
		),
		model: settings.Deployment,
		info: llm.ClientInfo{
			Provider: llm.ProviderOpenAI,
			Model:    settings.Deployment,
			Type:     llm.TypeAzure,
		},
		logger: log,
	}, nil
}
