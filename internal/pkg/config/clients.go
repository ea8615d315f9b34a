package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newDeclarationValidator reports fields under their wire names so that
// errors can be matched against the submitted JSON document.
func newDeclarationValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// ClientSettings is implemented by the per-provider client declarations.
type ClientSettings interface {
	// ClientType returns the declaration's "type" discriminator.
	ClientType() string

	// Validate checks the declaration. Error messages report only field
	// names and tags since values may contain secrets.
	Validate() error
}

// OpenAISettings declares an OpenAI client.
type OpenAISettings struct {
	Type    string `json:"type" validate:"required"`
	Model   string `json:"model" validate:"required"`
	APIKey  string `json:"api_key" validate:"required"`
	BaseURL string `json:"base_url"`
}

// ClientType returns the declaration type.
func (s *OpenAISettings) ClientType() string { return ClientTypeOpenAI }

// Validate checks the OpenAI declaration.
func (s *OpenAISettings) Validate() error {
	validate := newDeclarationValidator()

	err := validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// AzureSettings declares an Azure OpenAI client.
type AzureSettings struct {
	Type       string `json:"type" validate:"required"`
	APIKey     string `json:"api_key" validate:"required"`
	Endpoint   string `json:"endpoint" validate:"required"`
	Deployment string `json:"deployment" validate:"required"`
	APIVersion string `json:"api_version" validate:"required"`
}

// ClientType returns the declaration type.
func (s *AzureSettings) ClientType() string { return ClientTypeAzure }

// Validate checks the Azure declaration.
func (s *AzureSettings) Validate() error {
	validate := newDeclarationValidator()

	err := validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// BedrockAnthropicSettings declares an Anthropic client served through AWS Bedrock.
type BedrockAnthropicSettings struct {
	Type         string `json:"type" validate:"required"`
	Model        string `json:"model" validate:"required"`
	AWSAccessKey string `json:"aws_access_key" validate:"required,len=20"`
	AWSSecretKey string `json:"aws_secret_key" validate:"required,len=40"`
	Region       string `json:"region" validate:"required"`
}

// ClientType returns the declaration type.
func (s *BedrockAnthropicSettings) ClientType() string { return ClientTypeBedrockAnthropic }

// Validate checks the Bedrock Anthropic declaration.
func (s *BedrockAnthropicSettings) Validate() error {
	validate := newDeclarationValidator()

	err := validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// clientDeclarations is the top-level shape of the clients JSON document.
type clientDeclarations struct {
	Clients map[string]json.RawMessage `json:"clients"`
}

// ParseClientSettings parses the JSON client declarations document into typed,
// validated settings keyed by client id.
//
// All declarations are processed even when one fails, so that every error in
// the document can be reported to the user at once.
func ParseClientSettings(data []byte) (map[string]ClientSettings, error) {
	var declarations clientDeclarations
	if err := json.Unmarshal(data, &declarations); err != nil {
		return nil, fmt.Errorf("failed to parse client configuration: %w", err)
	}

	settings := make(map[string]ClientSettings)
	var errs []string

	ids := make([]string, 0, len(declarations.Clients))
	for id := range declarations.Clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		raw := declarations.Clients[id]

		var discriminator struct {
			Type *string `json:"type"`
		}
		if err := json.Unmarshal(raw, &discriminator); err != nil {
			errs = append(errs, fmt.Sprintf("Client %s is not a valid object.", id))
			continue
		}
		if discriminator.Type == nil {
			errs = append(errs, fmt.Sprintf("Client %s is missing a 'type' property.", id))
			continue
		}

		var clientSettings ClientSettings
		switch *discriminator.Type {
		case ClientTypeOpenAI:
			clientSettings = &OpenAISettings{}
		case ClientTypeAzure:
			clientSettings = &AzureSettings{}
		case ClientTypeBedrockAnthropic:
			clientSettings = &BedrockAnthropicSettings{}
		default:
			errs = append(errs, fmt.Sprintf(
				"Unknown client type: %s. Valid types: [%s %s %s]",
				*discriminator.Type, ClientTypeAzure, ClientTypeBedrockAnthropic, ClientTypeOpenAI))
			continue
		}

		if err := json.Unmarshal(raw, clientSettings); err != nil {
			errs = append(errs, fmt.Sprintf("Error parsing client %s: %v", id, err))
			continue
		}

		if err := clientSettings.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("Error validating client %s: %v", id, err))
			continue
		}

		settings[id] = clientSettings
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	return settings, nil
}

// LoadClientSettings loads the client declarations from the environment or a config file.
//
/// Precedence:
//  1. CONFIG_JSON environment variable (containing a JSON string)
//  2. File specified by the CONFIG_PATH environment variable
//  3. config.json in the current directory
func LoadClientSettings() (map[string]ClientSettings, error) {
	configJSON := os.Getenv("CONFIG_JSON")
	if configJSON == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config.json"
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("config file not found and CONFIG_JSON environment variable not set")
		}
		configJSON = string(data)
	}

	return ParseClientSettings([]byte(configJSON))
}
