package llm

// Provider name constants as reported by the clients endpoint.
const (
	ProviderAnthropic = "Anthropic"
	ProviderOpenAI    = "OpenAI"
	ProviderUnknown   = "Unknown"
)

// Client type constants as reported by the clients endpoint.
const (
	TypeBedrock = "Bedrock"
	TypeOpenAI  = "OpenAI"
	TypeAzure   = "Azure"
	TypeCustom  = "Custom"
)

// ClientInfo describes a configured LLM client.
type ClientInfo struct {
	Provider string
	Model    string
	Type     string
}

// Usage holds the token accounting of a single model invocation.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Add accumulates another invocation's token counts.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// RunResult is the outcome of a free-form prompt run.
type RunResult struct {
	Text  string
	Usage Usage
}

// StructuredResult is the outcome of a structured prompt run. Value holds the
// decoded JSON object conforming to the requested schema.
type StructuredResult struct {
	Value any
	Usage Usage
}
