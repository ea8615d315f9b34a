// Package providers contains the LLM provider client implementations backing
// the llm domain contracts: OpenAI and Azure OpenAI through the OpenAI Go SDK
// and Anthropic models through AWS Bedrock.
package providers
