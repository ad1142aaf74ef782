package factory

import (
	"fmt"

	"job-wizard-be/pkg/llm"
	"job-wizard-be/pkg/llm/huggingface"
	"job-wizard-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, huggingFaceKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(huggingFaceKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
