package provider

import (
	"strings"

	"github.com/openai/openai-go/v3/option"
)

// openRouterOptions adds the attribution headers OpenRouter uses for its app rankings.
func openRouterOptions() []option.RequestOption {
	return []option.RequestOption{
		option.WithHeader("HTTP-Referer", "https://github.com/arena"),
		option.WithHeader("X-Title", "Model Arena"),
	}
}

// DisplayModel strips vendor prefixes from OpenRouter model names for display.
// "meta-llama/llama-3.2-90b-instruct" → "llama-3.2-90b-instruct"
// "anthropic/claude-sonnet-4" → "claude-sonnet-4"
func DisplayModel(modelName string) string {
	if idx := strings.Index(modelName, "/"); idx != -1 {
		return modelName[idx+1:]
	}
	return modelName
}
