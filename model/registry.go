package model

import (
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
)

// Registry is the ordered, immutable list of arena cards. Order decides card placement.
type Registry struct {
	models []ModelDescriptor
	index  map[string]int
}

// NewRegistry validates descriptors: IDs must be unique and non-empty, and
// exactly one descriptor must be native.
func NewRegistry(models []ModelDescriptor) (*Registry, error) {
	if len(models) == 0 {
		return nil, errors.New("registry needs at least one model")
	}

	r := &Registry{
		models: make([]ModelDescriptor, len(models)),
		index:  make(map[string]int, len(models)),
	}
	copy(r.models, models)

	natives := 0
	for i, m := range r.models {
		if m.ID == "" {
			return nil, fmt.Errorf("model at position %d has no id", i)
		}
		if _, dup := r.index[m.ID]; dup {
			return nil, fmt.Errorf("duplicate model id %q", m.ID)
		}
		r.index[m.ID] = i
		if m.IsNative() {
			natives++
		}
	}
	if natives != 1 {
		return nil, fmt.Errorf("registry needs exactly one native model, found %d", natives)
	}
	return r, nil
}

// Models returns the descriptors in display order. The slice is a copy.
func (r *Registry) Models() []ModelDescriptor {
	out := make([]ModelDescriptor, len(r.models))
	copy(out, r.models)
	return out
}

func (r *Registry) Len() int {
	return len(r.models)
}

func (r *Registry) Lookup(id string) (ModelDescriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return ModelDescriptor{}, false
	}
	return r.models[i], true
}

// Native returns the one descriptor without a persona.
func (r *Registry) Native() ModelDescriptor {
	for _, m := range r.models {
		if m.IsNative() {
			return m
		}
	}
	return ModelDescriptor{}
}

// IDs returns model IDs in display order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.models))
	for i, m := range r.models {
		ids[i] = m.ID
	}
	return ids
}

// registryNames adapts the registry to fuzzy.Source over display names.
type registryNames []ModelDescriptor

func (n registryNames) String(i int) string { return n[i].DisplayName + " " + n[i].ProviderLabel }
func (n registryNames) Len() int            { return len(n) }

// Find returns the positions of models matching query, best match first.
// An empty query matches nothing.
func (r *Registry) Find(query string) []int {
	if query == "" {
		return nil
	}
	matches := fuzzy.FindFrom(query, registryNames(r.models))
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

// DefaultModels is the reference line-up. Only the first card queries the
// upstream as itself; the rest are persona simulations.
var DefaultModels = []ModelDescriptor{
	{
		ID:            "gemini",
		DisplayName:   "Gemini 2.5 Flash",
		ProviderLabel: "Google",
		Description:   "Fast multimodal reasoning",
		AvatarColor:   "#3B82F6",
	},
	{
		ID:                 "gpt4o",
		DisplayName:        "ChatGPT-4o",
		ProviderLabel:      "OpenAI",
		Description:        "Flagship with strong reasoning",
		AvatarColor:        "#22C55E",
		PersonaInstruction: "You are ChatGPT-4o, developed by OpenAI. Answer in a logical and courteous manner.",
	},
	{
		ID:                 "grok",
		DisplayName:        "Grok 3",
		ProviderLabel:      "xAI",
		Description:        "Humor and a rebellious streak",
		AvatarColor:        "#FFFFFF",
		PersonaInstruction: "You are Grok, developed by xAI. You are a little sarcastic, humorous and rebellious. Avoid stiff formality and answer in a friendly, witty way.",
	},
	{
		ID:                 "claude",
		DisplayName:        "Claude 3.5 Sonnet",
		ProviderLabel:      "Anthropic",
		Description:        "Natural, nuanced writing",
		AvatarColor:        "#EA580C",
		PersonaInstruction: "You are Claude, developed by Anthropic. Behave as an intelligent, honest and harmless AI assistant. Write very natural, fluent prose and keep long answers easy to read.",
	},
	{
		ID:                 "llama3",
		DisplayName:        "Llama 3 70B",
		ProviderLabel:      "Meta",
		Description:        "Powerful open-weights model",
		AvatarColor:        "#2563EB",
		PersonaInstruction: "You are Llama 3, developed by Meta. Keep your answers concise, accurate and grounded in facts.",
	},
	{
		ID:                 "mistral",
		DisplayName:        "Mistral Large",
		ProviderLabel:      "Mistral AI",
		Description:        "High-performance model from Europe",
		AvatarColor:        "#EAB308",
		PersonaInstruction: "You are Mistral Large, developed by Mistral AI in France. Give efficient, lean and polished answers.",
	},
	{
		ID:                 "deepseek",
		DisplayName:        "DeepSeek-V3",
		ProviderLabel:      "DeepSeek",
		Description:        "Logical thinking and coding",
		AvatarColor:        "#9333EA",
		PersonaInstruction: "You are DeepSeek-V3. You excel at logical thinking and coding. Answer technical questions in detail and with rigorous reasoning.",
	},
	{
		ID:                 "perplexity",
		DisplayName:        "Perplexity",
		ProviderLabel:      "Perplexity",
		Description:        "Search-focused answer engine",
		AvatarColor:        "#14B8A6",
		PersonaInstruction: "You are Perplexity. Behave as if you had just searched for up-to-date information. Keep answers factual and objective, and use phrasing such as \"According to search results...\".",
	},
}

// DefaultRegistry returns a registry over DefaultModels.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultModels)
	if err != nil {
		panic(err)
	}
	return r
}
