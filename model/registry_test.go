package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	require.Equal(t, 8, r.Len())
	assert.Equal(t, []string{"gemini", "gpt4o", "grok", "claude", "llama3", "mistral", "deepseek", "perplexity"}, r.IDs())

	native := r.Native()
	assert.Equal(t, "gemini", native.ID)
	assert.True(t, native.IsNative())

	for _, m := range r.Models()[1:] {
		assert.False(t, m.IsNative(), "%s should carry a persona", m.ID)
		assert.NotEmpty(t, m.AvatarColor)
	}
}

func TestRegistryModelsIsACopy(t *testing.T) {
	r := DefaultRegistry()
	models := r.Models()
	models[0].DisplayName = "changed"

	assert.Equal(t, "Gemini 2.5 Flash", r.Models()[0].DisplayName)
}

func TestNewRegistryValidation(t *testing.T) {
	native := ModelDescriptor{ID: "a", DisplayName: "A"}
	persona := ModelDescriptor{ID: "b", DisplayName: "B", PersonaInstruction: "You are B."}

	tests := []struct {
		name        string
		models      []ModelDescriptor
		expectError bool
	}{
		{"valid", []ModelDescriptor{native, persona}, false},
		{"empty", nil, true},
		{"duplicate id", []ModelDescriptor{native, native}, true},
		{"missing id", []ModelDescriptor{native, {DisplayName: "X", PersonaInstruction: "p"}}, true},
		{"no native", []ModelDescriptor{persona}, true},
		{"two natives", []ModelDescriptor{native, {ID: "c"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.models)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	r := DefaultRegistry()

	d, ok := r.Lookup("claude")
	require.True(t, ok)
	assert.Equal(t, "Anthropic", d.ProviderLabel)

	_, ok = r.Lookup("bard")
	assert.False(t, ok)
}

func TestRegistryFind(t *testing.T) {
	r := DefaultRegistry()

	hits := r.Find("deepsk")
	require.NotEmpty(t, hits)
	assert.Equal(t, "deepseek", r.Models()[hits[0]].ID)

	assert.Empty(t, r.Find(""))
	assert.Empty(t, r.Find("zzzzqqq"))
}

func TestInitials(t *testing.T) {
	tests := []struct {
		d    ModelDescriptor
		want string
	}{
		{ModelDescriptor{DisplayName: "Gemini 2.5 Flash"}, "GE"},
		{ModelDescriptor{DisplayName: "x"}, "X"},
		{ModelDescriptor{ID: "llama3"}, "LL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.Initials())
	}
}
