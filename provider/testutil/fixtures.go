package testutil

import (
	"arena/model"
)

// NativeModel returns a descriptor without a persona
func NativeModel() model.ModelDescriptor {
	return model.ModelDescriptor{
		ID:            "native",
		DisplayName:   "Native Model",
		ProviderLabel: "Test",
	}
}

// PersonaModel returns a simulated descriptor with the given persona
func PersonaModel(persona string) model.ModelDescriptor {
	return model.ModelDescriptor{
		ID:                 "persona",
		DisplayName:        "Persona Model",
		ProviderLabel:      "Test",
		PersonaInstruction: persona,
	}
}

// TestRegistry returns a two-card registry: one native, one persona
func TestRegistry() *model.Registry {
	r, err := model.NewRegistry([]model.ModelDescriptor{
		NativeModel(),
		PersonaModel("You are a pirate."),
	})
	if err != nil {
		panic(err)
	}
	return r
}
