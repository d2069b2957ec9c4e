package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appmodel "arena/model"
	"arena/provider/testutil"
)

func TestRenderReport(t *testing.T) {
	reg := testutil.TestRegistry()
	snap := appmodel.Snapshot{
		CycleID: "c1",
		Order:   reg.IDs(),
		States: map[string]appmodel.ResponseState{
			"native": {
				ModelID:       "native",
				Status:        appmodel.StatusSuccess,
				Text:          "Native reply\n",
				ExecutionTime: 1500 * time.Millisecond,
			},
			"persona": {
				ModelID: "persona",
				Status:  appmodel.StatusError,
				Text:    appmodel.FailureText,
				Detail:  "proxy: 500 boom",
			},
		},
	}

	want := "== Native Model (Test) [success, 1.50s]\n" +
		"Native reply\n" +
		"\n" +
		"== Persona Model (Test) [error]\n" +
		"Failed to generate response.\n" +
		"  (proxy: 500 boom)\n"

	assert.Equal(t, want, RenderReport(reg, snap, "Test"))
}

func TestRenderReportMarksSimulatedReplies(t *testing.T) {
	reg := testutil.TestRegistry()
	snap := appmodel.Snapshot{
		Order: reg.IDs(),
		States: map[string]appmodel.ResponseState{
			"persona": {ModelID: "persona", Status: appmodel.StatusSuccess, Text: "Arr"},
		},
	}

	out := RenderReport(reg, snap, "Google Gemini")
	assert.Contains(t, out, "== Native Model (Test) [idle]\n"+idlePlaceholder)
	assert.Contains(t, out, "Arr\n* Simulated response via Google Gemini API\n")
}
