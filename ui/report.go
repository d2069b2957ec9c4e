package ui

import (
	"fmt"
	"strings"

	appmodel "arena/model"
)

// RenderReport prints a settled cycle as plain text for headless runs.
func RenderReport(registry *appmodel.Registry, sn appmodel.Snapshot, label string) string {
	var sb strings.Builder

	for i, d := range registry.Models() {
		if i > 0 {
			sb.WriteString("\n")
		}
		st := sn.State(d.ID)

		status := st.Status.String()
		if st.Status == appmodel.StatusSuccess {
			status += ", " + formatElapsed(st.ExecutionTime)
		}
		fmt.Fprintf(&sb, "== %s (%s) [%s]\n", d.DisplayName, d.ProviderLabel, status)

		switch st.Status {
		case appmodel.StatusSuccess:
			sb.WriteString(strings.TrimRight(st.Text, "\n"))
			sb.WriteString("\n")
			if !d.IsNative() {
				sb.WriteString(simulatedFootnote(label))
				sb.WriteString("\n")
			}
		case appmodel.StatusError:
			text := st.Text
			if text == "" {
				text = appmodel.FailureText
			}
			sb.WriteString(text + "\n")
			if st.Detail != "" {
				fmt.Fprintf(&sb, "  (%s)\n", st.Detail)
			}
		case appmodel.StatusLoading:
			sb.WriteString(loadingPlaceholder + "\n")
		default:
			sb.WriteString(idlePlaceholder + "\n")
		}
	}
	return sb.String()
}
