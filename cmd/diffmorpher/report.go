package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/walteh/diffmorpher/pkg/status"
)

var summaryOrder = []status.FileStatus{
	status.StatusNew,
	status.StatusModified,
	status.StatusUnchanged,
	status.StatusCopied,
	status.StatusDeleted,
	status.StatusIgnored,
	status.StatusSkipped,
	status.StatusFailed,
}

// formatSummary renders the per-status counts, e.g. "2 new, 1 deleted".
func formatSummary(counts map[status.FileStatus]int) string {
	var parts []string
	for _, st := range summaryOrder {
		if n := counts[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, st))
		}
	}
	if len(parts) == 0 {
		return "no files"
	}
	return strings.Join(parts, ", ")
}

// reportSummary prints the closing banner. Failures are reported by the caller.
func reportSummary(w io.Writer, counts map[status.FileStatus]int, ok bool) {
	if !ok {
		pterm.Warning.WithWriter(w).WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(formatSummary(counts))
		return
	}
	pterm.Success.WithWriter(w).WithPrefix(pterm.Prefix{Text: "✅"}).Println(formatSummary(counts))
}
