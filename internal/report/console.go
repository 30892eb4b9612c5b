package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/glucosim/internal/loop"
)

var (
	bannerStyle    = lipgloss.NewStyle().Bold(true)
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle     = lipgloss.NewStyle().Width(14)
)

const separatorWidth = 30

// PrintBanner writes the start-of-run banner naming the simulated subject.
func PrintBanner(w io.Writer, subject string, steps int) {
	fmt.Fprintln(w, bannerStyle.Render(fmt.Sprintf("Starting %d-step simulation for %s...", steps, subject)))
}

// PrintSummary writes the end-of-run report block: mean/min/max glucose
// to one decimal place between separator lines, then the output path
// confirmation.
func PrintSummary(w io.Writer, s loop.Summary, outPath string) {
	sep := separatorStyle.Render(strings.Repeat("-", separatorWidth))
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "SIMULATION REPORT")
	fmt.Fprintf(w, "%s %.1f mg/dL\n", labelStyle.Render("Mean Glucose:"), s.Mean)
	fmt.Fprintf(w, "%s %.1f mg/dL\n", labelStyle.Render("Min Glucose:"), s.Min)
	fmt.Fprintf(w, "%s %.1f mg/dL\n", labelStyle.Render("Max Glucose:"), s.Max)
	fmt.Fprintln(w, sep)
	if outPath != "" {
		fmt.Fprintf(w, "Results saved to %q\n", outPath)
	}
}
