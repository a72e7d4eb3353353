// Package report renders compatibility reports for the terminal.
package report

import (
	"canirun/internal/domain"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	barLength   = 20
	ruleWidth   = 60
	unknownText = "Unknown / Not Have"
)

var (
	colorCyan    = lipgloss.Color("#2CD7C7")
	colorGreen   = lipgloss.Color("#2ECC71")
	colorYellow  = lipgloss.Color("#F4D03F")
	colorRed     = lipgloss.Color("#E74C3C")
	colorMagenta = lipgloss.Color("#C39BD3")
)

var componentIcons = map[string]string{
	domain.ComponentStorage:   "💾",
	domain.ComponentCPUFreq:   "🖥️",
	domain.ComponentCPUCores:  "🖥️",
	domain.ComponentGPUMemory: "🎮",
	domain.ComponentRAM:       "🧠",
}

var tips = []string{
	"Close unnecessary programs before gaming",
	"Update your graphics drivers",
	"Consider lowering game settings if performance is poor",
	"Check for game-specific optimization guides",
}

// Renderer writes human-readable reports. Colors are dropped automatically
// when w is not a terminal.
type Renderer struct {
	w     io.Writer
	title lipgloss.Style
	label lipgloss.Style
	your  lipgloss.Style
	req   lipgloss.Style
	green lipgloss.Style
	amber lipgloss.Style
	red   lipgloss.Style
}

func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		w:     w,
		title: r.NewStyle().Bold(true).Foreground(colorCyan),
		label: r.NewStyle().Bold(true).Foreground(colorCyan),
		your:  r.NewStyle().Foreground(colorYellow),
		req:   r.NewStyle().Foreground(colorMagenta),
		green: r.NewStyle().Foreground(colorGreen),
		amber: r.NewStyle().Foreground(colorYellow),
		red:   r.NewStyle().Foreground(colorRed),
	}
}

// Report prints the header, one block per component, the summary and tips.
func (r *Renderer) Report(rep *domain.Report) error {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintln(&b, r.title.Render("🎮 CAN I RUN THIS GAME? 🎮"))
	fmt.Fprintln(&b, r.title.Render(" "+rep.GameName+" "))
	fmt.Fprintf(&b, "Tier: %s\n", rep.Tier)
	fmt.Fprintln(&b, rule)

	for _, res := range rep.Results {
		r.component(&b, res)
	}

	r.summary(&b, rep.Summary, rep.Failed)

	fmt.Fprintf(&b, "\n%s\n", r.label.Render("💡 Tips:"))
	for _, tip := range tips {
		fmt.Fprintf(&b, "   • %s\n", tip)
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) component(b *strings.Builder, res domain.ComponentResult) {
	status, icon := r.red.Bold(true).Render("FAILED"), "❌"
	if res.Passed {
		status, icon = r.green.Bold(true).Render("PASSED"), "✅"
	}

	fmt.Fprintf(b, "\n%s %s\n", icon, r.label.Render(componentIcons[res.Name]+" "+res.Name))
	fmt.Fprintf(b, "   Your System: %s\n", r.your.Render(FormatValue(res.YourValue, res.Unit)))
	fmt.Fprintf(b, "   Required:    %s\n", r.req.Render(FormatValue(res.RequiredValue, res.Unit)))
	fmt.Fprintf(b, "   Status:      %s\n", status)
	if res.Percentage > 0 {
		fmt.Fprintf(b, "   Performance: %s %.1f%%\n", r.progressBar(res.Percentage), res.Percentage)
	}
}

func (r *Renderer) summary(b *strings.Builder, s domain.Summary, failed []string) {
	rule := strings.Repeat("=", ruleWidth)

	notReady := "🎮 Game may not run properly. Consider upgrading the failed components."

	var style, adviceStyle lipgloss.Style
	var headline, advice string
	switch s.Verdict {
	case domain.VerdictFully:
		style, headline = r.green, "🎉 FULLY COMPATIBLE"
		adviceStyle, advice = r.green, "🎮 You're all set to play this game!"
	case domain.VerdictMostly:
		style, headline = r.amber, "⚠️ MOSTLY COMPATIBLE"
		adviceStyle, advice = r.amber, "🎮 Game should run, but consider upgrading failed components for better performance."
	case domain.VerdictPartially:
		style, headline = r.amber, "🔧 PARTIALLY COMPATIBLE"
		adviceStyle, advice = r.red, notReady
	default:
		style, headline = r.red, "❌ NOT COMPATIBLE"
		adviceStyle, advice = r.red, notReady
	}

	fmt.Fprintf(b, "\n%s\n", rule)
	fmt.Fprintln(b, style.Bold(true).Render(headline))
	fmt.Fprintf(b, "Components Passed: %s\n", r.label.UnsetBold().Render(fmt.Sprintf("%d/%d", s.Passed, s.Total)))
	fmt.Fprintln(b, rule)

	if len(failed) > 0 {
		fmt.Fprintf(b, "\n%s\n", r.red.Render("⚠️ Components that need upgrading:"))
		for _, name := range failed {
			fmt.Fprintf(b, "   • %s\n", name)
		}
	}

	fmt.Fprintf(b, "\n%s\n", adviceStyle.Render(advice))
}

// Profile prints the local machine figures.
func (r *Renderer) Profile(p *domain.LocalSystemProfile) error {
	var b strings.Builder
	fmt.Fprintln(&b, r.title.Render("🖥️ Local system"))
	fmt.Fprintf(&b, "   Free storage:  %s\n", FormatValue(&p.FreeStorageGB, "GB"))
	fmt.Fprintf(&b, "   CPU frequency: %s\n", FormatValue(&p.CPUMaxFreqGHz, "GHz"))
	cores := float64(p.CPUCoreCount)
	fmt.Fprintf(&b, "   CPU cores:     %s\n", FormatValue(&cores, "Core/s"))
	fmt.Fprintf(&b, "   GPU memory:    %s\n", FormatValue(p.GPUMemoryGB, "GB"))
	fmt.Fprintf(&b, "   RAM:           %s\n", FormatValue(&p.RAMGB, "GB"))

	_, err := io.WriteString(r.w, b.String())
	return err
}

// JSON writes v indented.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatValue prints whole numbers as integers and anything else with one
// decimal. Unknown values get a placeholder.
func FormatValue(v *float64, unit string) string {
	if v == nil {
		return unknownText
	}
	var s string
	if *v == math.Trunc(*v) {
		s = fmt.Sprintf("%d", int64(*v))
	} else {
		s = fmt.Sprintf("%.1f", *v)
	}
	return strings.TrimSpace(s + " " + unit)
}

func (r *Renderer) progressBar(pct float64) string {
	filled := int(barLength * pct / 100)
	filled = max(0, min(barLength, filled))
	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", barLength-filled) + "]"

	switch {
	case pct >= 100:
		return r.green.Render(bar)
	case pct >= 70:
		return r.amber.Render(bar)
	default:
		return r.red.Render(bar)
	}
}
