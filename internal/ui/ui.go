// Package ui renders catalog output for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Out and Err are where everything is printed.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	InfoColor      = lipgloss.Color("#00D9FF")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// Status labels for entry runs.
var (
	passLabel  = color.New(color.FgGreen, color.Bold)
	failLabel  = color.New(color.FgRed, color.Bold)
	knownLabel = color.New(color.FgYellow, color.Bold)
)

func width() int {
	if w := pterm.GetTerminalWidth(); w > 0 && w < 120 {
		return w
	}
	return 80
}

// PrintHeader prints a boxed title.
func PrintHeader(title string, subtitle string) {
	header := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render(title),
				SecondaryStyle.Render(subtitle),
			),
		)

	fmt.Fprintln(Out, header)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintSection prints a section header
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Width(width()).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(TitleStyle.Render(title))

	fmt.Fprintln(Out, section)
}

// PrintCodeBlock prints SQL or other code in a bordered block labelled with language.
func PrintCodeBlock(code string, language string) {
	if language != "" {
		fmt.Fprintln(Out, SecondaryStyle.Render(" "+language+" "))
	}
	block := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SecondaryColor).
		Padding(0, 1).
		Render(code)
	fmt.Fprintln(Out, block)
}

// PrintStatus prints one line per entry run: PASS, FAIL or KNOWN (an expected failure).
func PrintStatus(name string, err error, known bool, detail string) {
	var label string
	switch {
	case err == nil:
		label = passLabel.Sprint("PASS ")
	case known:
		label = knownLabel.Sprint("KNOWN")
	default:
		label = failLabel.Sprint("FAIL ")
	}
	line := fmt.Sprintf("%s %s", label, name)
	if detail != "" {
		line += " " + SecondaryStyle.Render(detail)
	}
	if err != nil {
		line += "\n      " + err.Error()
	}
	fmt.Fprintln(Out, line)
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	s, err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, s)
	return nil
}

// PrintRows prints query results as a table. Nested entities are flattened into dotted
// columns and collections are shown by size.
func PrintRows(rows []map[string]interface{}) error {
	if len(rows) == 0 {
		PrintInfo("no rows")
		return nil
	}
	headers, cells := Tabulate(rows)
	return PrintTable(headers, cells)
}

// Tabulate flattens rows and returns the sorted union of their columns with one string
// cell per column.
func Tabulate(rows []map[string]interface{}) ([]string, [][]string) {
	flat := make([]map[string]string, len(rows))
	seen := make(map[string]bool)
	var headers []string
	for i, row := range rows {
		flat[i] = make(map[string]string)
		flatten("", row, flat[i])
		for col := range flat[i] {
			if !seen[col] {
				seen[col] = true
				headers = append(headers, col)
			}
		}
	}
	sort.Strings(headers)

	cells := make([][]string, len(flat))
	for i, row := range flat {
		cells[i] = make([]string, len(headers))
		for j, col := range headers {
			if v, ok := row[col]; ok {
				cells[i][j] = v
			} else {
				cells[i][j] = "NULL"
			}
		}
	}
	return headers, cells
}

func flatten(prefix string, value map[string]interface{}, out map[string]string) {
	for k, v := range value {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]interface{}:
			flatten(name, v, out)
		case []map[string]interface{}:
			out[name] = fmt.Sprintf("[%d]", len(v))
		case nil:
			out[name] = "NULL"
		case []byte:
			out[name] = string(v)
		default:
			out[name] = fmt.Sprint(v)
		}
	}
}

// RenderMarkdown renders markdown for a terminal of the given width.
func RenderMarkdown(content string, wrap int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	out, err := RenderMarkdown(content, width())
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}

// SelectEntries asks the user to pick entries from options.
func SelectEntries(options []string, opts ...survey.AskOpt) ([]string, error) {
	var selected []string
	prompt := &survey.MultiSelect{
		Message:  "Entries to run:",
		Options:  options,
		PageSize: 12,
	}
	opts = append(opts, survey.WithValidator(survey.MinItems(1)))
	if err := survey.AskOne(prompt, &selected, opts...); err != nil {
		return nil, err
	}
	return selected, nil
}
