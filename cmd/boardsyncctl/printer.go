// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/boardsync/lib/boardsync"
)

// printer writes action results either as JSON or as short
// human-readable lines.
type printer struct {
	out    io.Writer
	json   bool
	styles styles
}

type styles struct {
	label lipgloss.Style
	good  lipgloss.Style
	off   lipgloss.Style
	title lipgloss.Style
	faint lipgloss.Style
}

// newStyles returns the palette for terminal output. Without color
// every style renders its input unchanged.
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{label: plain, good: plain, off: plain, title: plain, faint: plain}
	}
	return styles{
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		good:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		off:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		title: lipgloss.NewStyle().Bold(true),
		faint: lipgloss.NewStyle().Faint(true),
	}
}

func newPrinter(out io.Writer, jsonOutput, color bool) *printer {
	return &printer{out: out, json: jsonOutput, styles: newStyles(color)}
}

func (p *printer) writeJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.out, "%s\n", data)
	return err
}

func (p *printer) line(format string, args ...any) error {
	_, err := fmt.Fprintf(p.out, format+"\n", args...)
	return err
}

func (p *printer) onOff(value bool) string {
	if value {
		return p.styles.good.Render("on")
	}
	return p.styles.off.Render("off")
}

func (p *printer) syncResult(result boardsync.Result) error {
	if p.json {
		return p.writeJSON(result)
	}
	return p.line("board message %s: %s", result.Action, p.styles.faint.Render(result.EventID.String()))
}

func (p *printer) loopState(state boardsync.LoopState) error {
	if p.json {
		return p.writeJSON(state)
	}
	if state.AlreadyRunning {
		return p.line("periodic updates already %s", p.onOff(true))
	}
	return p.line("periodic updates %s", p.onOff(state.Running))
}

func (p *printer) pinState(state boardsync.PinState) error {
	if p.json {
		return p.writeJSON(state)
	}
	return p.line("auto-pin %s", p.onOff(state.AutoPin))
}

func (p *printer) broadcastResult(result boardsync.BroadcastResult) error {
	if p.json {
		return p.writeJSON(result)
	}
	return p.line("sent %d training text(s)", result.Sent)
}

func (p *printer) taskInfo(name string, info boardsync.TaskInfo) error {
	if p.json {
		return p.writeJSON(info)
	}
	if !info.Found {
		return p.line("no task named %q", name)
	}
	return p.line("%s %s\n\n%s", p.styles.title.Render(info.Title), p.styles.faint.Render("("+info.ID+")"), info.Description)
}

func (p *printer) status(status boardsync.Status) error {
	if p.json {
		return p.writeJSON(status)
	}

	message := status.MessageID.String()
	if message == "" {
		message = p.styles.faint.Render("none")
	}
	rows := [][2]string{
		{"user", status.UserID.String()},
		{"guild", status.GuildID.String()},
		{"room", status.Channel},
		{"message", message},
		{"commands", p.onOff(status.CommandsOn)},
		{"updates", p.onOff(status.Running)},
		{"auto-pin", p.onOff(status.AutoPin)},
		{"columns", strings.Join(status.Columns, ", ")},
	}
	if status.Updating != status.Running {
		rows = append(rows, [2]string{"persisted", fmt.Sprintf("is_updating=%t", status.Updating)})
	}

	var builder strings.Builder
	for _, row := range rows {
		label := p.styles.label.Render(fmt.Sprintf("%-10s", row[0]))
		fmt.Fprintf(&builder, "%s %s\n", label, row[1])
	}
	if len(status.FreeTasks) > 0 {
		builder.WriteString(p.styles.title.Render("free tasks") + "\n")
		for _, title := range status.FreeTasks {
			builder.WriteString("  - " + title + "\n")
		}
	}
	_, err := io.WriteString(p.out, builder.String())
	return err
}
