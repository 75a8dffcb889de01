package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/rpggio/knitcount/internal/tracker"
)

// resultErr turns a failed result into an error carrying its message.
func resultErr[T any](res tracker.Result[T]) error {
	if res.OK() {
		return nil
	}
	if kind := tracker.Kind(res.Err); kind != nil && res.Message != "" {
		return fmt.Errorf("%w: %s", kind, res.Message)
	}
	return res.Err
}

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

func printProjects(w io.Writer, projects []project.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found")
		return
	}
	for _, p := range projects {
		status := color.YellowString("in progress")
		if p.Completed {
			status = color.GreenString("done")
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			color.HiBlackString("#%d", p.ID),
			color.New(color.Bold).Sprint(p.Name),
			color.CyanString("[%s]", p.Type),
			status)
		if p.Description != "" {
			fmt.Fprintf(w, "    %s\n", p.Description)
		}
	}
}

func printParts(w io.Writer, parts []part.Part) {
	if len(parts) == 0 {
		fmt.Fprintln(w, "No parts found")
		return
	}
	for _, p := range parts {
		marker := " "
		if p.IsCurrent {
			marker = color.GreenString("*")
		}
		fmt.Fprintf(w, "%s %s %s\n", marker, color.HiBlackString("#%d", p.ID), p.Name)
	}
}

func printCounters(w io.Writer, counters []counter.Counter) {
	if len(counters) == 0 {
		fmt.Fprintln(w, "No counters found")
		return
	}
	width := 0
	for _, c := range counters {
		width = max(width, len(c.Name))
	}
	for _, c := range counters {
		fmt.Fprintln(w, counterLine(c, width))
	}
}

func counterLine(c counter.Counter, width int) string {
	var tags []string
	switch c.Type {
	case counter.TypeGlobal:
		tags = append(tags, color.MagentaString("global"))
	case counter.TypeStitch:
		tags = append(tags, color.BlueString("stitch"))
	}
	if c.IsGloballyLinked {
		tags = append(tags, color.CyanString("linked"))
	}
	if c.IncrementBy != 1 {
		tags = append(tags, fmt.Sprintf("step %d", c.IncrementBy))
	}
	if c.ResetRow > 0 {
		reset := fmt.Sprintf("resets at %d", c.ResetRow)
		if c.MaxResets > 0 {
			reset += fmt.Sprintf(" (%d/%d)", c.NumResets, c.MaxResets)
		}
		tags = append(tags, reset)
	}

	line := fmt.Sprintf("%s %-*s %s",
		color.HiBlackString("#%-4d", c.ID),
		width, c.Name,
		color.New(color.Bold).Sprintf("%6d", c.Value))
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, ", ")
	}
	return line
}
