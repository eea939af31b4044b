// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// reportedError marks an error whose message already reached the user
// through the status printer.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// statusPrinter writes run status lines, coloured when out is a terminal.
type statusPrinter struct {
	out      io.Writer
	colorize bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: shouldColorize(out)}
}

// Render prints one status. Idle prints nothing.
func (p *statusPrinter) Render(s types.RunStatus) {
	if s.Kind == types.StatusIdle {
		return
	}
	fmt.Fprintln(p.out, p.line(s))
}

func (p *statusPrinter) line(s types.RunStatus) string {
	label := statusLabel(s.Kind)
	line := fmt.Sprintf("[%s] %s", label, s.Message)
	if s.Message == "" {
		line = fmt.Sprintf("[%s]", label)
	}
	if p.colorize {
		return statusColors(s.Kind).Sprint(line)
	}
	return line
}

// Fail prints err as an error status and wraps it so main does not print
// it again.
func (p *statusPrinter) Fail(err error) error {
	var reported *reportedError
	if errors.As(err, &reported) {
		return err
	}
	p.Render(types.ErrorStatus(types.UserMessage(err)))
	return &reportedError{err: err}
}

func statusLabel(kind types.StatusKind) string {
	switch kind {
	case types.StatusSuccess:
		return "OK"
	case types.StatusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusColors(kind types.StatusKind) text.Colors {
	switch kind {
	case types.StatusSuccess:
		return text.Colors{text.FgGreen}
	case types.StatusError:
		return text.Colors{text.FgRed, text.Bold}
	default:
		return text.Colors{text.FgBlue}
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
