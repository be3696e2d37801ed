package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/charmbracelet/lipgloss"
)

// stdinPrompter asks on the terminal. An empty answer to the file name
// prompt accepts the suggestion; end of input dismisses it.
type stdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newStdinPrompter(in io.Reader, out io.Writer) *stdinPrompter {
	return &stdinPrompter{in: bufio.NewReader(in), out: out}
}

func (p *stdinPrompter) readLine() (string, bool, error) {
	line, err := p.in.ReadString('\n')
	if err == io.EOF && line == "" {
		return "", false, nil
	}
	if err != nil && err != io.EOF {
		return "", false, err
	}
	return strings.TrimSpace(line), true, nil
}

func (p *stdinPrompter) PromptFileName(_ context.Context, suggested string) (string, bool, error) {
	fmt.Fprintf(p.out, "File name [%s]: ", suggested)
	answer, ok, err := p.readLine()
	if err != nil || !ok {
		return "", false, err
	}
	if answer == "" {
		answer = suggested
	}
	return answer, answer != "", nil
}

func (p *stdinPrompter) Confirm(_ context.Context, message string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	answer, ok, err := p.readLine()
	if err != nil || !ok {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "e", "evet":
		return true, nil
	}
	return false, nil
}

var (
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#427A6C")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A4A4A")).Bold(true)
)

// printer shows notices on the terminal
type printer struct {
	out io.Writer
}

func newPrinter(out io.Writer) printer {
	return printer{out: out}
}

func (p printer) Notify(_ context.Context, notice ports.Notice) {
	style := infoStyle
	if notice.Level == ports.NoticeError {
		style = errorStyle
	}
	fmt.Fprintln(p.out, style.Render(notice.Message))
}
