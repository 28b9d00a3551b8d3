package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type level int

const (
	levelInfo level = iota
	levelOK
	levelWarn
	levelError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

const labelWidth = 18

func (l level) tag() string {
	switch l {
	case levelOK:
		return "OK"
	case levelWarn:
		return "WARN"
	case levelError:
		return "FAIL"
	default:
		return "INFO"
	}
}

func (l level) color() string {
	switch l {
	case levelOK:
		return ansiGreen
	case levelWarn:
		return ansiYellow
	case levelError:
		return ansiRed
	default:
		return ansiCyan
	}
}

func passFail(passed bool) level {
	if passed {
		return levelOK
	}
	return levelError
}

// statusPrinter writes the sectioned status report, coloring lines only when
// the destination is a terminal.
type statusPrinter struct {
	w     io.Writer
	color bool
	wrote bool
}

func newStatusPrinter(w io.Writer) *statusPrinter {
	return &statusPrinter{w: w, color: isTerminal(w)}
}

func (p *statusPrinter) section(title string) {
	if p.wrote {
		fmt.Fprintln(p.w)
	}
	p.wrote = true
	heading := strings.ToUpper(strings.TrimSpace(title))
	if p.color {
		heading = ansiCyan + heading + ansiReset
	}
	fmt.Fprintln(p.w, heading)
}

func (p *statusPrinter) line(label string, l level, detail string) {
	fmt.Fprintln(p.w, p.format(label, l, detail))
}

func (p *statusPrinter) format(label string, l level, detail string) string {
	tag := "[" + l.tag() + "]"
	if p.color {
		tag = l.color() + tag + ansiReset
	}
	out := fmt.Sprintf("  %-*s %s", labelWidth, label, tag)
	if detail != "" {
		out += " " + detail
	}
	return out
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
