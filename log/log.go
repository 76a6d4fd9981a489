// Copyright 2024 The go-gridchain Authors
// This file is part of the go-gridchain library.
//
// The go-gridchain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-gridchain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-gridchain library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides the leveled key-value logger used across the library.
// Context is given as alternating key-value pairs following the message:
//
//	log.Warn("failed to store record", "addr", addr, "err", err)
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Lvl is a log level.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
)

const timeFormat = "01-02|15:04:05.000"

var (
	mu     sync.Mutex
	out    io.Writer = os.Stderr
	maxLvl           = LvlInfo

	useColor = isatty.IsTerminal(os.Stderr.Fd())

	critColor  = color.New(color.FgMagenta, color.Bold)
	errorColor = color.New(color.FgRed)
	warnColor  = color.New(color.FgYellow)
	infoColor  = color.New(color.FgGreen)
	debugColor = color.New(color.FgCyan)
)

func (l Lvl) String() string {
	switch l {
	case LvlCrit:
		return "CRIT "
	case LvlError:
		return "ERROR"
	case LvlWarn:
		return "WARN "
	case LvlInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func (l Lvl) sprint(s string) string {
	if !useColor {
		return s
	}
	switch l {
	case LvlCrit:
		return critColor.Sprint(s)
	case LvlError:
		return errorColor.Sprint(s)
	case LvlWarn:
		return warnColor.Sprint(s)
	case LvlInfo:
		return infoColor.Sprint(s)
	default:
		return debugColor.Sprint(s)
	}
}

// SetOutput redirects log output. Color is disabled for non-terminal writers.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	useColor = false
}

// SetLevel sets the maximum level that will be emitted.
func SetLevel(l Lvl) {
	mu.Lock()
	defer mu.Unlock()
	maxLvl = l
}

func write(lvl Lvl, msg string, ctx []interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if lvl > maxLvl {
		return
	}
	fmt.Fprintf(out, "%s[%s] %s", lvl.sprint(lvl.String()), time.Now().Format(timeFormat), msg)
	for i := 0; i+1 < len(ctx); i += 2 {
		fmt.Fprintf(out, " %v=%v", ctx[i], formatValue(ctx[i+1]))
	}
	fmt.Fprintln(out)
}

// TerminalStringer is implemented by types that provide a compact form for
// console output.
type TerminalStringer interface {
	TerminalString() string
}

func formatValue(v interface{}) interface{} {
	if t, ok := v.(TerminalStringer); ok {
		return t.TerminalString()
	}
	return v
}

// Debug logs a message at the debug level.
func Debug(msg string, ctx ...interface{}) { write(LvlDebug, msg, ctx) }

// Info logs a message at the info level.
func Info(msg string, ctx ...interface{}) { write(LvlInfo, msg, ctx) }

// Warn logs a message at the warn level.
func Warn(msg string, ctx ...interface{}) { write(LvlWarn, msg, ctx) }

// Error logs a message at the error level.
func Error(msg string, ctx ...interface{}) { write(LvlError, msg, ctx) }

// Crit logs a message at the crit level and exits the process.
func Crit(msg string, ctx ...interface{}) {
	write(LvlCrit, msg, ctx)
	os.Exit(1)
}
