// Copyright © 2025 Meroxa, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prompt asks yes/no questions on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrQuit is returned when the user answers q or quit, or input ends.
var ErrQuit = errors.New("quit requested")

// Mode forces answers instead of reading them.
type Mode int

const (
	ModeAsk Mode = iota
	ModeYes
	ModeNo
	ModeDefault
)

func (m Mode) String() string {
	switch m {
	case ModeYes:
		return "yes"
	case ModeNo:
		return "no"
	case ModeDefault:
		return "default"
	default:
		return "ask"
	}
}

// ModeFromFlags picks the mode for the --yes, --no and --default flags. At
// most one of them may be set.
func ModeFromFlags(yes, no, def bool) (Mode, error) {
	mode := ModeAsk
	n := 0
	if yes {
		mode = ModeYes
		n++
	}
	if no {
		mode = ModeNo
		n++
	}
	if def {
		mode = ModeDefault
		n++
	}
	if n > 1 {
		return ModeAsk, errors.New("at most one of --yes, --no, --default is allowed")
	}
	return mode, nil
}

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	mode    Mode
	scanner *bufio.Scanner
	out     io.Writer
}

func New(mode Mode, in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		mode:    mode,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Confirm asks message as a yes/no question. A blank answer takes
// defaultYes, unrecognised answers are asked again.
func (p *Prompter) Confirm(message string, defaultYes bool) (bool, error) {
	switch p.mode {
	case ModeDefault:
		fmt.Fprintf(p.out, "%s? [auto] %s\n", message, yn(defaultYes))
		return defaultYes, nil
	case ModeYes:
		fmt.Fprintf(p.out, "%s? [auto] YES\n", message)
		return true, nil
	case ModeNo:
		fmt.Fprintf(p.out, "%s? [auto] NO\n", message)
		return false, nil
	}

	hint := "[N/y]"
	if defaultYes {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(p.out, "%s? %s ", message, hint)
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return false, fmt.Errorf("read answer: %w", err)
			}
			return false, fmt.Errorf("%w: %w", ErrQuit, io.EOF)
		}

		switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case "q", "quit":
			return false, ErrQuit
		}
		fmt.Fprintln(p.out, "Please answer YES or NO.")
	}
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
