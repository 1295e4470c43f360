// Package script parses construction scripts into a two-level hierarchy of
// steps and sub-steps and writes them back.
package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ivlev/geoslides/internal/geometry"
)

// ParseError reports a malformed script line. Parsing stops at the first one.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseLine turns a single non-structural or structural line into a Command.
func ParseLine(line string) (Command, error) {
	line = strings.TrimSpace(line)
	head, rest, _ := strings.Cut(line, " ")

	verb, err := ParseVerb(head)
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Verb: verb}

	if verb == VerbPrint {
		cmd.Args = []string{strings.TrimSpace(rest)}
		return cmd, cmd.Validate()
	}

	fields := strings.Fields(rest)
	switch verb {
	case VerbDraw, VerbErase:
		if len(fields) == 0 {
			return Command{}, fmt.Errorf("%s without shape type: %w", verb, ErrArgCount)
		}
		kind, err := geometry.ParseKind(fields[0])
		if err != nil {
			return Command{}, fmt.Errorf("%q: %w", fields[0], ErrUnknownShape)
		}
		cmd.Shape = kind
		fields = fields[1:]
	}

	if verb == VerbErase {
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("erase takes a shape type and a name: %w", ErrArgCount)
		}
		cmd.Name = fields[0]
		return cmd, cmd.Validate()
	}

	for _, tok := range fields {
		key, value, isOption := strings.Cut(tok, "=")
		if !isOption {
			if len(cmd.Options) > 0 || cmd.Name != "" {
				return Command{}, fmt.Errorf("argument %q after options: %w", tok, ErrBadOption)
			}
			cmd.Args = append(cmd.Args, tok)
			continue
		}
		if key == "" || value == "" {
			return Command{}, fmt.Errorf("%q: %w", tok, ErrBadOption)
		}
		if key == "name" {
			if cmd.Name != "" {
				return Command{}, fmt.Errorf("duplicate name: %w", ErrBadOption)
			}
			cmd.Name = value
			continue
		}
		if _, dup := cmd.Options[key]; dup {
			return Command{}, fmt.Errorf("duplicate option %q: %w", key, ErrBadOption)
		}
		if cmd.Options == nil {
			cmd.Options = make(map[string]string)
		}
		cmd.Options[key] = value
	}

	return cmd, cmd.Validate()
}

// builder accumulates commands the same way the viewer walks them: wait
// closes a sub-step, end closes a step, and empty ones are dropped.
type builder struct {
	deck Deck
	step Step
	sub  SubStep
}

func (b *builder) add(cmd Command) {
	b.sub.Commands = append(b.sub.Commands, cmd)
}

func (b *builder) closeSubStep() {
	if len(b.sub.Commands) > 0 {
		b.step.SubSteps = append(b.step.SubSteps, b.sub)
	}
	b.sub = SubStep{}
}

func (b *builder) closeStep() {
	b.closeSubStep()
	if len(b.step.SubSteps) > 0 {
		b.deck.Steps = append(b.deck.Steps, b.step)
	}
	b.step = Step{}
}

// Parse builds a Deck from script lines. Blank lines are skipped; line
// numbers in errors are 1-based indexes into lines.
func Parse(lines []string) (*Deck, error) {
	var b builder
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}
		switch cmd.Verb {
		case VerbWait:
			b.closeSubStep()
		case VerbEnd:
			b.closeStep()
		default:
			b.add(cmd)
		}
	}
	b.closeStep()
	return &b.deck, nil
}

// ParseReader reads a whole script and parses it.
func ParseReader(r io.Reader) (*Deck, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(lines)
}

// ReadFile parses the script at path.
func ReadFile(path string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	deck, err := ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return deck, nil
}
