package script

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ivlev/geoslides/internal/geometry"
)

// Verb is the first keyword of a script line.
type Verb int

const (
	VerbDraw Verb = iota
	VerbErase
	VerbCenter
	VerbScale
	VerbPrint
	VerbWait
	VerbEnd
)

var verbNames = [...]string{
	VerbDraw:   "draw",
	VerbErase:  "erase",
	VerbCenter: "center",
	VerbScale:  "scale",
	VerbPrint:  "print",
	VerbWait:   "wait",
	VerbEnd:    "end",
}

func (v Verb) String() string {
	if v >= 0 && int(v) < len(verbNames) {
		return verbNames[v]
	}
	return fmt.Sprintf("verb(%d)", int(v))
}

// ParseVerb resolves the keyword of a line.
func ParseVerb(s string) (Verb, error) {
	for i, name := range verbNames {
		if name == s {
			return Verb(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownVerb)
}

func (v Verb) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Verb) UnmarshalText(b []byte) error {
	parsed, err := ParseVerb(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

var (
	ErrUnknownVerb  = errors.New("unknown verb")
	ErrUnknownShape = errors.New("unknown shape type")
	ErrBadNumber    = errors.New("malformed number")
	ErrArgCount     = errors.New("wrong number of arguments")
	ErrBadOption    = errors.New("malformed option")
)

// Command is one parsed script line. Shape is meaningful for draw and erase
// only. For print, Args holds the raw text as its single element.
type Command struct {
	Verb    Verb
	Shape   geometry.Kind
	Args    []string
	Options map[string]string
	Name    string
}

// HasShape reports whether the verb carries a shape sub-verb.
func (c Command) HasShape() bool {
	return c.Verb == VerbDraw || c.Verb == VerbErase
}

// Floats parses Args as numbers.
func (c Command) Floats() ([]float64, error) {
	out := make([]float64, len(c.Args))
	for i, tok := range c.Args {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d %q: %w", i+1, tok, ErrBadNumber)
		}
		out[i] = v
	}
	return out, nil
}

// Option returns the option value or def when it is absent.
func (c Command) Option(key, def string) string {
	if v, ok := c.Options[key]; ok {
		return v
	}
	return def
}

// Text returns the print text split on the two-character sequence `\n`.
func (c Command) Text() []string {
	if len(c.Args) == 0 {
		return []string{""}
	}
	return strings.Split(c.Args[0], `\n`)
}

// String renders the command back as a script line.
func (c Command) String() string {
	switch c.Verb {
	case VerbPrint:
		if len(c.Args) == 0 || c.Args[0] == "" {
			return "print"
		}
		return "print " + c.Args[0]
	case VerbErase:
		return fmt.Sprintf("erase %s %s", c.Shape, c.Name)
	}

	parts := []string{c.Verb.String()}
	if c.HasShape() {
		parts = append(parts, c.Shape.String())
	}
	parts = append(parts, c.Args...)

	keys := make([]string, 0, len(c.Options))
	for k := range c.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+c.Options[k])
	}
	if c.Name != "" {
		parts = append(parts, "name="+c.Name)
	}
	return strings.Join(parts, " ")
}

// arity returns the exact number of numeric arguments a draw kind takes, or
// -1 for polygons.
func arity(k geometry.Kind) int {
	switch k {
	case geometry.KindPoint:
		return 2
	case geometry.KindLine:
		return 3
	case geometry.KindSegment, geometry.KindRay, geometry.KindVector:
		return 4
	case geometry.KindAngle:
		return 6
	case geometry.KindPolygon:
		return -1
	}
	return 0
}

// Validate checks argument counts, numbers and options.
func (c Command) Validate() error {
	switch c.Verb {
	case VerbWait, VerbEnd:
		if len(c.Args) != 0 || len(c.Options) != 0 || c.Name != "" {
			return fmt.Errorf("%s takes no arguments: %w", c.Verb, ErrArgCount)
		}
		return nil

	case VerbPrint:
		if len(c.Args) != 1 {
			return fmt.Errorf("print takes the rest of the line: %w", ErrArgCount)
		}
		return nil

	case VerbErase:
		if c.Shape == geometry.KindText || arity(c.Shape) == 0 {
			return fmt.Errorf("%q: %w", c.Shape.String(), ErrUnknownShape)
		}
		if c.Name == "" || len(c.Args) != 0 || len(c.Options) != 0 {
			return fmt.Errorf("erase takes a shape type and a name: %w", ErrArgCount)
		}
		return nil

	case VerbCenter, VerbScale:
		if len(c.Args) != 2 || len(c.Options) != 0 || c.Name != "" {
			return fmt.Errorf("%s takes two numbers: %w", c.Verb, ErrArgCount)
		}
		vals, err := c.Floats()
		if err != nil {
			return err
		}
		if c.Verb == VerbScale && (vals[0] <= 0 || vals[1] <= 0) {
			return fmt.Errorf("scale %g %g must be positive: %w", vals[0], vals[1], ErrBadNumber)
		}
		return nil

	case VerbDraw:
		n := arity(c.Shape)
		if c.Shape == geometry.KindText || n == 0 {
			return fmt.Errorf("%q: %w", c.Shape.String(), ErrUnknownShape)
		}
		if n > 0 && len(c.Args) != n {
			return fmt.Errorf("%s takes %d numbers, got %d: %w", c.Shape, n, len(c.Args), ErrArgCount)
		}
		if n < 0 && (len(c.Args) < 4 || len(c.Args)%2 != 0) {
			return fmt.Errorf("polygon takes at least 2 coordinate pairs, got %d numbers: %w", len(c.Args), ErrArgCount)
		}
		if _, err := c.Floats(); err != nil {
			return err
		}
		if _, ok := c.Options["name"]; ok {
			return fmt.Errorf("name must be carried by Command.Name: %w", ErrBadOption)
		}
		for k, v := range c.Options {
			if k == "" || v == "" || strings.ContainsAny(k+v, " \t=") {
				return fmt.Errorf("%q=%q: %w", k, v, ErrBadOption)
			}
		}
		return nil
	}
	return fmt.Errorf("%s: %w", c.Verb, ErrUnknownVerb)
}
