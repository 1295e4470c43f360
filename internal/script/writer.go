package script

import (
	"fmt"
	"os"

	"github.com/ivlev/geoslides/internal/geometry"
	"gopkg.in/yaml.v3"
)

// commandYAML is the on-disk shape of a Command in a deck dump.
type commandYAML struct {
	Verb    Verb              `yaml:"verb"`
	Shape   string            `yaml:"shape,omitempty"`
	Args    []string          `yaml:"args,omitempty"`
	Options map[string]string `yaml:"options,omitempty"`
	Name    string            `yaml:"name,omitempty"`
}

func (c Command) MarshalYAML() (interface{}, error) {
	out := commandYAML{
		Verb:    c.Verb,
		Args:    c.Args,
		Options: c.Options,
		Name:    c.Name,
	}
	if c.HasShape() {
		out.Shape = c.Shape.String()
	}
	return out, nil
}

func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	var in commandYAML
	if err := node.Decode(&in); err != nil {
		return err
	}
	cmd := Command{Verb: in.Verb, Args: in.Args, Options: in.Options, Name: in.Name}
	if len(cmd.Options) == 0 {
		cmd.Options = nil
	}
	if len(cmd.Args) == 0 {
		cmd.Args = nil
	}
	if cmd.HasShape() {
		kind, err := geometry.ParseKind(in.Shape)
		if err != nil {
			return fmt.Errorf("line %d: %q: %w", node.Line, in.Shape, ErrUnknownShape)
		}
		cmd.Shape = kind
	}
	if cmd.Verb == VerbPrint && len(cmd.Args) == 0 {
		cmd.Args = []string{""}
	}
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = cmd
	return nil
}

// WriteDeck dumps a parsed deck to a YAML file.
func WriteDeck(deck *Deck, path string) error {
	data, err := yaml.Marshal(deck)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadDeck loads a deck dumped by WriteDeck. Every command is validated the
// same way the parser validates script lines.
func ReadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var deck Deck
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for i, st := range deck.Steps {
		if len(st.SubSteps) == 0 {
			return nil, fmt.Errorf("%s: step %d is empty", path, i+1)
		}
		for j, sub := range st.SubSteps {
			if len(sub.Commands) == 0 {
				return nil, fmt.Errorf("%s: step %d sub-step %d is empty", path, i+1, j+1)
			}
			for _, cmd := range sub.Commands {
				if cmd.Verb == VerbWait || cmd.Verb == VerbEnd {
					return nil, fmt.Errorf("%s: step %d sub-step %d: %s inside a sub-step", path, i+1, j+1, cmd.Verb)
				}
			}
		}
	}

	return &deck, nil
}
