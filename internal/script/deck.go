package script

import "strings"

// Deck is the parsed step hierarchy. It is never modified after parsing.
type Deck struct {
	Steps []Step `yaml:"steps"`
}

// Step is an end-delimited stage. Entering it clears the scene.
type Step struct {
	SubSteps []SubStep `yaml:"substeps"`
}

// SubStep is a wait-delimited increment inside a Step.
type SubStep struct {
	Commands []Command `yaml:"commands"`
}

// Len returns the total number of sub-steps, i.e. the number of distinct
// states a viewer walks through.
func (d *Deck) Len() int {
	n := 0
	for _, st := range d.Steps {
		n += len(st.SubSteps)
	}
	return n
}

// Lines renders the deck back to script lines, joining sub-steps with wait
// and steps with end.
func (d *Deck) Lines() []string {
	var lines []string
	for i, st := range d.Steps {
		if i > 0 {
			lines = append(lines, VerbEnd.String())
		}
		for j, sub := range st.SubSteps {
			if j > 0 {
				lines = append(lines, VerbWait.String())
			}
			for _, cmd := range sub.Commands {
				lines = append(lines, cmd.String())
			}
		}
	}
	return lines
}

// Format returns Lines as newline-terminated text.
func (d *Deck) Format() string {
	lines := d.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
