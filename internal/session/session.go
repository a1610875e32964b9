// Package session implements the subject -> region -> time inspection loop
// as an explicit state machine.
package session

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/KyungWonPark/Activation/internal/atlas"
	"github.com/KyungWonPark/Activation/internal/calc"
	"github.com/KyungWonPark/Activation/internal/subject"
	"github.com/KyungWonPark/Activation/internal/viz"
)

// State is a menu level of the session.
type State int

const (
	SubjectSelect State = iota
	RegionSelect
	TimeSelect
	Exit
)

func (s State) String() string {
	switch s {
	case SubjectSelect:
		return "SubjectSelect"
	case RegionSelect:
		return "RegionSelect"
	case TimeSelect:
		return "TimeSelect"
	case Exit:
		return "Exit"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Loader loads every condition array of a subject.
type Loader interface {
	LoadAll(subject string, voxels int) (*subject.Set, error)
}

// Renderer draws the session's histograms.
type Renderer interface {
	RegionSizes() (*viz.Artifact, error)
	RegionActivation(t, region int, set *subject.Set) (*viz.Artifact, error)
}

const (
	promptSubject = "\nEnter Subject ID (or type 'exit' to quit): "
	promptRegion  = "\nEnter Cerebra ID (or type 'back' to choose another subject, or 'exit' to quit): "
	promptTime    = "\nEnter a Time Location (or type 'back' to choose another Cerebra ID, or 'exit' to quit): "
	farewell      = "\nThank you for using the program. Run ended.\n"
)

// Controller owns the session state. The subject's arrays live from a
// successful load until the user goes back to subject selection; the
// region lives until the user goes back to region selection.
type Controller struct {
	atlas    *atlas.Atlas
	loader   Loader
	renderer Renderer
	out      io.Writer
	logger   *slog.Logger

	state  State
	set    *subject.Set
	region int
}

// New returns a Controller in SubjectSelect.
func New(a *atlas.Atlas, loader Loader, renderer Renderer, out io.Writer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		atlas:    a,
		loader:   loader,
		renderer: renderer,
		out:      out,
		logger:   logger,
		state:    SubjectSelect,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Subject returns the loaded arrays, nil in SubjectSelect.
func (c *Controller) Subject() *subject.Set {
	return c.set
}

// Region returns the selected region; only meaningful in TimeSelect.
func (c *Controller) Region() int {
	return c.region
}

// Prompt returns the prompt of the current state.
func (c *Controller) Prompt() string {
	switch c.state {
	case SubjectSelect:
		return promptSubject
	case RegionSelect:
		return promptRegion
	case TimeSelect:
		return promptTime
	}
	return ""
}

// Run prompts and feeds lines from in to Handle until Exit. End of input
// is treated as "exit".
func (c *Controller) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for c.state != Exit {
		fmt.Fprint(c.out, c.Prompt())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(c.out)
			c.exit()
			break
		}
		c.Handle(scanner.Text())
	}
	return nil
}

// Handle applies one line of input and returns the new state.
func (c *Controller) Handle(line string) State {
	input := strings.TrimSpace(line)

	switch c.state {
	case SubjectSelect:
		c.handleSubject(input)
	case RegionSelect:
		c.handleRegion(input)
	case TimeSelect:
		c.handleTime(input)
	}

	return c.state
}

func (c *Controller) exit() {
	c.set = nil
	c.state = Exit
	fmt.Fprint(c.out, farewell)
	c.logger.Debug("session ended")
}

func (c *Controller) handleSubject(input string) {
	if strings.EqualFold(input, "exit") {
		c.exit()
		return
	}

	set, err := c.loader.LoadAll(input, c.atlas.Labels.Len())
	if err != nil {
		c.logger.Warn("subject load failed", "subject", input, "error", err)
		fmt.Fprintf(c.out, "Error loading video data for subject %s: %v\n", input, err)
		return
	}
	c.logger.Info("subject loaded", "subject", input, "voxels", set.Voxels(), "timestamps", set.Timestamps())
	fmt.Fprintf(c.out, "Loaded subject %s: %d voxels, %d timestamps.\n", input, set.Voxels(), set.Timestamps())

	c.set = set
	c.state = RegionSelect

	art, err := c.renderer.RegionSizes()
	if err != nil {
		c.logger.Warn("region size histogram failed", "error", err)
		fmt.Fprintf(c.out, "Error rendering region size histogram: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Region size histogram saved to %s\n", art.Path)
}

func (c *Controller) handleRegion(input string) {
	switch {
	case strings.EqualFold(input, "back"):
		fmt.Fprintln(c.out, "Returning to subject selection.")
		c.set = nil
		c.state = SubjectSelect
		return
	case strings.EqualFold(input, "exit"):
		c.exit()
		return
	}

	region, err := c.selectRegion(input)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	c.region = region
	c.state = TimeSelect
}

func (c *Controller) selectRegion(input string) (int, error) {
	region, err := parseInt(input, wantRegion)
	if err != nil {
		return 0, err
	}

	count, name := c.atlas.CountAndName(region)
	if count == 0 {
		return 0, &RangeError{Kind: EmptyRegion, Value: region, Name: name}
	}
	fmt.Fprintf(c.out, "Selected Region: %s (ID: %d) with %d voxels.\n", name, region, count)
	c.logger.Debug("region selected", "region", region, "name", name, "voxels", count)

	return region, nil
}

func (c *Controller) handleTime(input string) {
	switch {
	case strings.EqualFold(input, "back"):
		fmt.Fprintln(c.out, "Returning to Cerebra ID selection.")
		c.state = RegionSelect
		return
	case strings.EqualFold(input, "exit"):
		c.exit()
		return
	}

	t, err := parseInt(input, wantTime)
	if err == nil {
		err = CheckTime(t, c.set.Timestamps())
	}
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}

	art, err := c.renderer.RegionActivation(t, c.region, c.set)
	if err != nil {
		c.logger.Warn("region activation histogram failed", "region", c.region, "time", t, "error", err)
		fmt.Fprintf(c.out, "Error rendering histogram: %v\n", err)
		return
	}

	fmt.Fprintf(c.out, "Histogram saved to %s\n", art.Path)
	for _, cond := range subject.Conditions() {
		samples, ok := art.Samples[cond]
		if !ok {
			continue
		}
		fmt.Fprintf(c.out, "  %-8s %s\n", cond, calc.Summarize(samples))
	}
}
