package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/volumereport/internal/config"
)

var errPromptCancelled = errors.New("input prompt cancelled")

type promptField struct {
	label string
	value string
}

// promptModel asks for the device and data file in turn.
// Enter moves to the next field; esc or ctrl+c cancels.
type promptModel struct {
	fields    [2]promptField
	current   int
	cancelled bool
}

func newPromptModel() promptModel {
	return promptModel{
		fields: [2]promptField{
			{label: "Device File"},
			{label: "Data File"},
		},
	}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.done() {
		return m, nil
	}

	field := &m.fields[m.current]
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.current++
		if m.done() {
			return m, tea.Quit
		}
	case tea.KeyBackspace:
		if r := []rune(field.value); len(r) > 0 {
			field.value = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		field.value += " "
	case tea.KeyRunes:
		field.value += string(key.Runes)
	}
	return m, nil
}

func (m promptModel) View() string {
	var b strings.Builder
	for i, f := range m.fields {
		if i > m.current {
			break
		}
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
	}
	return b.String()
}

func (m promptModel) done() bool {
	return m.cancelled || m.current >= len(m.fields)
}

// apply copies the answers into cfg. Dragged-in paths arrive quoted.
func (m promptModel) apply(cfg *config.InputConfig) {
	clean := func(s string) string {
		return strings.Trim(strings.TrimSpace(s), `"'`)
	}
	cfg.DeviceFile = clean(m.fields[0].value)
	cfg.DataFile = clean(m.fields[1].value)
}

// promptInputs asks for the device and data file on an interactive terminal.
// Empty answers leave the field empty; InputConfig.Validate reports them.
func promptInputs(in io.Reader, out io.Writer, cfg *config.InputConfig) error {
	p := tea.NewProgram(newPromptModel(), tea.WithInput(in), tea.WithOutput(out))

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("input prompt: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok {
		return fmt.Errorf("input prompt: unexpected model %T", final)
	}
	if m.cancelled {
		return errPromptCancelled
	}

	m.apply(cfg)
	return nil
}
