package prompt

import (
	"os"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/dmzDAWG/workspaces/internal/ui/styles"
)

// TextInputResult holds the entered text, trimmed.
type TextInputResult struct {
	Value     string
	Cancelled bool
}

type textInputModel struct {
	input     textinput.Model
	prompt    string
	validate  func(string) error
	err       error
	done      bool
	cancelled bool
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			if m.validate != nil {
				if m.err = m.validate(m.value()); m.err != nil {
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textInputModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

func (m textInputModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	var b strings.Builder
	b.WriteString(styles.Bold.Render(m.prompt))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(m.err.Error()))
	}
	return tea.NewView(b.String())
}

func newTextInputModel(prompt, placeholder string, validate func(string) error) textInputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 100
	ti.SetWidth(50)
	return textInputModel{input: ti, prompt: prompt, validate: validate}
}

// TextInput asks for one line of text, e.g. the name of a new workspace.
// validate, when set, runs on enter; its error is shown and the prompt stays open.
func TextInput(prompt, placeholder string, validate func(string) error) (TextInputResult, error) {
	p := tea.NewProgram(newTextInputModel(prompt, placeholder, validate), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return TextInputResult{}, err
	}
	m := final.(textInputModel)
	return TextInputResult{Value: m.value(), Cancelled: m.cancelled}, nil
}
