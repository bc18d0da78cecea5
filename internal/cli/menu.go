package cli

import (
	"context"
	"errors"
	"fmt"
)

// ErrExit is returned when the user chooses to exit the menu
var ErrExit = errors.New("exit")

const (
	menuApplyAll = "Apply all profiles"
	menuStatus   = "Show staging status"
	menuReset    = "Reset markers"
	menuExit     = "Exit"
)

// Menu provides an interactive menu interface
type Menu struct {
	ctx *StageContext
}

// NewMenu creates a new Menu instance
func NewMenu(ctx *StageContext) *Menu {
	return &Menu{ctx: ctx}
}

// clearScreen clears the terminal screen using ANSI escape codes
func (m *Menu) clearScreen() {
	// ANSI escape codes: \033[2J clears screen, \033[H moves cursor to home
	fmt.Fprint(m.ctx.UI.Writer(), "\033[2J\033[H")
}

// Show displays the main menu and handles user input until the user exits
func (m *Menu) Show(ctx context.Context) error {
	if m.ctx.UI.IsNonInteractive() {
		return fmt.Errorf("the interactive menu is unavailable in non-interactive mode; use 'treestage apply'")
	}

	for {
		m.clearScreen()
		m.ctx.UI.Header("treestage")

		statuses, err := m.ctx.Status()
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			m.ctx.UI.Infof("No profiles configured. Add one with 'treestage profile add' or edit %s", m.ctx.Config.FilePath())
			m.ctx.UI.Print("")
		}

		options := make([]string, 0, len(statuses)+4)
		for _, st := range statuses {
			options = append(options, profileLabel(st))
		}
		options = append(options, menuApplyAll, menuStatus, menuReset, menuExit)

		choice, err := m.ctx.UI.PromptSelect("Select a profile to stage", options)
		if err != nil {
			return err
		}

		if err := m.handleChoice(ctx, statuses, options[choice], choice); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			m.ctx.UI.Error(fmt.Sprintf("%v", err))
		}

		back, err := m.ctx.UI.PromptYesNo("Return to menu?", true)
		if err != nil {
			return err
		}
		if !back {
			return nil
		}
	}
}

// profileLabel renders a profile as a menu entry
func profileLabel(st ProfileStatus) string {
	mark := " "
	if st.Staged {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s  (%s -> %s)", mark, st.Profile.Name, st.Profile.Source, st.Profile.Destination)
}

// handleChoice processes the user's menu choice
func (m *Menu) handleChoice(ctx context.Context, statuses []ProfileStatus, option string, index int) error {
	if index < len(statuses) {
		return m.ctx.RunProfile(ctx, statuses[index].Profile, StageOptions{})
	}

	switch option {
	case menuApplyAll:
		return m.ctx.Apply(ctx, nil, StageOptions{})
	case menuStatus:
		return m.ctx.PrintStatus()
	case menuReset:
		return m.resetMarkers()
	case menuExit:
		return ErrExit
	default:
		return fmt.Errorf("invalid choice: %s", option)
	}
}

// resetMarkers clears all completion markers after confirmation
func (m *Menu) resetMarkers() error {
	m.ctx.UI.Warning("This will clear all completion markers")
	m.ctx.UI.Warning("Configuration file will NOT be deleted")

	confirm, err := m.ctx.UI.PromptYesNo("Are you sure you want to reset?", false)
	if err != nil {
		return err
	}
	if !confirm {
		m.ctx.UI.Info("Reset cancelled")
		return nil
	}

	return m.ctx.Reset(false)
}
