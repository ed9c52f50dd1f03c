// Package viewer implements a read-only TUI for browsing saved transcripts.
package viewer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/voxee/voxee/configuration"
	"github.com/voxee/voxee/transcript"
)

// NewCmd instantiates and returns the history command.
func NewCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Browse saved chats",
		Long:  "Browse saved chats in an interactive viewer",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			store, err := transcript.Open(config.TranscriptDirectory)
			cobra.CheckErr(err)

			model, err := newModel(store)
			cobra.CheckErr(err)

			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				cobra.CheckErr(fmt.Errorf("running viewer: %w", err))
			}
		},
	}
}
