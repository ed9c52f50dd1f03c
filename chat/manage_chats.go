package chat

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxee/voxee/configuration"
	"github.com/voxee/voxee/internal/cli"
	"github.com/voxee/voxee/transcript"
)

// newDeleteCmd instantiates and returns the chat delete command.
func newDeleteCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a saved chat",
		Long:  "Delete a saved chat",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store, err := transcript.Open(config.TranscriptDirectory)
			cobra.CheckErr(err)

			key := args[0]
			if !cli.QueryUser(fmt.Sprintf("Delete chat (%s)?", key)) {
				return
			}
			cobra.CheckErr(store.Delete(key))
			cli.UserCommand("deleted chat (%s)\n", key)
		},
	}
}

// newRenameCmd instantiates and returns the chat rename command.
func newRenameCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-key> <new-key>",
		Short: "Rename a saved chat",
		Long:  "Rename a saved chat",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			store, err := transcript.Open(config.TranscriptDirectory)
			cobra.CheckErr(err)

			cobra.CheckErr(store.Rename(args[0], args[1]))
			cli.UserCommand("renamed chat (%s) to (%s)\n", args[0], args[1])
		},
	}
}
