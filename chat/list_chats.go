package chat

import (
	"github.com/spf13/cobra"

	"github.com/voxee/voxee/configuration"
	"github.com/voxee/voxee/internal/cli"
	"github.com/voxee/voxee/session"
	"github.com/voxee/voxee/transcript"
)

// newListCmd instantiates and returns the chat list command.
func newListCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		PageSize int
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all saved chats",
		Long:  "List all saved chats",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			// Instantiate store.
			store, err := transcript.Open(config.TranscriptDirectory)
			cobra.CheckErr(err)

			// Headers.
			cli.Title("VOXEE CHAT LIST")

			entries, err := store.List()
			cobra.CheckErr(err)
			if len(entries) > opts.PageSize {
				entries = entries[:opts.PageSize]
			}
			for _, entry := range entries {
				cli.AIOutput("chat (%s) - %s\n", entry.Key, entry.CreatedAt().String())
				data, err := store.Read(entry.Key)
				cobra.CheckErr(err)
				history, err := session.UnmarshalHistory(data)
				cobra.CheckErr(err)
				description := ""
				for i := 0; i < 10 && i < len(history); i++ {
					if history[i].Role == session.RoleUser {
						description += "> " + history[i].Content + "\n"
					}
				}
				cli.UserInput("%s", description)
			}
		},
	}

	cmd.Flags().IntVarP(&opts.PageSize, "page-size", "p", 50, "Page size")
	return cmd
}
