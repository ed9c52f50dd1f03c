package main

import (
	"github.com/spf13/cobra"

	"github.com/voxee/voxee/chat"
	"github.com/voxee/voxee/configuration"
	"github.com/voxee/voxee/viewer"
)

const configFilepath = "~/.voxee/config.json"

var rootCmd = &cobra.Command{
	Use:   "voxee",
	Short: "A CLI for AI chat sessions",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(chat.NewCmd(config))
	rootCmd.AddCommand(viewer.NewCmd(config))
	rootCmd.Execute()
}
