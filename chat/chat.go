package chat

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/voxee/voxee/agent"
	"github.com/voxee/voxee/configuration"
	"github.com/voxee/voxee/cost"
	"github.com/voxee/voxee/file"
	"github.com/voxee/voxee/internal/cli"
	"github.com/voxee/voxee/llm"
	"github.com/voxee/voxee/session"
	"github.com/voxee/voxee/transcript"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		Agent       *agent.Opts
		Attachments *file.AttachmentOpts
		ChatKey     string
		ShowCost    bool
		NoStream    bool
		NoSave      bool
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Back and forth chat",
		Long:  "Back and forth chat",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			// Resolve the agent for this session.
			registry, err := agent.LoadRegistry(config.AgentsFile)
			cobra.CheckErr(err)
			agnt, err := registry.Resolve(opts.Agent.Agent, config.DefaultAgent)
			cobra.CheckErr(err)

			apiKey := agnt.APIKey
			if apiKey == "" {
				if agnt.Provider == "Anthropic" {
					apiKey = config.AnthropicAPIKey
				} else {
					apiKey = config.OpenaiAPIKey
				}
			}
			client, err := llm.NewClient(agnt.Provider, apiKey, config.OpenaiAPIHost)
			cobra.CheckErr(err)

			// Instantiate store and session.
			sessionOpts := []session.Option{session.WithMaxTokens(config.MaxTokens)}
			if !opts.NoSave {
				store, err := transcript.Open(config.TranscriptDirectory)
				cobra.CheckErr(err)
				sessionOpts = append(sessionOpts, session.WithStore(store))
				if opts.ChatKey != "" {
					data, err := store.Read(opts.ChatKey)
					cobra.CheckErr(err)
					history, err := session.UnmarshalHistory(data)
					cobra.CheckErr(err)
					sessionOpts = append(sessionOpts, session.WithHistory(history, opts.ChatKey))
				}
			}
			if opts.ChatKey == "" {
				sessionOpts = append(sessionOpts, session.WithGreeting())
			}
			if opts.NoStream {
				sessionOpts = append(sessionOpts, session.WithoutStreaming())
			}
			sess := session.New(agnt, sessionOpts...)

			// Headers.
			cli.Title("VOXEE CHAT [%s](%s)", agnt.ID, sess.ID)

			// Parse attachments; they ride along with the first send.
			attachments, err := file.ParseAttachments(opts.Attachments)
			cobra.CheckErr(err)
			for i, attachment := range attachments {
				cli.FileInfo("attaching file #%d: %s (%s)\n", i+1, attachment.Name, attachment.MediaType)
			}

			// Print history.
			for _, message := range sess.History {
				if message.Role == session.RoleUser {
					cli.UserInput("> %s\n", message.Content)
				}
				if message.Role == session.RoleAI {
					cli.AIOutput(message.Content + "\n")
				}
			}

			var totalCost decimal.Decimal
			for {
				// Query user for prompt.
				text, err := cli.PromptUser()
				cobra.CheckErr(err)
				// Quick feedback so user knows query has been submitted.
				cli.AIOutput("VOXEE: ")

				// One cancelable context per turn; SIGINT abandons the stream.
				ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
				ctx, cancelTimeout := context.WithTimeout(ctx, time.Duration(config.RequestTimeout)*time.Second)

				if opts.ShowCost {
					payload, err := session.PrepareTurn(sess.History, text, attachments, agnt)
					if err == nil {
						requestTokens, requestCost, err := cost.CalculateRequestCost(agnt.Model, payload...)
						cobra.CheckErr(err)
						totalCost = totalCost.Add(requestCost)
						cli.CostInfo("Request contains %d tokens costing $%s\n", requestTokens, requestCost.String())
					}
				}

				assistant, err := sess.Send(ctx, client, text, attachments, func(delta string) {
					cli.AIOutput(delta)
				})
				cancelTimeout()
				cancel()
				if errors.Is(err, session.ErrEmptySend) {
					cli.AIOutput("\n")
					continue
				}
				if errors.Is(err, context.Canceled) {
					cli.UserCommand("\n#Interrupted\n")
					continue
				}
				if err != nil {
					// The turn already recorded the diagnostic message.
					cli.AIOutput("\n" + assistant.Content + "\n")
				} else if opts.NoStream {
					cli.AIOutput(assistant.Content)
				}
				cli.AIOutput("\n")

				// Attachments only ride the first completed send.
				attachments = nil

				if opts.ShowCost && assistant != nil {
					responseTokens, responseCost, err := cost.CalculateResponseCost(
						agnt.Model, &llm.Message{Role: llm.RoleAssistant, Content: assistant.Content})
					cobra.CheckErr(err)
					totalCost = totalCost.Add(responseCost)
					cli.CostInfo("Response contains %d tokens costing $%s\n", responseTokens, responseCost.String())
					cli.CostInfo("Total cost so far $%s\n", totalCost.String())
				}
				if sess.Status() == session.StatusSaveFailed {
					cli.StatusInfo("[%s]\n", sess.Status())
				}
			}
		},
	}

	opts.Agent = agent.GetOpts(cmd)
	opts.Attachments = file.GetAttachmentOpts(cmd)
	cmd.Flags().StringVar(&opts.ChatKey, "id", "", "resume the saved chat stored under this key")
	cmd.Flags().BoolVarP(&opts.ShowCost, "show-cost", "c", false, "Show cost")
	cmd.Flags().BoolVar(&opts.NoStream, "no-stream", false, "request a single response instead of a stream")
	cmd.Flags().BoolVar(&opts.NoSave, "no-save", false, "do not persist this chat")

	cmd.AddCommand(newListCmd(config))
	cmd.AddCommand(newDeleteCmd(config))
	cmd.AddCommand(newRenameCmd(config))
	return cmd
}
