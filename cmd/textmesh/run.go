package main

import (
	"fmt"
	"strings"

	"github.com/hupe1980/textmesh/config"
	"github.com/hupe1980/textmesh/core"
	"github.com/spf13/cobra"
)

func newRunCmd(configPath *string) *cobra.Command {
	var (
		agentName string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "run [message]",
		Short: "Execute a single turn locally and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			if agentName != "" {
				cfg.Agent = agentName
			}

			logger := buildLogger(cfg)

			entry, err := buildRegistry().Resolve(cfg.Agent)
			if err != nil {
				return err
			}

			eng := buildEngine(cfg, logger)
			store := buildStore(cfg)
			userInput := strings.Join(args, " ")

			req := core.Request{
				JobID:     core.NewID(),
				UserInput: userInput,
			}
			if sessionID != "" {
				prior, err := store.Load(cmd.Context(), sessionID)
				if err != nil && err != core.ErrConversationNotFound {
					return fmt.Errorf("load session: %w", err)
				}
				req.State = prior
			}

			res := eng.Execute(cmd.Context(), entry, req)

			if sessionID != "" && res.Status == core.StatusSuccess {
				if err := store.Save(cmd.Context(), sessionID, res.UpdatedState); err != nil {
					return fmt.Errorf("save session: %w", err)
				}
			}

			if res.Status != core.StatusSuccess {
				return fmt.Errorf("job %s: %s", res.Status, res.Error)
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.ResponseText)
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentName, "agent", "a", "", "agent to run (overrides config)")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id for conversation state")

	return cmd
}
