package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-courseware/internal/session"
	"github.com/mind-engage/mindengage-courseware/internal/storage"
)

var (
	progressRegister []string
	progressComplete []string
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show or update stored media progress",
	RunE:  runProgress,
}

func init() {
	progressCmd.Flags().StringSliceVar(&progressRegister, "register", nil, "media ids to register")
	progressCmd.Flags().StringSliceVar(&progressComplete, "complete", nil, "media ids to mark completed")
}

func runProgress(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	s := session.Open(ctx, nil, storage.NewLocal(be.kv, cfg.Namespace, logger),
		session.WithLogger(logger),
		session.WithJournal(be.journal),
	)
	defer s.Close()

	t := s.Tracker()
	t.Register(ctx, progressRegister...)
	for _, id := range progressComplete {
		if !t.MarkCompleted(ctx, id) && !t.IsCompleted(id) {
			logger.Sugar().Warnf("media %q is not registered", id)
		}
	}

	w := cmd.OutOrStdout()
	state := t.State()
	for _, id := range t.IDs() {
		it := state[id]
		mark := " "
		stamp := ""
		if it.Completed {
			mark = "x"
			if it.CompletedAt != nil {
				stamp = it.CompletedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "[%s] %s %s\n", mark, id, stamp)
	}
	done, total := t.Progress()
	fmt.Fprintf(w, "%d/%d completed\n", done, total)
	return nil
}
