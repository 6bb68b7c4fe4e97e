package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/esbridge/internal/domain/batch"
)

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Create the user index if missing and bulk-index every user record",
		RunE:  runReindex,
	}
}

func runReindex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx, "reindex")
	if err != nil {
		return err
	}
	defer a.close()

	svc := a.services()

	created, err := svc.indices.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	a.logger.Info("User index ready",
		zap.String("index", svc.indices.DefaultIndex()),
		zap.Bool("created", created),
	)

	results, err := svc.batch.IndexUsers(ctx)
	if err != nil {
		return fmt.Errorf("index users: %w", err)
	}

	succeeded, failed := dombatch.Summary(results)
	for _, r := range results {
		if r.Status() == dombatch.StatusError {
			a.logger.Warn("User not indexed", zap.String("id", r.ID()), zap.Error(r.Err()))
		}
	}
	a.logger.Info("Reindex finished", zap.Int("succeeded", succeeded), zap.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d users failed to index", failed, len(results))
	}
	return nil
}
