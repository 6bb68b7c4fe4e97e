package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	domuser "github.com/kailas-cloud/esbridge/internal/domain/user"
)

const (
	minSeedAge = 18
	maxSeedAge = 45
)

var (
	seedFirstNames = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi", "ivan", "judy"}
	seedLastNames  = []string{"smith", "jones", "brown", "taylor", "wilson", "clark", "lewis", "walker"}
)

func newSeedUsersCmd() *cobra.Command {
	var (
		count int
		reset bool
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "seed-users",
		Short: "Write generated user records into the user store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			ctx := cmd.Context()

			a, err := bootstrap(ctx, "seed-users")
			if err != nil {
				return err
			}
			defer a.close()

			if a.users == nil {
				return fmt.Errorf("user store is not configured")
			}

			if reset {
				removed, err := a.users.Clear(ctx)
				if err != nil {
					return fmt.Errorf("clear users: %w", err)
				}
				a.logger.Info("Removed user records", zap.Int("count", removed))
			}

			if err := a.users.Save(ctx, generateUsers(count, seed)...); err != nil {
				return fmt.Errorf("save users: %w", err)
			}
			a.logger.Info("Seeded user records", zap.Int("count", count), zap.Uint64("seed", seed))
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 10, "number of users to generate")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing user records first")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed; the same seed yields the same users")

	return cmd
}

// generateUsers returns count users with ids 1..count. Output depends only on seed.
func generateUsers(count int, seed uint64) []domuser.Record {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	users := make([]domuser.Record, count)
	for i := range users {
		first := seedFirstNames[rng.IntN(len(seedFirstNames))]
		last := seedLastNames[rng.IntN(len(seedLastNames))]
		id := int64(i + 1)
		users[i] = domuser.Record{
			ID:    id,
			Name:  first + " " + last,
			Email: fmt.Sprintf("%s.%s%d@example.com", first, last, id),
			Age:   minSeedAge + rng.IntN(maxSeedAge-minSeedAge+1),
		}
	}
	return users
}
