package main

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/wcrypto/wblst"
	"github.com/gordian-engine/whisk/whisk"
	"github.com/gordian-engine/whisk/wsim"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whisk",
		Short: "Single secret leader election tooling",
	}
	cmd.AddCommand(simulateCmd())
	return cmd
}

func simulateCmd() *cobra.Command {
	var (
		numValidators int
		epochs        int
		candidates    int
		slots         int
		listenAddr    string
		simpleAlgebra bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run shuffle periods of a simulated election",
		Long: `Simulate bootstraps a validator set, then runs full shuffle periods:
candidate selection, a proved shuffle through the verification gate,
proposer selection, and an opening for every slot of the schedule.

With --listen, a read-only inspection server exposes
/state, /schedule, and /validators while the simulation runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var alg wcrypto.Algebra = wblst.Algebra{}
			if simpleAlgebra {
				alg = wcrypto.SimpleAlgebra{}
			}

			sim, err := wsim.New(log, wsim.Config{
				Algebra: alg,
				Params: whisk.Params{
					CandidateTrackersCount: candidates,
					ProposerTrackersCount:  slots,
				},
				NumValidators: numValidators,
				Rand:          rand.Reader,
			})
			if err != nil {
				return err
			}

			var srv *wsim.HTTPServer
			if listenAddr != "" {
				ln, err := net.Listen("tcp", listenAddr)
				if err != nil {
					return fmt.Errorf("listening on %s: %w", listenAddr, err)
				}
				log.Info("Inspection server listening", "addr", ln.Addr())

				srv = wsim.NewHTTPServer(ctx, log, wsim.HTTPServerConfig{
					Listener: ln,
					Sim:      sim,
				})
			}

			if err := sim.Run(ctx, epochs); err != nil {
				if ctx.Err() != nil {
					log.Info("Simulation interrupted")
					return nil
				}
				return err
			}
			log.Info("Simulation complete", "epochs", epochs)

			if srv != nil {
				// Keep serving the final state until interrupted.
				<-ctx.Done()
				srv.Wait()
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&numValidators, "validators", 16, "number of validators")
	cmd.Flags().IntVar(&epochs, "epochs", 2, "shuffle periods to run")
	cmd.Flags().IntVar(&candidates, "candidates", 8, "candidate pool size")
	cmd.Flags().IntVar(&slots, "slots", 4, "slots per shuffle period")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "inspection server listen address (disabled when empty)")
	cmd.Flags().BoolVar(&simpleAlgebra, "simple-algebra", false, "use the non-hiding test algebra instead of BLS12-381")

	return cmd
}
