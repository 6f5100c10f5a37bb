package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenasset/tokend/internal/oracle"
	"github.com/greenasset/tokend/pkg/scheduler"

	"github.com/spf13/cobra"
)

var cmdAgent = &cobra.Command{
	Use:   "agent",
	Short: "Run the agent with background jobs until interrupted",
	RunE: func(c *cobra.Command, args []string) error {
		return runAgent(c, args)
	},
}

func runAgent(c *cobra.Command, args []string) error {
	ctx := Context()

	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Client.Disconnect(ctx)

	sch := scheduler.Scheduler{}

	refresh := time.Duration(env.Config.Oracle.RefreshMinutes) * time.Minute
	sch.ScheduleJob(ctx, scheduler.NewPeriodicProcess("price_refresh",
		&oracle.Refresher{Oracle: env.Oracle}, refresh))

	done := make(chan error, 1)
	go func() {
		done <- sch.Run(ctx)
	}()

	fmt.Printf("Agent %s %s running. Issuer accounts : %v\n",
		env.Config.Agent.OperatorName, env.Config.Agent.Version,
		env.Wallet.KeyStore.Addresses())

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)

	select {
	case <-osSignals:
		fmt.Printf("Shutting down\n")
		sch.Stop(ctx)
		<-done
	case err := <-done:
		return err
	}

	return nil
}
