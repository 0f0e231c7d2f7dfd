package main

import (
	"github.com/spf13/cobra"
	"github.com/viralforge/profiles-service/internal/app/bootstrap"
)

const defaultConfigPath = "configs/default.yaml"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "profiles",
		Short:         "Profiles service: token-gated profile creation and lookup",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", defaultConfigPath, "path to the YAML config file")

	root.AddCommand(newAPICmd(), newWorkerCmd(), newMigrateCmd())
	return root
}

func newAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the HTTP API and gRPC health endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			withWorker, _ := cmd.Flags().GetBool("with-worker")
			runtime, err := bootstrap.NewRuntime(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			return runtime.RunAPI(cmd.Context(), withWorker)
		},
	}
	cmd.Flags().Bool("with-worker", false, "also run the outbox worker in this process")
	return cmd
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Publish outbox events to Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			runtime, err := bootstrap.NewRuntime(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			return runtime.RunWorker(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Ensure store indexes and migrations, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			runtime, err := bootstrap.NewRuntime(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			return runtime.Migrate(cmd.Context())
		},
	}
}
