package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Brownie44l1/kasgo/internal/config"
	"github.com/Brownie44l1/kasgo/internal/logging"
	"github.com/Brownie44l1/kasgo/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	envFlagName     = "env"
	verboseFlagName = "verbose"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "kasctl",
	Short:         "Command-line client for the KAS token, node and history APIs",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String(envFlagName, ".env", "Path of the .env file to read configuration from")
	rootCmd.PersistentFlags().BoolP(verboseFlagName, "v", false, "Log every request")

	rootCmd.AddCommand(kip7Cmd())
	rootCmd.AddCommand(nodeCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(tokenCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "kasctl:", err)
		os.Exit(1)
	}
}

// ==============================================
// SHARED HELPERS
// ==============================================

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(envFlagName)
	if err != nil {
		return nil, err
	}
	return config.LoadConfig(path)
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool(verboseFlagName)
	return logging.NewDevelopment(verbose)
}

func loadServices(cmd *cobra.Command) (*service.Services, *config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	log := newLogger(cmd)
	svcs, err := service.New(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return svcs, cfg, log, nil
}

// printResult waits for fut and prints its outcome as JSON. A remote error
// payload is printed and returned as the command error.
func printResult[T any](cmd *cobra.Command, fut *service.Future[T]) error {
	res, err := fut.Await(cmd.Context())
	if err != nil {
		return err
	}
	if res.Kind == service.ResultRemoteError {
		if err := printJSON(cmd, res.Remote); err != nil {
			return err
		}
		return res.Remote
	}
	return printJSON(cmd, res.Data)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
