// Command cambio runs a Cambio game server, or a thin headless client
// against one, selected by subcommand.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joe-loach/cambio/client"
	"github.com/joe-loach/cambio/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cambio",
		Short: "Cambio card game server and client",
	}
	root.AddCommand(newServerCmd(), newClientCmd())
	return root
}

func newServerCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run a Cambio game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()
			log := logger.Sugar()

			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			srv, err := server.New(cfg, log)
			if err != nil {
				return err
			}
			log.Infow("listening", "addr", srv.Addr())

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "./Server.toml", "path to Server.toml")
	return cmd
}

func newClientCmd() *cobra.Command {
	var addr string
	var rejoin string
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Connect to a Cambio game server and print server events",
		RunE: func(cmd *cobra.Command, args []string) error {
			var id *uuid.UUID
			if rejoin != "" {
				parsed, err := uuid.Parse(rejoin)
				if err != nil {
					return err
				}
				id = &parsed
			}
			c, err := client.Dial(addr, id)
			if err != nil {
				return err
			}
			defer c.Close()
			fmt.Printf("joined as %s\n", c.ID())

			for {
				event, err := c.Recv()
				if err != nil {
					return err
				}
				fmt.Printf("%#v\n", event)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", fmt.Sprintf("127.0.0.1:%d", server.DefaultPort), "server address")
	cmd.Flags().StringVar(&rejoin, "rejoin", "", "player id to rejoin with")
	return cmd
}
