package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zojize/exusiai-bot/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the recruitment simulator as an MCP Server.
This allows chat agents to pull, switch banners and inspect pity as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		g, cfg, logger, closeFn, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Watch {
			if err := g.Watch(ctx); err != nil {
				return err
			}
		}

		srv := mcp.NewServer(g, logger)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			addr := fmt.Sprintf(":%d", port)
			baseURL := fmt.Sprintf("http://localhost:%d", port)
			if err := srv.ServeSSE(ctx, addr, baseURL); err != nil && err != http.ErrServerClosed {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().BoolP("watch", "w", false, "Reload the catalog when its files change")
}
