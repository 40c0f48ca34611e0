package cli

import (
	"fmt"

	"github.com/ppiankov/lockscore/internal/mcpserver"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP tool server on stdio",
	Long: `Serve exposes lockscore as an MCP server over stdin/stdout with the tools
lockscore_assess_text, lockscore_assess_source, lockscore_questionnaire
and lockscore_history. History tools need store.enabled (or --save).

Example MCP client entry:
  {"command": "lockscore", "args": ["serve", "--save"]}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addAssessFlags(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, p, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol; only the logger may write, to stderr
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	var history mcpserver.History
	if st != nil {
		defer func() { _ = st.Close() }()
		history = st
	}

	logger.Info("serving MCP on stdio", "version", Version, "history", st != nil)
	if err := mcpserver.Serve(mcpserver.New(p, history, Version, logger)); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
