package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/akolanti/ragassistant/internal/bootstrap"
	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/mcpserver"
	"github.com/akolanti/ragassistant/internal/rag"
	"github.com/akolanti/ragassistant/internal/tui"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

// cli holds what the subcommands share. svc is set by the persistent pre-run
// unless a test injected one.
type cli struct {
	cfgPath  string
	logFile  string
	settings *config.Settings
	svc      rag.Service
	closers  []func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	err := newRootCmd(c).ExecuteContext(ctx)
	c.close()
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "rag",
		Short: "Multimodal research assistant",
		Long: `Indexes text, office documents and images into a vector store and
answers questions from them with a language model.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "optional YAML settings file")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "write logs here instead of stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "index [dir]",
			Short: "Index every supported file in dir (default DATA_DIR)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir := c.settings.DataDir
				if len(args) == 1 {
					dir = args[0]
				}
				return runIndex(cmd.Context(), c.svc, dir, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "query [question]",
			Short: "Answer a question from the indexed documents",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runQuery(cmd.Context(), c.svc, strings.Join(args, " "), cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Remove every stored chunk",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.svc.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Knowledge base cleared.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "count",
			Short: "Print the number of stored chunks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				n, err := c.svc.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d chunks stored\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "chat",
			Short: "Interactive terminal chat",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				program := tea.NewProgram(tui.New(c.svc, c.settings.DataDir), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
				_, err := program.Run()
				return err
			},
		},
		&cobra.Command{
			Use:   "mcp",
			Short: "Serve the pipeline as MCP tools over stdio",
			Long: `Starts a Model Context Protocol server on stdin/stdout exposing the
index, query, reset and count tools. Logs go to stderr or --log-file.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				server, err := mcpserver.New(c.svc, c.settings.DataDir)
				if err != nil {
					return err
				}
				return server.Run(cmd.Context())
			},
		},
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.svc != nil {
		return nil
	}

	settings, err := config.Load(c.cfgPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.settings = settings

	if err := c.initLogging(cmd.Name()); err != nil {
		return err
	}

	app, err := bootstrap.NewApp(cmd.Context(), settings)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, func() { _ = app.Close() })
	c.svc = app.Service

	cmd.SetContext(context.WithValue(cmd.Context(), config.TRACE_ID_KEY, uuid.New().String()))
	return nil
}

// initLogging keeps stdout free for the terminal UI and the MCP protocol.
// Logs go to stderr unless a file is given; chat discards them by default.
func (c *cli) initLogging(command string) error {
	var w io.Writer = os.Stderr
	switch {
	case c.logFile != "":
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		w = f
		c.closers = append(c.closers, func() { _ = f.Close() })
	case command == "chat":
		w = io.Discard
	}
	logger_i.InitWithWriter(w, c.settings.IsProd, c.settings.LogLevel)
	return nil
}

// close runs in reverse so the app shuts down before its log file.
func (c *cli) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func runIndex(ctx context.Context, svc rag.Service, dir string, out io.Writer) error {
	report := svc.Index(ctx, dir)
	fmt.Fprintf(out, "Indexed %s\n  files loaded:      %d\n  images described:  %d\n  chunks:            %d\n  embedded:          %d\n  stored:            %d\n",
		report.Directory, report.Loaded, report.Described, report.Chunked, report.Embedded, report.Added)
	if len(report.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped %d item(s):\n", len(report.Skipped))
		for _, item := range report.Skipped {
			fmt.Fprintf(out, "  [%s] %s: %s\n", item.Kind, item.Item, item.Reason)
		}
	}
	return report.Err
}

// runQuery prints the answer even when a stage failed; the fallback text is
// what the user should see.
func runQuery(ctx context.Context, svc rag.Service, question string, out io.Writer) error {
	result := svc.Query(ctx, question)
	fmt.Fprintln(out, result.Answer)
	if result.Err != nil {
		logger_i.NewLogger("cli").Warn("Query degraded", "error", result.Err)
	}
	return nil
}
