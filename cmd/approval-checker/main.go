// cmd/approval-checker/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qld-approval-checker/internal/common/config"
	apperrors "qld-approval-checker/internal/common/errors"
	"qld-approval-checker/internal/common/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		// form errors have already been shown by the view
		if _, shown := apperrors.As(err); !shown {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// cli holds what every subcommand shares once the root command has run.
type cli struct {
	configDirs []string
	logLevel   string

	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "approval-checker",
		Short: "Check Queensland development approval requirements for a property",
		Long: `approval-checker asks the approval backend whether a structure on a
Queensland property needs development approval, shows the zone, overlays and
checklist it returns, and can save the report as a PDF.

Configuration is read from config.yaml, .env and the environment
(API_BASE_URL, DOWNLOAD_DIR, LOGGING_LEVEL, ...).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.zapLog != nil {
				_ = c.zapLog.Sync()
			}
		},
	}

	root.PersistentFlags().StringSliceVar(&c.configDirs, "config-dir", config.DefaultSearchPaths,
		"directories searched for config.yaml and .env")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		c.newCheckCmd(),
		c.newShellCmd(),
		c.newVersionCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFrom(c.configDirs...)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	c.cfg = cfg

	c.zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	c.log = logger.NewZapAdapter(c.zapLog).With(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})
	c.log.Debug("configuration loaded", map[string]interface{}{
		"baseUrl":     cfg.API.BaseURL,
		"downloadDir": cfg.Download.Dir,
	})
	return nil
}
