package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	apperrors "qld-approval-checker/internal/common/errors"
	"qld-approval-checker/internal/common/logger"
	"qld-approval-checker/internal/common/observability"
	"qld-approval-checker/internal/form"
	"qld-approval-checker/internal/ui/console"
)

const shellHelp = `Commands:
  check <type> <address>   check approval requirements (types: shed, patio, carport, granny_flat)
  download                 save the last report as a PDF
  reset                    clear the form
  status                   show the form state
  help                     show this help
  quit                     leave the shell
`

func (c *cli) newShellCmd() *cobra.Command {
	var format, style string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive form session",
		Long: `Runs one form session on the terminal. The last successful report is kept
until the next check or a reset, and "download" saves it as a PDF.

When metrics.enabled is set, /metrics and /health are served on
metrics.address for the lifetime of the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			obs := observability.Noop()
			if c.cfg.Metrics.Enabled {
				o, err := observability.New(c.cfg.App.Name)
				if err != nil {
					c.log.Warn("otel meter unavailable", map[string]interface{}{"error": err.Error()})
				}
				obs = o
				defer obs.Shutdown()

				srv := startMetricsServer(c.cfg.Metrics.Address, c.log)
				defer stopMetricsServer(srv, c.log)
			}

			view, err := console.New(console.Options{
				Out:      cmd.OutOrStdout(),
				Err:      cmd.ErrOrStderr(),
				Format:   format,
				Style:    style,
				ShowBusy: true,
			})
			if err != nil {
				return err
			}
			controller, err := c.newController(view, obs)
			if err != nil {
				return err
			}

			c.log.Info("shell session started", map[string]interface{}{"sessionId": controller.SessionID()})
			return runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), controller, view)
		},
	}

	cmd.Flags().StringVar(&format, "format", console.FormatMarkdown, "report output: markdown or html")
	cmd.Flags().StringVar(&style, "style", "", "glamour style for markdown output (dark, light, notty, ...)")
	return cmd
}

// shell is one interactive session. download sends the inputs of the last
// accepted check, as recorded by the controller.
type shell struct {
	out        io.Writer
	controller *form.Controller
	view       *console.View
}

func runShell(ctx context.Context, in io.Reader, out io.Writer, controller *form.Controller, view *console.View) error {
	s := &shell{out: out, controller: controller, view: view}

	fmt.Fprint(out, "QLD property approval checker. Type \"help\" for commands.\n> ")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if quit := s.handle(ctx, scanner.Text()); quit {
			return nil
		}
		fmt.Fprint(out, "> ")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	fmt.Fprintln(out)
	return nil
}

func (s *shell) handle(ctx context.Context, line string) (quit bool) {
	line = strings.TrimSpace(line)
	command, rest, _ := strings.Cut(line, " ")

	switch strings.ToLower(command) {
	case "":
	case "check":
		structureType, address, _ := strings.Cut(strings.TrimSpace(rest), " ")
		_, err := s.controller.CheckApproval(ctx, address, structureType)
		s.report(err)
	case "download":
		state := s.controller.State()
		path, err := s.controller.DownloadReport(ctx, state.Address, string(state.StructureType))
		switch {
		case err != nil:
			s.report(err)
		case path == "":
			fmt.Fprintln(s.out, "No report to download. Run check first.")
		default:
			fmt.Fprintf(s.out, "Saved %s\n", path)
		}
	case "reset":
		s.controller.ResetForm()
	case "status":
		s.status()
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type \"help\" for commands.\n", command)
	}
	return false
}

// report prints errors the view has not shown.
func (s *shell) report(err error) {
	if err == nil {
		return
	}
	if _, shown := apperrors.As(err); shown {
		return
	}
	fmt.Fprintf(s.out, "%v\n", err)
}

func (s *shell) status() {
	state := s.controller.State()
	structure := "-"
	if state.StructureType != "" {
		structure = state.StructureType.Label()
	}
	address := state.Address
	if address == "" {
		address = "-"
	}
	fmt.Fprintf(s.out, "Address:        %s\n", address)
	fmt.Fprintf(s.out, "Structure type: %s\n", structure)
	fmt.Fprintf(s.out, "Report:         %s\n", yesNo(state.HasReport()))
	if msg, visible := s.view.ErrorMessage(); visible {
		fmt.Fprintf(s.out, "Error:          %s\n", msg)
	}
	fmt.Fprintf(s.out, "Controls:       [%s]", s.view.CheckLabel())
	if label := s.view.DownloadLabel(); label != "" {
		fmt.Fprintf(s.out, " [%s]", label)
	}
	fmt.Fprintln(s.out)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func startMetricsServer(addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics server listening", map[string]interface{}{"address": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()
	return srv
}

func stopMetricsServer(srv *http.Server, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("metrics server shutdown", map[string]interface{}{"error": err.Error()})
	}
}
