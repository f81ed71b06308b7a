package cmd

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/grovetools/coverlay/cli"
	"github.com/grovetools/coverlay/daemon"
	"github.com/grovetools/coverlay/editor"
	"github.com/grovetools/coverlay/service"
	"github.com/grovetools/coverlay/statusbar"
	"github.com/grovetools/coverlay/tui"
	"github.com/grovetools/coverlay/tui/statusline"
)

// NewWatchCmd creates the `watch` command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Display live coverage in the attached editor",
		Long: `Attaches to a running Neovim instance, renders line coverage onto the
visible buffers, and keeps it up to date as coverage reports change on disk.

Examples:
  # Watch from inside a Neovim :terminal
  coverlay watch

  # Attach to a specific Neovim server
  coverlay watch --server /tmp/nvim.sock

  # Also publish status updates over websocket
  coverlay watch --listen :7481
`,
		RunE: runWatchE,
	}

	cmd.Flags().String("server", "", "Neovim RPC server address (defaults to editor.server or $NVIM)")
	cmd.Flags().String("listen", "", "Address for the websocket status endpoint (disabled when empty)")
	cmd.Flags().Bool("headless", false, "Run without the interactive status line")

	return cmd
}

func runWatchE(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd)
	handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return handler.Handle(err)
	}

	root, err := os.Getwd()
	if err != nil {
		return err
	}

	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = cfg.Editor.Server
	}

	client, err := editor.Attach(server)
	if err != nil {
		return handler.Handle(err)
	}
	defer client.Close()

	renderer, err := editor.NewRenderer(client)
	if err != nil {
		return handler.Handle(err)
	}

	var items statusbar.Fanout
	if cfg.StatusbarEnabled() {
		items = append(items, statusbar.NewStateItem())
	}

	listen, _ := cmd.Flags().GetString("listen")
	if listen != "" {
		broadcaster := daemon.NewBroadcaster()
		go func() {
			if err := broadcaster.ListenAndServe(listen); err != nil {
				logger.WithError(err).Error("Status endpoint stopped")
			}
		}()
		items = append(items, broadcaster)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	headless, _ := cmd.Flags().GetBool("headless")
	interactive := !headless && isatty.IsTerminal(os.Stdout.Fd())

	var svc *service.Service
	var model *statusline.Model
	if interactive {
		model = statusline.New(func() {
			if svc != nil {
				svc.Toggle(ctx)
			}
		})
		items = append(items, model.Item())
	}

	presenter := statusbar.NewPresenter(items, cfg.LineThreshold(), cfg.BranchThreshold())
	defer presenter.Close()

	svc = service.New(cfg, root, client, renderer, presenter)
	defer svc.Close()

	if err := svc.Watch(ctx); err != nil {
		return handler.Handle(err)
	}

	if !interactive {
		logger.Info("Watching coverage reports, press Ctrl-C to stop")
		<-ctx.Done()
		return nil
	}

	tui.InitializeTUI()
	model.AddEvent("watching for coverage report changes")
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
