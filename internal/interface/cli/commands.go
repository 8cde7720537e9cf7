package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"ScanFold/internal/config"
	"ScanFold/internal/domain/model"
	"ScanFold/internal/gui"
	"ScanFold/internal/infrastructure/logging"
	"ScanFold/internal/infrastructure/watcher"
	"ScanFold/internal/interface/httpapi"
	"ScanFold/internal/interface/tui"
	"ScanFold/internal/usecase/report"
)

const guiAppID = "io.scanfold.app"

func newGUICommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the folder scanner window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fyneapp.NewWithID(guiAppID)
			gui.NewApp(a, rt.service, rt.options(), rt.settings.Details, rt.logger).Run()
			return nil
		},
	}
}

func newServeCommand(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve folder reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := rt.settings.Serve.Addr
			fmt.Fprintln(rt.stdout, tui.Success("Serving reports on http://"+addr))
			return httpapi.Serve(cmd.Context(), addr, httpapi.NewRouter(rt.service, rt.logger), rt.logger)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default "+config.Defaults().Serve.Addr+")")
	bindFlag(rt.v, config.KeyServeAddr, cmd.Flags().Lookup("addr"))
	return cmd
}

func newWatchCommand(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch PATH",
		Short: "Regenerate the report whenever the folder changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), rt, args[0])
		},
	}
	cmd.Flags().Duration("debounce", 0, "quiet period before regenerating (default "+config.Defaults().Watch.Debounce.String()+")")
	bindFlag(rt.v, config.KeyWatchDebounce, cmd.Flags().Lookup("debounce"))
	return cmd
}

// isReportFile は自身が書き出したレポートファイルかどうかを判定します
func isReportFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), report.OutputFilePrefix)
}

func runWatch(ctx context.Context, rt *session, root string) error {
	req := model.NewScanRequest(root, rt.settings.Details)
	if err := rt.service.Validate(req.Root); err != nil {
		return err
	}

	generate := func() {
		r, err := rt.service.Generate(ctx, req, rt.options())
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintln(rt.stderr, tui.Error("Error: "+err.Error()))
			}
			return
		}
		fmt.Fprintln(rt.stdout, tui.Success("Report updated: "+r.Path))
		reportSoftFailures(rt, r)
	}

	w, err := watcher.New(rt.settings.Watch.Debounce, isReportFile, rt.logger)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.AddTree(req.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", req.Root, err)
	}

	generate()
	fmt.Fprintln(rt.stdout, tui.Muted("Watching "+req.Root+" for changes. Press Ctrl+C to stop."))
	rt.logger.Log(logging.LevelInfo, fmt.Sprintf("watching %s", req.Root), nil)
	return w.Run(ctx, generate)
}

func newConfigCommand(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// 設定ファイルが壊れていても init できるように読み込みは行わない
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rt.cfgFile
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if err := config.Save(path, config.Defaults(), force); err != nil {
				return err
			}
			fmt.Fprintln(rt.stdout, tui.Success("Config written to "+path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(initCmd)
	return cmd
}
