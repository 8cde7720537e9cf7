// Package cli はコマンドラインインターフェースを提供します
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ScanFold/internal/config"
	"ScanFold/internal/infrastructure/filesystem"
	"ScanFold/internal/infrastructure/logging"
	"ScanFold/internal/interface/tui"
	"ScanFold/internal/interface/ui"
	"ScanFold/internal/usecase/report"
)

// version はビルド時に ldflags で設定されます
var version = "dev"

// session はコマンド実行中に共有される依存関係です
type session struct {
	v        *viper.Viper
	cfgFile  string
	settings config.Settings
	logger   logging.Logger
	scanner  *filesystem.Scanner
	service  *report.Service
	stdout   io.Writer
	stderr   io.Writer
}

// setup は設定を読み込み、ロガーとレポートサービスを組み立てます
func (rt *session) setup() error {
	s, path, err := config.Load(rt.v, rt.cfgFile)
	if err != nil {
		return err
	}
	rt.settings = s

	logger := logging.NewJSONLogger(rt.stderr)
	logger.SetMinLevel(s.LogLevel)
	rt.logger = logger
	if path != "" {
		logger.Log(logging.LevelDebug, fmt.Sprintf("using config file %s", path), nil)
	}

	rt.scanner = filesystem.NewScanner(logger)
	renderer := report.NewTreeRenderer(rt.scanner, filesystem.NewMetadataReader(), logger)
	rt.service = report.NewService(renderer, report.NewGenerator(), logger)
	return nil
}

func (rt *session) options() report.Options {
	return report.Options{
		OutputDir: rt.settings.OutputDir,
		PDF:       rt.settings.PDF,
		Clipboard: rt.settings.Clipboard,
	}
}

// NewRootCommand はサブコマンドを含むルートコマンドを作成します
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	rt := &session{v: viper.New(), stdout: stdout, stderr: stderr}
	config.SetDefaults(rt.v)

	root := &cobra.Command{
		Use:   "scanfold [PATH]",
		Short: "Write the folder structure of a directory to a text report",
		Long: `scanfold walks a directory tree and saves an indented outline of its
folders and files to folder_structure_<name>_<timestamp>.txt, optionally with
file sizes and modification dates.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("no-progress") {
				rt.v.Set(config.KeyProgress, false)
			}
			return rt.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, rt, args)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&rt.cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath()+")")
	pf.BoolP("details", "d", false, "include file sizes and modification dates")
	pf.StringP("output-dir", "o", "", "directory the report is saved to (default is the executable's directory)")
	pf.BoolP("clipboard", "c", false, "also copy the report to the clipboard")
	pf.Bool("pdf", false, "also save the report as PDF")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	bindFlag(rt.v, config.KeyDetails, pf.Lookup("details"))
	bindFlag(rt.v, config.KeyOutputDir, pf.Lookup("output-dir"))
	bindFlag(rt.v, config.KeyClipboard, pf.Lookup("clipboard"))
	bindFlag(rt.v, config.KeyPDF, pf.Lookup("pdf"))
	bindFlag(rt.v, config.KeyLogLevel, pf.Lookup("log-level"))

	f := root.Flags()
	f.Bool("stdout", false, "print the report to stdout instead of saving a file")
	f.Bool("browse", false, "choose the folder with the system dialog")
	f.Bool("interactive", false, "choose the folder with a fuzzy finder")
	f.Bool("no-progress", false, "do not show the progress spinner")
	bindFlag(rt.v, config.KeyStdout, f.Lookup("stdout"))
	root.MarkFlagsMutuallyExclusive("browse", "interactive")
	root.MarkFlagsMutuallyExclusive("stdout", "pdf")

	root.AddCommand(
		newGUICommand(rt),
		newServeCommand(rt),
		newWatchCommand(rt),
		newConfigCommand(rt),
	)
	return root
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

// Execute はコマンドを実行し、終了コードを返します
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	// nil だと cobra は os.Args を読む
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ui.ErrCancelled):
		fmt.Fprintln(stderr, tui.Muted("Selection cancelled."))
		return 0
	default:
		fmt.Fprintln(stderr, tui.Error("Error: "+err.Error()))
		return 1
	}
}
