package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ScanFold/internal/domain/model"
	"ScanFold/internal/interface/tui"
	"ScanFold/internal/interface/ui"
	"ScanFold/internal/usecase/report"
)

// errNoFolder はスキャン対象が指定されていない場合のエラーです
var errNoFolder = errors.New("no folder given: pass PATH, --browse or --interactive")

// resolveRoot は引数・ダイアログ・あいまい検索の順にスキャン対象を決めます
func resolveRoot(cmd *cobra.Command, rt *session, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	browse, _ := cmd.Flags().GetBool("browse")
	if browse {
		return ui.NewDirectorySelector(rt.scanner).SelectDirectory("Select folder to scan")
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return ui.NewDirectoryFinder(rt.scanner).SelectDirectory(cwd)
	}

	return "", errNoFolder
}

func runScan(cmd *cobra.Command, rt *session, args []string) error {
	root, err := resolveRoot(cmd, rt, args)
	if err != nil {
		return err
	}
	req := model.NewScanRequest(root, rt.settings.Details)
	ctx := cmd.Context()

	if rt.settings.Stdout {
		r, err := rt.service.Stream(ctx, req, rt.stdout)
		if err != nil {
			return err
		}
		reportSoftFailures(rt, r)
		return nil
	}

	scan := func(ctx context.Context) (*report.Report, error) {
		return rt.service.Generate(ctx, req, rt.options())
	}
	var r *report.Report
	if rt.showProgress() {
		r, err = tui.RunWithSpinner(ctx, req.Root, rt.stderr, scan)
	} else {
		r, err = scan(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(rt.stdout, tui.Success("Scan complete! Saved to: "+r.Path))
	if r.PDFPath != "" {
		fmt.Fprintln(rt.stdout, tui.Muted("PDF saved to: "+r.PDFPath))
	}
	if r.Copied {
		fmt.Fprintln(rt.stdout, tui.Muted("Report copied to clipboard."))
	}
	reportSoftFailures(rt, r)
	return nil
}

// showProgress は stderr が端末の場合のみスピナーを表示します
func (rt *session) showProgress() bool {
	if !rt.settings.Progress {
		return false
	}
	f, ok := rt.stderr.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func reportSoftFailures(rt *session, r *report.Report) {
	n := len(r.Result.SoftFailures)
	if n == 0 {
		return
	}
	fmt.Fprintln(rt.stderr, tui.Warning(fmt.Sprintf("Warning: %d folders could not be read", n)))
	for _, f := range r.Result.SoftFailures {
		fmt.Fprintln(rt.stderr, tui.Muted("  "+f.Error()))
	}
}
