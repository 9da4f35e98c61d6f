package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cmofkit/cmofkit/internal/cli/ui"
	"github.com/cmofkit/cmofkit/internal/format"
)

var (
	formatWrite  bool
	formatCheck  bool
	formatInit   bool
	formatConfig string
)

// NewFormatCommand creates the format command
func NewFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <files...>",
		Short: "Re-indent JSON fixture files",
		Long: `Re-indent JSON fixture files using the configured indentation, keeping the
order of every member.

By default, shows a diff preview of what would change without modifying files.
Use --write to apply formatting changes, or --check to verify formatting.
Use --init to write a config file with the default settings.

Examples:
  cmofkit format bpmn.json             # Show diff
  cmofkit format --write *.json        # Format and save files
  cmofkit format --check *.json        # Exit with error if not formatted
  cmofkit format --init                # Create .cmofkit-format.yml`,
		RunE: runFormat,
	}

	cmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "Write formatted output to files")
	cmd.Flags().BoolVarP(&formatCheck, "check", "c", false, "Check if files are formatted (exit 1 if not)")
	cmd.Flags().BoolVar(&formatInit, "init", false, "Write a config file with the default settings")
	cmd.Flags().StringVar(&formatConfig, "config", ".cmofkit-format.yml", "Path to formatting config file")

	return cmd
}

func runFormat(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if formatInit {
		if _, err := os.Stat(formatConfig); err == nil {
			return fmt.Errorf("%s already exists", formatConfig)
		}
		if err := format.SaveConfig(formatConfig, format.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		ui.WriteSuccess(out, "created "+formatConfig, color.NoColor)
		return nil
	}

	if len(args) == 0 {
		return errors.New("requires at least 1 file")
	}

	config, err := format.LoadConfig(formatConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	hasChanges := false
	errorCount := 0

	titleColor := color.New(color.FgCyan, color.Bold)
	errorColor := color.New(color.FgRed, color.Bold)

	fileError := func(msg string, err error) {
		ui.WriteError(errOut, ui.ErrorOptions{
			Problem: fmt.Sprintf("%s: %v", msg, err),
			NoColor: color.NoColor,
		})
		errorCount++
	}

	for _, file := range args {
		diff, err := format.FormatFile(file, config)
		if err != nil {
			fileError("Error formatting "+file, err)
			continue
		}

		if !diff.Changed {
			if !formatCheck {
				ui.WriteSuccess(out, file+" (no changes)", color.NoColor)
			}
			continue
		}

		hasChanges = true

		switch {
		case formatCheck:
			errorColor.Fprintf(errOut, "✗ %s needs formatting\n", file)
		case formatWrite:
			if err := os.WriteFile(file, []byte(diff.Generated), 0644); err != nil {
				fileError("Error writing "+file, err)
				continue
			}
			ui.WriteSuccess(out, file+" formatted", color.NoColor)
		default:
			fmt.Fprint(out, diff.UnifiedDiff(file))
			fmt.Fprintf(out, "%s\n", diff.Stats())
		}
	}

	if !formatWrite && !formatCheck && hasChanges {
		titleColor.Fprintf(out, "\nRun 'cmofkit format --write' to apply changes\n")
	}

	if formatCheck && hasChanges {
		return fmt.Errorf("files need formatting")
	}

	if errorCount > 0 {
		return fmt.Errorf("%d files had errors", errorCount)
	}

	return nil
}
