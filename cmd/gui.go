package cmd

import (
	"audio-extractor/infrastructure/desktop"

	"github.com/spf13/cobra"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop window",
	Long: `Opens a window with a file picker, a format selector, a progress bar and
Extract/Cancel buttons. Results are shown in a dialog.

The window needs a binary built with the Wails desktop tags:
  go build -tags desktop,production -o audio-extractor .

Example:
  audio-extractor gui`,
	RunE: runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	app := desktop.NewApp(
		newExtractionService(cfg),
		desktop.WithDefaultProfile(cfg.DefaultProfile()),
	)
	return app.Run()
}
