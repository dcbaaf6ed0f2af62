package cmd

import (
	"fmt"

	"audio-extractor/domain/audio"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported output formats",
	Long: `Lists the output formats with the menu number, ffmpeg codec, bitrate and
file extension used for each.

Example:
  audio-extractor formats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunFormatsWithOutput(DefaultOutput)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

// RunFormatsWithOutput renders the format table (for testing)
func RunFormatsWithOutput(output OutputWriter) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Format", "Codec", "Bitrate", "Extension", "Description"})

	for _, p := range audio.Profiles() {
		bitrate := p.Bitrate()
		if bitrate == "" {
			bitrate = "-"
		}
		tw.AppendRow(table.Row{p.MenuNumber(), p.String(), p.Codec(), bitrate, p.Extension(), p.Description()})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	_, err := fmt.Fprintln(output, tw.Render())
	return err
}
