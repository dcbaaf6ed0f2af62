package cmd

import (
	"fmt"
	"strings"

	"audio-extractor/infrastructure/config"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration values",
	Long: `Show or change single values in the configuration file.

Keys:
  ` + strings.Join(config.Keys(), "\n  ") + `

Examples:
  audio-extractor config list
  audio-extractor config get extraction.default_format
  audio-extractor config set extraction.progress estimate`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configuration value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigListWithDependencies(cfg, cfgFile, DefaultOutput)
	},
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(configPath)
	tw.AppendHeader(table.Row{"Key", "Value"})
	for _, entry := range mgr.List() {
		tw.AppendRow(table.Row{entry.Key, entry.Value})
	}

	_, err := fmt.Fprintln(out, tw.Render())
	return err
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		value, err := config.NewConfigManager(cfg, cfgFile).Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(DefaultOutput, value)
		return nil
	},
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value and save the file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigSetWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.Set(key, value); err != nil {
		return err
	}

	saved, _ := mgr.Get(key)
	fmt.Fprintf(out, "Set %s = %q in %s\n", strings.ToLower(strings.TrimSpace(key)), saved, configPath)
	return nil
}
