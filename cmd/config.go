package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/apollo-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(_ *cobra.Command, _ []string) error {
		return printConfigYAML(os.Stdout, cfg)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// printConfigYAML writes the effective configuration with the API key
// redacted. The key reaches logs and terminals nowhere else either.
func printConfigYAML(w io.Writer, c *config.Config) error {
	redacted := *c
	if redacted.Apollo.Key != "" {
		redacted.Apollo.Key = "[redacted]"
	}

	out, err := yaml.Marshal(&redacted)
	if err != nil {
		return eris.Wrap(err, "config show: marshal")
	}
	_, err = fmt.Fprint(w, string(out))
	return err
}
