// Package cli provides the solrag command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/campuskit/solrag/internal/core/ports/driving"
	"github.com/campuskit/solrag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services driving the commands. Wired from configuration on first
// use; tests inject mocks directly.
var (
	indexService  driving.IndexingService
	queryService  driving.QueryService
	schemaService driving.SchemaService
)

var (
	configPath string
	verbosity  int
)

var rootCmd = &cobra.Command{
	Use:   "solrag",
	Short: "Embedding-augmented Solr search",
	Long: `solrag indexes documents and their attached files into Solr with
vector embeddings, and runs similarity or lexical queries over them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbosity > 0)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.solrag/config.toml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (-v), with content previews (-vv)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
