// Package cmd provides the root command and CLI setup for defscope.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"defscope.dev/pkg/defscope/internal/adapter"
	"defscope.dev/pkg/defscope/internal/controller"
	"defscope.dev/pkg/defscope/internal/domain"
	m "defscope.dev/pkg/defscope/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var resolver domain.Resolver
var indexer domain.Indexer
var editor domain.Editor
var workflow domain.Workflow
var ui controller.UI

// formatFlag selects the output encoding shared by all display commands.
var formatFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// journalDirFlag is where apply records its edit audit trail.
var journalDirFlag string

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	resolver = domain.NewResolver()
	indexer = domain.NewIndexer()
	editor = domain.NewEditor(indexer)
}

const rootLongDescription = `Defscope locates function boundaries in indentation-structured source files
without a full parser, so tooling can read, index and rewrite a single
function or class body in place.

Target a function by cursor line or by name, inspect a file's structure, or
apply guarded replace/insert edits with a unified diff of the result.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defscope",
		Short: "Function boundary resolver for indentation-structured sources",
		Long:  rootLongDescription,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger("", verboseFlag || viper.GetBool(logVerboseKey))

			// UI and workflow depend on parsed flag values.
			ui = controller.NewUI(cmd, controller.IsTTY(os.Stdout), controller.Format(viper.GetString(formatConfigKey)))
			workflow = domain.NewWorkflow(fsAdapter, ui, resolver, indexer, editor)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&formatFlag, formatFlagName, "f",
			viper.GetString(formatConfigKey),
			"output format: text, json or yaml",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(formatFlagName), formatConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringVar(&journalDirFlag, journalFlagName, viper.GetString(journalConfigKey), "directory for the edit journal")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(journalFlagName), journalConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
