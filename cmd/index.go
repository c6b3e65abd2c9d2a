package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"defscope.dev/pkg/defscope/internal/domain"
)

var indexParallelFlag int

const indexLongDescription = `Index the structure of the given files or directories (default: current
directory). Reports classes with their bases and methods, module-level
functions and parameter declarations, each with its line range.

Directories are scanned recursively for source files.`

// indexCmd represents the index command.
var indexCmd = newIndexCmd()

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [paths...]",
		Short: "Index classes, functions and parameters",
		Long:  indexLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Index(cmd.Context(), domain.IndexArgs{
				Paths:   parsePaths(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Threads: viper.GetInt(indexParallelConfigKey),
			})
		},
	}

	configureIndexFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func configureIndexFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&indexParallelFlag, indexParallelFlagName, "p", viper.GetInt(indexParallelConfigKey), "number of files to index in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(indexParallelFlagName), indexParallelConfigKey)
}
