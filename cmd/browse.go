package cmd

import (
	"github.com/spf13/cobra"

	"defscope.dev/pkg/defscope/internal/domain"
	m "defscope.dev/pkg/defscope/internal/model"
)

// browseCmd represents the browse command.
var browseCmd = newBrowseCmd()

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse FILE",
		Short: "Browse a file's functions interactively",
		Long: `Browse the classes, methods and functions of FILE in an interactive
terminal viewer. Without a TTY the structural index is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Browse(cmd.Context(), domain.BrowseArgs{
				Path: m.Path(args[0]),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
