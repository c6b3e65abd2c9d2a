package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"defscope.dev/pkg/defscope/internal/domain"
	m "defscope.dev/pkg/defscope/internal/model"
)

var resolveLineFlag int
var resolveNameFlag string

const resolveLongDescription = `Resolve the boundaries of a single function inside FILE.

Target it either by a cursor position (--line, 1-based) or by its name
(--name). The position form finds the innermost function whose body contains
the line; the name form finds the first function with that exact name,
searching class methods before module-level functions.`

// resolveCmd represents the resolve command.
var resolveCmd = newResolveCmd()

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve FILE",
		Short: "Resolve a function's line range",
		Long:  resolveLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locator, err := parseLocator(resolveLineFlag, resolveNameFlag)
			if err != nil {
				return err
			}

			return workflow.Resolve(cmd.Context(), domain.ResolveArgs{
				Path:    m.Path(args[0]),
				Locator: locator,
			})
		},
	}

	configureResolveFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func configureResolveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&resolveLineFlag, "line", "l", 0, "cursor line to resolve the enclosing function for (1-based)")
	cmd.Flags().StringVarP(&resolveNameFlag, "name", "n", "", "function name to resolve")
}

func parseLocator(line int, name string) (m.Locator, error) {
	name = strings.TrimSpace(name)

	switch {
	case name != "" && line > 0:
		return m.Locator{}, errors.New("--line and --name are mutually exclusive")
	case name != "":
		return m.Locator{Kind: m.LocateByName, Name: name}, nil
	case line > 0:
		return m.Locator{Kind: m.LocateByPosition, Line: line}, nil
	default:
		return m.Locator{}, errors.New("either --line or --name is required")
	}
}
