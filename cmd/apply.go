package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"defscope.dev/pkg/defscope/internal/domain"
	m "defscope.dev/pkg/defscope/internal/model"
)

var applyDryRunFlag bool
var applyEditsFlag string

const applyLongDescription = `Apply a sequence of guarded edits to FILE and print a unified diff.

The edit payload is JSON, read from stdin by default or from --edits:

  {
    "edits": [
      {"kind": "replace",
       "target": {"kind": "function", "name": "train"},
       "before": "def train(self):\n    pass\n",
       "after": "def train(self):\n    return self.fit()\n"}
    ]
  }

Replace edits are rejected when the given before snapshot no longer matches
the file, so concurrent modifications are never silently overwritten. With
--dry-run the diff is printed and the file is left untouched.`

// applyPayload is the JSON document accepted on stdin or via --edits.
type applyPayload struct {
	Edits  []m.Edit `json:"edits"`
	DryRun bool     `json:"dryRun,omitempty"`
}

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "Apply guarded edits to a file",
		Long:  applyLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readApplyPayload(cmd, applyEditsFlag)
			if err != nil {
				return err
			}

			return workflow.Apply(cmd.Context(), domain.ApplyArgs{
				Path:       m.Path(args[0]),
				Edits:      payload.Edits,
				DryRun:     applyDryRunFlag || payload.DryRun,
				JournalDir: viper.GetString(journalConfigKey),
			})
		},
	}

	configureApplyFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func configureApplyFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&applyDryRunFlag, "dry-run", false, "print the diff without writing the file")
	cmd.Flags().StringVarP(&applyEditsFlag, "edits", "e", "", "read the edit payload from a file instead of stdin")
}

func readApplyPayload(cmd *cobra.Command, editsPath string) (applyPayload, error) {
	var payload applyPayload

	var reader io.Reader
	if editsPath == "" || editsPath == "-" {
		reader = cmd.InOrStdin()
	} else {
		f, err := os.Open(editsPath)
		if err != nil {
			return payload, fmt.Errorf("failed to open edits file: %w", err)
		}
		defer func() { _ = f.Close() }()

		reader = f
	}

	if err := json.NewDecoder(reader).Decode(&payload); err != nil {
		return payload, fmt.Errorf("failed to decode edit payload: %w", err)
	}

	if len(payload.Edits) == 0 {
		return payload, errors.New("edit payload contains no edits")
	}

	return payload, nil
}
