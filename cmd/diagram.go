package cmd

import (
	"fmt"

	"sp-depends/internal/diagram"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var diagramOut string

var diagramCmd = &cobra.Command{
	Use:   "diagram <export.xml>",
	Short: "Render a dependency-export XML document as a Mermaid graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := appFs.Open(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", args[0])
		}
		defer f.Close()

		export, err := diagram.Parse(f)
		if err != nil {
			return err
		}
		script := diagram.Mermaid(export)
		fmt.Fprintln(cmd.OutOrStdout(), script)

		if diagramOut == "" {
			return nil
		}
		if err := afero.WriteFile(appFs, diagramOut, []byte(script+"\n"), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", diagramOut)
		}
		logrus.Infof("Mermaid script saved to: %s", diagramOut)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(diagramCmd)

	diagramCmd.Flags().StringVarP(&diagramOut, "out", "o", "", "File the Mermaid script is saved to")
}
