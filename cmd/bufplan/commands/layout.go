package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/instbuf/memutils"
)

func newLayoutCommand(logger *log.Logger) *cobra.Command {
	var elementSize, count int
	var minAlignment uint

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the layout of a single buffer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Debug("computing layout", "elementSize", elementSize, "count", count, "minAlignment", minAlignment)

			layout, err := memutils.NewLayout(elementSize, count, minAlignment)
			if err != nil {
				return err
			}

			writer := jwriter.NewWriter()
			obj := writer.Object()
			writeLayout(&obj, "", layout)
			obj.End()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(writer.Bytes()))
			return err
		},
	}

	cmd.Flags().IntVar(&elementSize, "element-size", 0, "size in bytes of one instance")
	cmd.Flags().IntVar(&count, "count", 1, "number of instances")
	cmd.Flags().UintVar(&minAlignment, "min-alignment", 0, "offset alignment each instance must begin on, 0 or a power of two")
	_ = cmd.MarkFlagRequired("element-size")

	return cmd
}
