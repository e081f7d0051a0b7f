package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/instbuf/memutils"
)

// Plan is a set of buffers to lay out together, read from a TOML file
type Plan struct {
	// MinAlignment applies to every buffer that does not set its own
	MinAlignment uint         `toml:"min_alignment"`
	Buffers      []PlanBuffer `toml:"buffer"`
}

type PlanBuffer struct {
	Name          string `toml:"name"`
	ElementSize   int    `toml:"element_size"`
	InstanceCount int    `toml:"instance_count"`
	MinAlignment  *uint  `toml:"min_alignment"`
}

// ReadPlan decodes a plan. Unknown keys are rejected so that misspelled settings are not silently ignored.
func ReadPlan(r io.Reader) (*Plan, error) {
	var plan Plan
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&plan)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode buffer plan")
	}

	return &plan, nil
}

// Layouts computes the layout of every buffer in the plan, in file order
func (p *Plan) Layouts() ([]memutils.Layout, error) {
	layouts := make([]memutils.Layout, 0, len(p.Buffers))

	for i, buffer := range p.Buffers {
		minAlignment := p.MinAlignment
		if buffer.MinAlignment != nil {
			minAlignment = *buffer.MinAlignment
		}

		layout, err := memutils.NewLayout(buffer.ElementSize, buffer.InstanceCount, minAlignment)
		if err != nil {
			return nil, errors.Wrapf(err, "buffer %d (%q)", i, buffer.Name)
		}
		layouts = append(layouts, layout)
	}

	return layouts, nil
}

// WritePlan writes the layout of every buffer and their combined statistics as a JSON object
func WritePlan(w io.Writer, plan *Plan) error {
	layouts, err := plan.Layouts()
	if err != nil {
		return err
	}

	var total memutils.Statistics

	writer := jwriter.NewWriter()
	obj := writer.Object()

	buffers := obj.Name("Buffers").Array()
	for i, layout := range layouts {
		total.AddLayout(layout)

		bufferObj := buffers.Object()
		writeLayout(&bufferObj, plan.Buffers[i].Name, layout)
		bufferObj.End()
	}
	buffers.End()

	totalObj := obj.Name("Total").Object()
	writeStatistics(&totalObj, &total)
	totalObj.End()

	obj.End()

	_, err = fmt.Fprintln(w, string(writer.Bytes()))
	return err
}

func newPlanCommand(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "plan FILE",
		Short: "Print the layouts of every buffer in a TOML plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Debug("reading plan", "file", args[0])

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			plan, err := ReadPlan(file)
			if err != nil {
				return err
			}
			logger.Debug("read plan", "buffers", len(plan.Buffers))

			return WritePlan(cmd.OutOrStdout(), plan)
		},
	}
}
