// Package cmd - estimate command
package cmd

import (
	"github.com/spf13/cobra"

	"co2js-plugin/core/types"
	"co2js-plugin/internal/config"
	"co2js-plugin/internal/errors"
	"co2js-plugin/models"
	"co2js-plugin/models/co2js"
)

var (
	estimateBytes  float64
	estimateModel  string
	estimateGreen  bool
	estimateFormat string

	reloadRatio         float64
	firstVisitShare     float64
	returnVisitShare    float64
	deviceIntensity     float64
	dataCenterIntensity float64
	networkIntensity    float64
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the carbon of a single transfer",
	Long: `Run one record through the Co2jsModel plugin and print it with its
operational-carbon (grams CO2e).

Any trace flag switches the swd model to a per-visit trace.

Examples:
  co2js estimate --bytes 1000000
  co2js estimate --bytes 1000000 --model 1byte --green
  co2js estimate --bytes 1000000 --data-reload-ratio 0.4 --grid-device 300`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.Float64Var(&estimateBytes, "bytes", 0, "bytes transferred")
	f.StringVarP(&estimateModel, "model", "m", "", "model type (1byte, swd); defaults to the configured model, then swd")
	f.BoolVar(&estimateGreen, "green", false, "the site is served by a green web host")
	f.StringVarP(&estimateFormat, "format", "f", "", "output format (yaml, json); defaults to the configured format")

	f.Float64Var(&reloadRatio, "data-reload-ratio", 0, "share of data reloaded on a return visit (0-1)")
	f.Float64Var(&firstVisitShare, "first-visit-percentage", 0, "share of first-time visits (0-1)")
	f.Float64Var(&returnVisitShare, "return-visit-percentage", 0, "share of returning visits (0-1)")
	f.Float64Var(&deviceIntensity, "grid-device", 0, "device grid intensity (gCO2e/kWh)")
	f.Float64Var(&dataCenterIntensity, "grid-data-center", 0, "data centre grid intensity (gCO2e/kWh)")
	f.Float64Var(&networkIntensity, "grid-network", 0, "network grid intensity (gCO2e/kWh)")

	_ = estimateCmd.MarkFlagRequired("bytes")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	formatter, err := resolveFormatter(estimateFormat, cfg)
	if err != nil {
		return err
	}

	plugin, ok := models.GetDefaultRegistry().New(co2js.Name)
	if !ok {
		return errors.NotFound("model plugin", co2js.Name)
	}

	ctx := contextOrBackground(cmd.Context())
	plugin, err = plugin.Configure(ctx, types.KeyValuePair{
		types.FieldType: firstNonEmpty(estimateModel, cfg.Model.DefaultType, string(types.ModelSWD)),
	})
	if err != nil {
		return err
	}

	record := types.ModelParams{
		types.FieldBytes:        estimateBytes,
		types.FieldGreenWebHost: estimateGreen,
	}
	if options := traceOptions(cmd); len(options) > 0 {
		record[types.FieldOptions] = options
	}

	outputs, err := plugin.Execute(ctx, []types.ModelParams{record})
	if err != nil {
		return err
	}

	return formatter.Render(cmd.OutOrStdout(), outputs[0])
}

// traceOptions collects the trace flags the user set
func traceOptions(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Flags()
	options := map[string]interface{}{}

	set := func(dst map[string]interface{}, flag, key string, value float64) {
		if flags.Changed(flag) {
			dst[key] = value
		}
	}
	set(options, "data-reload-ratio", "dataReloadRatio", reloadRatio)
	set(options, "first-visit-percentage", "firstVisitPercentage", firstVisitShare)
	set(options, "return-visit-percentage", "returnVisitPercentage", returnVisitShare)

	grid := map[string]interface{}{}
	set(grid, "grid-device", "device", deviceIntensity)
	set(grid, "grid-data-center", "dataCenter", dataCenterIntensity)
	set(grid, "grid-network", "network", networkIntensity)
	if len(grid) > 0 {
		options["gridIntensity"] = grid
	}

	return options
}
