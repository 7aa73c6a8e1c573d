package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/internal/parquet"
	"github.com/gamelens/foresight/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintForecastResults outputs revenue forecasts, dispatching based on the
// output format configured.
func PrintForecastResults(forecasts []schema.RevenueForecast, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printForecastJSON(forecasts, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printForecastCSV(forecasts, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteForecastsParquet(parquet.ConvertForecasts(forecasts), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastTable(forecasts, cfg, fmtFloat, duration, w)
		}, "Wrote forecast table")
	}
	return nil
}

// printForecastJSON handles opening the file and calling the JSON writer.
func printForecastJSON(forecasts []schema.RevenueForecast, cfg *contract.Config) error {
	type JSONForecast struct {
		ConfidenceLabel string `json:"confidence_label"`
		schema.RevenueForecast
	}

	output := make([]JSONForecast, len(forecasts))
	for i, f := range forecasts {
		output[i] = JSONForecast{
			ConfidenceLabel: contract.GetPlainConfidenceLabel(f.Confidence),
			RevenueForecast: f,
		}
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, output)
	}, "Wrote JSON forecasts")
}

// printForecastCSV handles opening the file and calling the CSV writer.
func printForecastCSV(forecasts []schema.RevenueForecast, cfg *contract.Config, fmtFloat func(float64) string) error {
	header := []string{
		"date",
		"period",
		"revenue",
		"low",
		"high",
		"confidence",
		"confidence_label",
		"trend",
		"seasonal_factor",
		"existing_users",
		"new_users",
		"reactivated",
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, f := range forecasts {
				low, high := f.Value, f.Value
				if f.Range != nil {
					low, high = f.Range.Low, f.Range.High
				}
				rec := []string{
					f.Date.Format(contract.DateFormat),
					string(f.Period),
					fmtFloat(f.Value),
					fmtFloat(low),
					fmtFloat(high),
					fmtFloat(f.Confidence),
					contract.GetPlainConfidenceLabel(f.Confidence),
					string(f.Trend),
					fmtFloat(f.SeasonalFactor),
					fmtFloat(f.Breakdown.ExistingUsers),
					fmtFloat(f.Breakdown.NewUsers),
					fmtFloat(f.Breakdown.Reactivated),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV forecasts")
}

// writeForecastTable generates and writes the human-readable forecast table.
func writeForecastTable(forecasts []schema.RevenueForecast, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Date", "Revenue", "Range", "Confidence", "Trend"}
	if cfg.IncludeBreakdown {
		headers = append(headers, "Existing", "New", "Reactivated")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	var total float64
	for _, f := range forecasts {
		total += f.Value
		low, high := f.Value, f.Value
		if f.Range != nil {
			low, high = f.Range.Low, f.Range.High
		}
		row := []string{
			f.Date.Format(contract.DateFormat),
			fmtFloat(f.Value),
			formatRange(fmtFloat, low, high, f.Range == nil),
			contract.GetColorConfidenceLabel(f.Confidence),
			contract.GetColorTrendLabel(f.Trend),
		}
		if cfg.IncludeBreakdown {
			row = append(row,
				fmtFloat(f.Breakdown.ExistingUsers),
				fmtFloat(f.Breakdown.NewUsers),
				fmtFloat(f.Breakdown.Reactivated),
			)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Projected revenue over %d days: %s\n", len(forecasts), fmtFloat(total)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Forecast completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// PrintWhatIfResult outputs a scenario analysis, dispatching based on the
// output format configured.
func PrintWhatIfResult(result schema.WhatIfResult, scenario schema.WhatIfScenario, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		type JSONWhatIf struct {
			Scenario schema.WhatIfScenario `json:"scenario_deltas"`
			schema.WhatIfResult
		}
		output := JSONWhatIf{Scenario: scenario, WhatIfResult: result}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, output)
		}, "Wrote JSON scenario analysis")

	case schema.CSVOut:
		header := []string{"kind", "revenue", "confidence", "difference", "percent_change"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				rows := [][]string{
					{"baseline", fmtFloat(result.Baseline.Value), fmtFloat(result.Baseline.Confidence), "", ""},
					{"scenario", fmtFloat(result.Scenario.Value), fmtFloat(result.Scenario.Confidence), fmtFloat(result.Difference), fmt.Sprintf("%.1f", result.PercentChange)},
				}
				for _, row := range rows {
					if err := csvWriter.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV scenario analysis")

	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWhatIfTable(result, scenario, cfg, fmtFloat, w)
		}, "Wrote scenario analysis")
	}
}

// writeWhatIfTable generates and writes the human-readable scenario comparison.
func writeWhatIfTable(result schema.WhatIfResult, scenario schema.WhatIfScenario, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Scenario: DAU %+.1f%%, ARPU %+.1f%%, Conversion %+.1f%%\n",
		scenario.DAUChange, scenario.ARPUChange, scenario.ConversionChange); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"", "Revenue", "Range", "Confidence"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	rows := []struct {
		label    string
		forecast schema.RevenueForecast
	}{
		{"Baseline", result.Baseline},
		{"Scenario", result.Scenario},
	}
	var data [][]string
	for _, r := range rows {
		low, high := r.forecast.Value, r.forecast.Value
		if r.forecast.Range != nil {
			low, high = r.forecast.Range.Low, r.forecast.Range.High
		}
		data = append(data, []string{
			r.label,
			fmtFloat(r.forecast.Value),
			formatRange(fmtFloat, low, high, r.forecast.Range == nil),
			contract.GetColorConfidenceLabel(r.forecast.Confidence),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Difference: %s (%+.1f%%)\n", fmtFloat(result.Difference), result.PercentChange); err != nil {
		return err
	}
	return nil
}
