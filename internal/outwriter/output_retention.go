package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/internal/parquet"
	"github.com/gamelens/foresight/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRetentionPrediction outputs a retention prediction, dispatching based on
// the output format configured.
func PrintRetentionPrediction(pred schema.RetentionPrediction, targetDay int, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, fmtPct := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printRetentionJSON(pred, targetDay, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printRetentionCSV(pred, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRetentionCurveParquet(parquet.ConvertCurvePoints(pred.RetentionCurve), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRetentionTable(pred, targetDay, cfg, fmtFloat, fmtPct, w)
		}, "Wrote retention prediction")
	}
	return nil
}

// printRetentionJSON handles opening the file and calling the JSON writer.
func printRetentionJSON(pred schema.RetentionPrediction, targetDay int, cfg *contract.Config) error {
	type JSONRetentionPrediction struct {
		TargetDay       int    `json:"target_day"`
		ConfidenceLabel string `json:"confidence_label"`
		schema.RetentionPrediction
	}

	output := JSONRetentionPrediction{
		TargetDay:           targetDay,
		ConfidenceLabel:     contract.GetPlainConfidenceLabel(pred.Confidence),
		RetentionPrediction: pred,
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, output)
	}, "Wrote JSON retention prediction")
}

// printRetentionCSV writes the predicted curve as one row per day.
func printRetentionCSV(pred schema.RetentionPrediction, cfg *contract.Config, fmtFloat func(float64) string) error {
	header := []string{"day", "retention", "confidence", "confidence_label"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, p := range pred.RetentionCurve {
				rec := []string{
					strconv.Itoa(p.Day),
					fmtFloat(p.Value),
					fmtFloat(pred.Confidence),
					contract.GetPlainConfidenceLabel(pred.Confidence),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV retention curve")
}

// writeRetentionTable generates and writes the human-readable prediction summary.
func writeRetentionTable(pred schema.RetentionPrediction, targetDay int, cfg *contract.Config, fmtFloat func(float64) string, fmtPct func(float64) string, writer io.Writer) error {
	// 1. Headline summary
	if _, err := fmt.Fprintf(writer, "Day %d retention: %s (confidence: %s %s)\n",
		targetDay, fmtPct(pred.Value), fmtFloat(pred.Confidence),
		contract.GetColorConfidenceLabel(pred.Confidence)); err != nil {
		return err
	}
	if pred.Range != nil {
		if _, err := fmt.Fprintf(writer, "Range: %s - %s\n", fmtPct(pred.Range.Low), fmtPct(pred.Range.High)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Benchmark: %s industry benchmark\n", pred.BenchmarkComparison); err != nil {
		return err
	}
	if pred.CohortSize > 0 {
		if _, err := fmt.Fprintf(writer, "Cohort size: %d\n", pred.CohortSize); err != nil {
			return err
		}
	}

	// 2. Curve table
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Day", "Retention"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range pred.RetentionCurve {
		data = append(data, []string{strconv.Itoa(p.Day), fmtPct(p.Value)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// 3. Factors
	return writeFactorsTable(pred.Factors, cfg, writer)
}

// writeFactorsTable renders the explainability factors behind a prediction.
func writeFactorsTable(factors []schema.Factor, cfg *contract.Config, writer io.Writer) error {
	if len(factors) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(writer, "Factors:"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Factor", "Weight", "Description"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxDesc := GetMaxTableDescWidth(cfg)
	var data [][]string
	for _, f := range factors {
		data = append(data, []string{
			f.Name,
			fmt.Sprintf("%.2f", f.Weight),
			contract.TruncateLabel(f.Description, maxDesc),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintLTVEstimate outputs a cohort LTV estimate, dispatching based on the
// output format configured.
func PrintLTVEstimate(estimate schema.LTVEstimate, horizonDays int, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		type JSONLTVEstimate struct {
			HorizonDays     int    `json:"horizon_days"`
			ConfidenceLabel string `json:"confidence_label"`
			schema.LTVEstimate
		}
		output := JSONLTVEstimate{
			HorizonDays:     horizonDays,
			ConfidenceLabel: contract.GetPlainConfidenceLabel(estimate.Confidence),
			LTVEstimate:     estimate,
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, output)
		}, "Wrote JSON LTV estimate")

	case schema.CSVOut:
		header := []string{"horizon_days", "ltv", "confidence", "confidence_label"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				return csvWriter.Write([]string{
					strconv.Itoa(horizonDays),
					fmtFloat(estimate.LTV),
					fmtFloat(estimate.Confidence),
					contract.GetPlainConfidenceLabel(estimate.Confidence),
				})
			})
		}, "Wrote CSV LTV estimate")

	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Cohort LTV over %d days: %s per user (confidence: %s %s)\n",
				horizonDays, fmtFloat(estimate.LTV), fmtFloat(estimate.Confidence),
				contract.GetColorConfidenceLabel(estimate.Confidence))
			return err
		}, "Wrote LTV estimate")
	}
}
