package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintModelMetrics outputs train/evaluate metrics keyed by model name,
// dispatching based on the output format configured.
func PrintModelMetrics(metrics map[string]schema.ModelMetrics, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Sort model names for deterministic output.
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, metrics)
		}, "Wrote JSON metrics")

	case schema.CSVOut:
		header := []string{"model", "mse", "mae", "data_points", "last_trained_at"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, name := range names {
					m := metrics[name]
					trainedAt := ""
					if !m.LastTrainedAt.IsZero() {
						trainedAt = m.LastTrainedAt.Format(contract.DateFormat)
					}
					rec := []string{
						name,
						fmtFloat(m.MSE),
						fmtFloat(m.MAE),
						strconv.Itoa(m.DataPointsUsed),
						trainedAt,
					}
					if err := csvWriter.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV metrics")

	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsTable(names, metrics, fmtFloat, w)
		}, "Wrote metrics table")
	}
}

// writeMetricsTable generates and writes the human-readable metrics table.
func writeMetricsTable(names []string, metrics map[string]schema.ModelMetrics, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Model", "MSE", "MAE", "Data Points", "Last Trained"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, name := range names {
		m := metrics[name]
		trainedAt := "never"
		if !m.LastTrainedAt.IsZero() {
			trainedAt = m.LastTrainedAt.Format(contract.DateFormat)
		}
		data = append(data, []string{
			name,
			fmtFloat(m.MSE),
			fmtFloat(m.MAE),
			strconv.Itoa(m.DataPointsUsed),
			trainedAt,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintFeatureImportance outputs feature weights keyed by model name,
// dispatching based on the output format configured.
func PrintFeatureImportance(weights map[string]map[string]float64, cfg *contract.Config) error {
	// Sort model names for deterministic output.
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, weights)
		}, "Wrote JSON feature importance")

	case schema.CSVOut:
		header := []string{"model", "feature", "weight"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, name := range names {
					for _, feature := range sortedByWeight(weights[name]) {
						rec := []string{name, feature, fmt.Sprintf("%.2f", weights[name][feature])}
						if err := csvWriter.Write(rec); err != nil {
							return err
						}
					}
				}
				return nil
			})
		}, "Wrote CSV feature importance")

	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeImportanceTable(names, weights, w)
		}, "Wrote feature importance")
	}
}

// writeImportanceTable generates and writes the human-readable importance table.
func writeImportanceTable(names []string, weights map[string]map[string]float64, writer io.Writer) error {
	for _, name := range names {
		if _, err := fmt.Fprintf(writer, "%s:\n", name); err != nil {
			return err
		}

		table := tablewriter.NewWriter(writer)
		table.Header([]string{"Feature", "Weight"})
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, feature := range sortedByWeight(weights[name]) {
			data = append(data, []string{feature, fmt.Sprintf("%.2f", weights[name][feature])})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

// sortedByWeight returns feature names ordered by descending weight, ties
// broken alphabetically.
func sortedByWeight(weights map[string]float64) []string {
	features := make([]string, 0, len(weights))
	for feature := range weights {
		features = append(features, feature)
	}
	sort.Slice(features, func(i, j int) bool {
		if weights[features[i]] != weights[features[j]] {
			return weights[features[i]] > weights[features[j]]
		}
		return features[i] < features[j]
	})
	return features
}
