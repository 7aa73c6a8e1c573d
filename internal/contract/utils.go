package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/gamelens/foresight/schema"
)

// Confidence label constants.
const (
	HighValue     = "High"     // High confidence
	ModerateValue = "Moderate" // Moderate confidence
	LowValue      = "Low"      // Low confidence
)

// Confidence label thresholds.
const (
	highConfidenceMin     = 0.75
	moderateConfidenceMin = 0.50
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgGreen)  // highColor signals a trustworthy estimate.
	ModerateColor = color.New(color.FgYellow) // moderateColor signals standard caution.
	LowColor      = color.New(color.FgRed)    // lowColor signals a rough extrapolation.

	GrowingColor   = color.New(color.FgGreen, color.Bold)
	DecliningColor = color.New(color.FgRed, color.Bold)
	StableColor    = color.New(color.FgCyan)
)

// GetPlainConfidenceLabel returns a plain text label for a confidence value.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= highConfidenceMin:
		return HighValue
	case confidence >= moderateConfidenceMin:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorConfidenceLabel returns a colored confidence label for console
// output. It uses GetPlainConfidenceLabel to determine the string, then
// applies the appropriate color.
func GetColorConfidenceLabel(confidence float64) string {
	text := GetPlainConfidenceLabel(confidence)

	switch text {
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// GetColorTrendLabel returns a colored trend direction for console output.
func GetColorTrendLabel(trend schema.TrendDirection) string {
	switch trend {
	case schema.GrowingTrend:
		return GrowingColor.Sprint(string(trend))
	case schema.DecliningTrend:
		return DecliningColor.Sprint(string(trend))
	default:
		return StableColor.Sprint(string(trend))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetModelDBFilePath returns the path to the SQLite DB file for model storage.
func GetModelDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".foresight_models.db"
	}
	return filepath.Join(homeDir, ".foresight_models.db")
}

// TruncateLabel truncates a label to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and content.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
