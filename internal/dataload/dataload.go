// Package dataload reads cohort and revenue datasets from CSV or JSON files.
package dataload

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
)

// Cohort CSV files are long-form: one row per (cohort, day) observation.
var cohortHeader = []string{"cohort_date", "size", "day", "retention"}

// Revenue CSV files carry one row per calendar day.
var revenueHeader = []string{"date", "revenue", "dau", "new_users", "payers"}

// LoadCohorts reads cohort retention records from a CSV or JSON file,
// dispatching on the file extension.
func LoadCohorts(path string) ([]schema.CohortRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cohort file: %w", err)
	}
	defer func() { _ = file.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readCohortsJSON(file)
	case ".csv":
		return readCohortsCSV(file)
	default:
		return nil, fmt.Errorf("unsupported cohort file format: %s", filepath.Ext(path))
	}
}

// LoadRevenue reads daily revenue rows from a CSV or JSON file,
// dispatching on the file extension.
func LoadRevenue(path string) ([]schema.RevenueDataPoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open revenue file: %w", err)
	}
	defer func() { _ = file.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readRevenueJSON(file)
	case ".csv":
		return readRevenueCSV(file)
	default:
		return nil, fmt.Errorf("unsupported revenue file format: %s", filepath.Ext(path))
	}
}

func readCohortsJSON(r io.Reader) ([]schema.CohortRecord, error) {
	var records []schema.CohortRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode cohort JSON: %w", err)
	}
	return records, nil
}

func readCohortsCSV(r io.Reader) ([]schema.CohortRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read cohort CSV header: %w", err)
	}
	if err := validateHeader(header, cohortHeader); err != nil {
		return nil, err
	}

	// Group long-form rows by cohort date, preserving first-seen order.
	byDate := make(map[string]*schema.CohortRecord)
	var order []string
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read cohort CSV: %w", err)
		}
		line++

		cohortDate, err := time.Parse(contract.DateFormat, row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid cohort_date %q: %w", line, row[0], err)
		}
		size, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid size %q: %w", line, row[1], err)
		}
		day, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid day %q: %w", line, row[2], err)
		}
		if day < 0 {
			return nil, fmt.Errorf("line %d: day must be non-negative, got %d", line, day)
		}
		retention, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid retention %q: %w", line, row[3], err)
		}
		if retention < 0 || retention > 1 {
			return nil, fmt.Errorf("line %d: retention must be in [0,1], got %v", line, retention)
		}

		key := row[0]
		rec, ok := byDate[key]
		if !ok {
			rec = &schema.CohortRecord{
				CohortDate:     cohortDate,
				Size:           size,
				RetentionByDay: make(schema.ObservedRetention),
			}
			byDate[key] = rec
			order = append(order, key)
		}
		rec.RetentionByDay[day] = retention
	}

	records := make([]schema.CohortRecord, 0, len(order))
	for _, key := range order {
		records = append(records, *byDate[key])
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CohortDate.Before(records[j].CohortDate)
	})
	return records, nil
}

func readRevenueJSON(r io.Reader) ([]schema.RevenueDataPoint, error) {
	var rows []schema.RevenueDataPoint
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode revenue JSON: %w", err)
	}
	return rows, nil
}

func readRevenueCSV(r io.Reader) ([]schema.RevenueDataPoint, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read revenue CSV header: %w", err)
	}
	if err := validateHeader(header, revenueHeader); err != nil {
		return nil, err
	}

	var rows []schema.RevenueDataPoint
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read revenue CSV: %w", err)
		}
		line++

		date, err := time.Parse(contract.DateFormat, row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q: %w", line, row[0], err)
		}
		revenue, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid revenue %q: %w", line, row[1], err)
		}
		dau, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid dau %q: %w", line, row[2], err)
		}
		newUsers, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid new_users %q: %w", line, row[3], err)
		}
		payers, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid payers %q: %w", line, row[4], err)
		}

		rows = append(rows, schema.RevenueDataPoint{
			Date:     date,
			Revenue:  revenue,
			DAU:      dau,
			NewUsers: newUsers,
			Payers:   payers,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

// validateHeader checks that the CSV header matches the expected columns.
func validateHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected %d columns %v, got %d", len(want), want, len(got))
	}
	for i, col := range want {
		if strings.TrimSpace(strings.ToLower(got[i])) != col {
			return fmt.Errorf("expected column %d to be %q, got %q", i, col, got[i])
		}
	}
	return nil
}
