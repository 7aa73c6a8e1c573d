package dataload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCohortsCSV(t *testing.T) {
	content := `cohort_date,size,day,retention
2025-01-01,1000,1,0.40
2025-01-01,1000,7,0.20
2025-01-01,1000,30,0.10
2025-01-02,1200,1,0.42
2025-01-02,1200,7,0.21
`
	path := writeTempFile(t, "cohorts.csv", content)

	records, err := LoadCohorts(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), records[0].CohortDate)
	assert.Equal(t, 1000, records[0].Size)
	assert.Equal(t, 0.40, records[0].RetentionByDay[1])
	assert.Equal(t, 0.20, records[0].RetentionByDay[7])
	assert.Equal(t, 0.10, records[0].RetentionByDay[30])

	assert.Equal(t, 1200, records[1].Size)
	assert.Len(t, records[1].RetentionByDay, 2)
}

func TestLoadCohortsCSVSortsByDate(t *testing.T) {
	content := `cohort_date,size,day,retention
2025-01-05,500,1,0.35
2025-01-01,1000,1,0.40
`
	path := writeTempFile(t, "cohorts.csv", content)

	records, err := LoadCohorts(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].CohortDate.Before(records[1].CohortDate))
}

func TestLoadCohortsJSON(t *testing.T) {
	content := `[
  {
    "cohort_date": "2025-01-01T00:00:00Z",
    "size": 1000,
    "retention_by_day": {"1": 0.4, "7": 0.2}
  }
]`
	path := writeTempFile(t, "cohorts.json", content)

	records, err := LoadCohorts(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1000, records[0].Size)
	assert.Equal(t, 0.4, records[0].RetentionByDay[1])
}

func TestLoadCohortsErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errPart string
	}{
		{
			name:    "bad header",
			file:    "cohorts.csv",
			content: "date,size,day,retention\n2025-01-01,1000,1,0.4\n",
			errPart: "expected column 0",
		},
		{
			name:    "negative day",
			file:    "cohorts.csv",
			content: "cohort_date,size,day,retention\n2025-01-01,1000,-1,0.4\n",
			errPart: "day must be non-negative",
		},
		{
			name:    "retention out of range",
			file:    "cohorts.csv",
			content: "cohort_date,size,day,retention\n2025-01-01,1000,1,1.5\n",
			errPart: "retention must be in [0,1]",
		},
		{
			name:    "bad date",
			file:    "cohorts.csv",
			content: "cohort_date,size,day,retention\nnot-a-date,1000,1,0.4\n",
			errPart: "invalid cohort_date",
		},
		{
			name:    "unsupported extension",
			file:    "cohorts.txt",
			content: "whatever",
			errPart: "unsupported cohort file format",
		},
		{
			name:    "malformed json",
			file:    "cohorts.json",
			content: "{not json",
			errPart: "failed to decode cohort JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.file, tt.content)
			_, err := LoadCohorts(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadCohortsMissingFile(t *testing.T) {
	_, err := LoadCohorts(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open cohort file")
}

func TestLoadRevenueCSV(t *testing.T) {
	content := `date,revenue,dau,new_users,payers
2025-02-01,1500.50,10000,800,300
2025-02-02,1620.00,10200,820,310
`
	path := writeTempFile(t, "revenue.csv", content)

	rows, err := LoadRevenue(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, 1500.50, rows[0].Revenue)
	assert.Equal(t, 10000, rows[0].DAU)
	assert.Equal(t, 800, rows[0].NewUsers)
	assert.Equal(t, 300, rows[0].Payers)
}

func TestLoadRevenueCSVSortsByDate(t *testing.T) {
	content := `date,revenue,dau,new_users,payers
2025-02-03,1700,10300,830,315
2025-02-01,1500,10000,800,300
`
	path := writeTempFile(t, "revenue.csv", content)

	rows, err := LoadRevenue(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Date.Before(rows[1].Date))
}

func TestLoadRevenueJSON(t *testing.T) {
	content := `[
  {"date": "2025-02-01T00:00:00Z", "revenue": 1500.5, "dau": 10000, "new_users": 800, "payers": 300}
]`
	path := writeTempFile(t, "revenue.json", content)

	rows, err := LoadRevenue(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1500.5, rows[0].Revenue)
}

func TestLoadRevenueErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errPart string
	}{
		{
			name:    "bad header",
			file:    "revenue.csv",
			content: "day,revenue,dau,new_users,payers\n2025-02-01,1500,10000,800,300\n",
			errPart: "expected column 0",
		},
		{
			name:    "bad revenue",
			file:    "revenue.csv",
			content: "date,revenue,dau,new_users,payers\n2025-02-01,abc,10000,800,300\n",
			errPart: "invalid revenue",
		},
		{
			name:    "bad dau",
			file:    "revenue.csv",
			content: "date,revenue,dau,new_users,payers\n2025-02-01,1500,x,800,300\n",
			errPart: "invalid dau",
		},
		{
			name:    "unsupported extension",
			file:    "revenue.parquet",
			content: "whatever",
			errPart: "unsupported revenue file format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.file, tt.content)
			_, err := LoadRevenue(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestValidateHeader(t *testing.T) {
	assert.NoError(t, validateHeader([]string{"Date", " revenue ", "DAU", "new_users", "payers"}, revenueHeader))
	assert.Error(t, validateHeader([]string{"date"}, revenueHeader))
	assert.Error(t, validateHeader([]string{"date", "revenue", "dau", "new_users", "spenders"}, revenueHeader))
}
