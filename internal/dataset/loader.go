package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"mobility-insights-go/internal/aggregator"
	"mobility-insights-go/internal/logger"
	"mobility-insights-go/internal/types"
)

var (
	ErrNoDataRows     = errors.New("no data rows")
	ErrMissingColumn  = errors.New("missing required column")
	ErrNoSheets       = errors.New("no sheets")
	errUnparsableCell = errors.New("unparsable numeric cell")
)

// LoadStats reports how many rows were kept and why others were dropped.
type LoadStats struct {
	Rows           int `json:"rows"`
	Kept           int `json:"kept"`
	MissingKey     int `json:"missing_key"`
	InvalidNumeric int `json:"invalid_numeric"`
	ReservedRegion int `json:"reserved_region"`
}

type columns struct {
	date, country, regionID, regionName int
	mobility, stay                      int
	baselineName, baselineType          int
}

// Load reads a movement-range file. .xlsx files are read from their first
// sheet, anything else is treated as tab separated text with a header row.
func Load(path string) ([]types.MovementRecord, error) {
	records, _, err := LoadWithStats(path)
	return records, err
}

func LoadWithStats(path string) ([]types.MovementRecord, LoadStats, error) {
	log := logger.New().Component("dataset.loader").WithField("path", path)

	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = readSheet(path)
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, LoadStats{}, fmt.Errorf("open file: %w", err)
		}
		defer f.Close()
		rows, err = readDelimited(f, '\t')
	}
	if err != nil {
		log.WithError(err).Error("read failed")
		return nil, LoadStats{}, err
	}

	records, stats, err := parseRows(rows)
	if err != nil {
		log.WithError(err).Error("parse failed")
		return nil, stats, err
	}
	log.WithFields(map[string]interface{}{
		"rows":            stats.Rows,
		"kept":            stats.Kept,
		"missing_key":     stats.MissingKey,
		"invalid_numeric": stats.InvalidNumeric,
		"reserved_region": stats.ReservedRegion,
	}).Info("dataset loaded")
	return records, stats, nil
}

// Parse reads tab separated movement-range text from r.
func Parse(r io.Reader) ([]types.MovementRecord, LoadStats, error) {
	rows, err := readDelimited(r, '\t')
	if err != nil {
		return nil, LoadStats{}, err
	}
	return parseRows(rows)
}

func readSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

func readDelimited(r io.Reader, comma rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

func parseRows(rows [][]string) ([]types.MovementRecord, LoadStats, error) {
	if len(rows) <= 1 {
		return nil, LoadStats{}, ErrNoDataRows
	}
	cols, err := detectColumns(rows[0])
	if err != nil {
		return nil, LoadStats{}, err
	}

	stats := LoadStats{Rows: len(rows) - 1}
	out := make([]types.MovementRecord, 0, len(rows)-1)
	for _, r := range rows[1:] {
		rec := types.MovementRecord{
			Date:         cell(r, cols.date),
			Country:      cell(r, cols.country),
			RegionID:     cell(r, cols.regionID),
			RegionName:   cell(r, cols.regionName),
			BaselineName: cell(r, cols.baselineName),
			BaselineType: cell(r, cols.baselineType),
		}
		if rec.Date == "" || rec.Country == "" {
			stats.MissingKey++
			continue
		}
		if rec.RegionName == "" {
			rec.RegionName = rec.RegionID
		}
		if rec.RegionName == aggregator.WholeCountry {
			stats.ReservedRegion++
			continue
		}
		var mobErr, stayErr error
		rec.MobilityChange, mobErr = numeric(cell(r, cols.mobility))
		rec.StayHomeRatio, stayErr = numeric(cell(r, cols.stay))
		if mobErr != nil || stayErr != nil {
			stats.InvalidNumeric++
			continue
		}
		out = append(out, rec)
	}
	stats.Kept = len(out)
	return out, stats, nil
}

func detectColumns(header []string) (columns, error) {
	cols := columns{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case l == "ds" || l == "date":
			if cols.date == -1 {
				cols.date = i
			}
		case l == "country" || strings.HasSuffix(l, "country_code"):
			if cols.country == -1 {
				cols.country = i
			}
		case strings.HasSuffix(l, "_id") && (strings.Contains(l, "polygon") || strings.Contains(l, "region")):
			if cols.regionID == -1 {
				cols.regionID = i
			}
		case strings.HasSuffix(l, "_name") && (strings.Contains(l, "polygon") || strings.Contains(l, "region")):
			if cols.regionName == -1 {
				cols.regionName = i
			}
		case strings.Contains(l, "relative_change") || strings.Contains(l, "mobility"):
			if cols.mobility == -1 {
				cols.mobility = i
			}
		case strings.Contains(l, "single_tile") || strings.Contains(l, "stay"):
			if cols.stay == -1 {
				cols.stay = i
			}
		case l == "baseline_name":
			cols.baselineName = i
		case l == "baseline_type":
			cols.baselineType = i
		}
	}

	required := []struct {
		name string
		idx  int
	}{
		{"date", cols.date},
		{"country", cols.country},
		{"mobility change", cols.mobility},
		{"stay-home ratio", cols.stay},
	}
	for _, c := range required {
		if c.idx == -1 {
			return cols, fmt.Errorf("%w: %s", ErrMissingColumn, c.name)
		}
	}
	if cols.regionID == -1 && cols.regionName == -1 {
		return cols, fmt.Errorf("%w: region", ErrMissingColumn)
	}
	return cols, nil
}

func cell(r []string, idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[idx])
}

func numeric(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errUnparsableCell, s)
	}
	return v, nil
}
