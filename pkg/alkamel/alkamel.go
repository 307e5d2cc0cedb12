// Package alkamel reads session result files exported from Alkamel Systems
// timing websites.
package alkamel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Entry is one car's line in a results export.
type Entry struct {
	CarNumber string
	Team      string
	Class     string
	Status    string
	Vehicle   string
	// Drivers holds the non-empty driver names of the car, in crew order.
	Drivers []string
}

// TeamCodename returns the "#<number> <team>" codename used by the entity
// directory.
func (e Entry) TeamCodename() string {
	return fmt.Sprintf("#%s %s", e.CarNumber, e.Team)
}

// Reader parses a results export into entries.
type Reader interface {
	ReadResults(r io.Reader) ([]Entry, error)
}

// NewReader creates a Reader for the semicolon-delimited CSV exports.
func NewReader() Reader {
	return &csvReader{}
}

type csvReader struct{}

// Required header columns of every export.
var requiredColumns = []string{"NUMBER", "TEAM", "CLASS", "STATUS", "VEHICLE"}

// maxDrivers is the largest crew size that appears in exports.
const maxDrivers = 4

// ReadResults parses the export. Exports carry driver names either as
// single DRIVER_{n} columns or as DRIVER{n}_FIRSTNAME/DRIVER{n}_SECONDNAME
// pairs; both layouts are accepted. A missing required header fails the
// whole file.
func (c *csvReader) ReadResults(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("results file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		// Exports are UTF-8 with a BOM on the first column
		columns[strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")] = i
	}

	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("results file is missing required column %s", required)
		}
	}

	driverColumns, err := detectDriverColumns(columns)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading results row: %w", err)
		}

		entry := Entry{
			CarNumber: field(record, columns["NUMBER"]),
			Team:      field(record, columns["TEAM"]),
			Class:     field(record, columns["CLASS"]),
			Status:    field(record, columns["STATUS"]),
			Vehicle:   field(record, columns["VEHICLE"]),
		}

		for n := 1; n <= maxDrivers; n++ {
			var parts []string
			for _, pattern := range driverColumns {
				idx, ok := columns[fmt.Sprintf(pattern, n)]
				if !ok {
					continue
				}
				if v := field(record, idx); v != "" {
					parts = append(parts, v)
				}
			}
			if name := strings.TrimSpace(strings.Join(parts, " ")); name != "" {
				entry.Drivers = append(entry.Drivers, name)
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// detectDriverColumns picks the driver-column layout present in the header.
func detectDriverColumns(columns map[string]int) ([]string, error) {
	if _, ok := columns["DRIVER_1"]; ok {
		return []string{"DRIVER_%d"}, nil
	}
	_, first := columns["DRIVER1_FIRSTNAME"]
	_, second := columns["DRIVER1_SECONDNAME"]
	if first && second {
		return []string{"DRIVER%d_FIRSTNAME", "DRIVER%d_SECONDNAME"}, nil
	}
	return nil, fmt.Errorf("results file has no driver name columns")
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
