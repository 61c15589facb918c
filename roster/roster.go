/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roster loads and resolves the knockout entry list: from a local
// CSV file as exported by the timing crew, or scraped from the published
// entry and standings pages.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mikeb26/solarchallenge-drawbot/knockout"
)

// csvHeader matches the column layout of the timing crew's export,
// misspelling included.
var csvHeader = []string{
	"Car ID",
	"School ID",
	"Car name",
	"Scruitineered",
	"Present for round robin",
	"Present for knockout",
	"Points",
}

// LoadCars reads a car list from a CSV file.
func LoadCars(path string) ([]knockout.Car, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open car list: %w", err)
	}
	defer f.Close()

	cars, err := ReadCars(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read car list %v: %w", path, err)
	}
	return cars, nil
}

// ReadCars parses a car list in the timing crew's CSV format. The header row
// is required; column order must match the export.
func ReadCars(r io.Reader) ([]knockout.Car, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read car list header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("car list has %d columns, want %d",
			len(header), len(csvHeader))
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), csvHeader[i]) {
			return nil, fmt.Errorf("car list column %d is %q, want %q", i+1,
				h, csvHeader[i])
		}
	}

	var cars []knockout.Car
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read car list line %d: %w",
				line, err)
		}
		car, err := parseCarRecord(record)
		if err != nil {
			return nil, fmt.Errorf("car list line %d: %w", line, err)
		}
		cars = append(cars, car)
	}

	return cars, nil
}

func parseCarRecord(record []string) (knockout.Car, error) {
	var car knockout.Car
	var err error

	if car.ID, err = strconv.Atoi(strings.TrimSpace(record[0])); err != nil {
		return car, fmt.Errorf("bad car id %q", record[0])
	}
	if car.SchoolID, err = strconv.Atoi(strings.TrimSpace(record[1])); err != nil {
		return car, fmt.Errorf("bad school id %q", record[1])
	}
	car.Name = strings.TrimSpace(record[2])

	if car.Scrutineered, err = parseFlag(record[3]); err != nil {
		return car, err
	}
	if car.PresentRoundRobin, err = parseFlag(record[4]); err != nil {
		return car, err
	}
	if car.PresentKnockout, err = parseFlag(record[5]); err != nil {
		return car, err
	}

	points := strings.TrimSpace(record[6])
	if points != "" {
		if car.Points, err = strconv.Atoi(points); err != nil {
			return car, fmt.Errorf("bad points %q", record[6])
		}
	}

	return car, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return true, nil
	case "no", "n", "":
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("bad flag %q", s)
	}
	return v, nil
}

// WriteCars writes a car list in the same CSV format ReadCars accepts.
func WriteCars(w io.Writer, cars []knockout.Car) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("unable to write car list header: %w", err)
	}
	for _, car := range cars {
		record := []string{
			strconv.Itoa(car.ID),
			strconv.Itoa(car.SchoolID),
			car.Name,
			strconv.FormatBool(car.Scrutineered),
			strconv.FormatBool(car.PresentRoundRobin),
			strconv.FormatBool(car.PresentKnockout),
			strconv.Itoa(car.Points),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("unable to write car %d: %w", car.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// KnockoutEntrants filters the car list down to scrutineered cars marked
// present for the knockout.
func KnockoutEntrants(cars []knockout.Car) []knockout.Car {
	var entrants []knockout.Car
	for _, car := range cars {
		if car.Scrutineered && car.PresentKnockout {
			entrants = append(entrants, car)
		}
	}
	return entrants
}
