package candidate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// csvColumns is the header layout of a LinkedIn connections export.
var csvColumns = []string{"First Name", "Last Name", "URL", "Email Address", "Company", "Position", "Connected On"}

// LoadResult describes the outcome of a CSV load.
type LoadResult struct {
	Candidates *Candidates
	Skipped    int
}

// LoadCSV reads candidates from a connections CSV file. Rows with an empty
// first name or profile URL are skipped with a warning and counted; malformed
// rows never abort the load.
func LoadCSV(path string, logger *zap.Logger) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening candidates file: %w", err)
	}
	defer file.Close()

	result, err := parseCSV(file, logger)
	if err != nil {
		return nil, fmt.Errorf("reading candidates file %q: %w", path, err)
	}
	return result, nil
}

func parseCSV(r io.Reader, logger *zap.Logger) (*LoadResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports often carry ragged note rows

	header, err := reader.Read()
	if err == io.EOF {
		return &LoadResult{Candidates: &Candidates{}}, nil
	}
	if err != nil {
		return nil, err
	}

	index := columnIndex(header)

	result := &LoadResult{Candidates: &Candidates{}}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("skipping malformed row", zap.Int("line", line), zap.Error(err))
			result.Skipped++
			continue
		}

		c := recordToCandidate(record, index)
		if c.FirstName == "" && c.ProfileURL == "" {
			result.Skipped++
			continue
		}
		if c.ProfileURL == "" {
			logger.Warn("skipping row without profile URL",
				zap.Int("line", line),
				zap.String("name", c.FullName),
			)
			result.Skipped++
			continue
		}
		if c.FirstName == "" {
			logger.Warn("skipping row without first name",
				zap.Int("line", line),
				zap.String("url", c.ProfileURL),
			)
			result.Skipped++
			continue
		}

		result.Candidates.Items = append(result.Candidates.Items, c)
	}

	logger.Info("loaded candidates",
		zap.Int("count", result.Candidates.Len()),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// columnIndex maps known column names to their positions. Unknown headers
// fall back to the canonical export order.
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(csvColumns))
	matched := false
	for i, name := range header {
		name = strings.TrimSpace(name)
		for _, known := range csvColumns {
			if strings.EqualFold(name, known) {
				index[known] = i
				matched = true
			}
		}
	}
	if !matched {
		for i, known := range csvColumns {
			index[known] = i
		}
	}
	return index
}

func recordToCandidate(record []string, index map[string]int) *Candidate {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	first := field("First Name")
	last := field("Last Name")

	return &Candidate{
		FirstName:   first,
		LastName:    last,
		FullName:    strings.TrimSpace(first + " " + last),
		ProfileURL:  field("URL"),
		Email:       field("Email Address"),
		Company:     field("Company"),
		Position:    field("Position"),
		ConnectedOn: field("Connected On"),
	}
}
