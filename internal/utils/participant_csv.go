package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParticipantRow is one parsed line of a participant import
type ParticipantRow struct {
	Line       int
	Identifier string
	Name       string
	Email      string
	Tier       string
}

// ParseParticipantsCSV reads rows with the columns identifier, name, email
// and tier. Only identifier is required; a missing name defaults to the
// identifier. Malformed rows are reported in rowErrors and skipped.
func ParseParticipantsCSV(r io.Reader) (rows []ParticipantRow, rowErrors []string, err error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	// Read the header row
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty CSV file")
		}
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Map column indices
	identifierIdx := findColumnIndex(header, []string{"identifier", "id", "username"})
	nameIdx := findColumnIndex(header, []string{"name", "full name", "display name"})
	emailIdx := findColumnIndex(header, []string{"email", "email address", "e-mail"})
	tierIdx := findColumnIndex(header, []string{"tier", "group", "expertise", "expertise level"})

	if identifierIdx == -1 && emailIdx == -1 && nameIdx == -1 {
		return nil, nil, errors.New("identifier column not found in CSV")
	}

	seen := map[string]int{}
	line := 1
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		line++
		if readErr != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %v", line, readErr))
			continue
		}

		row := ParticipantRow{
			Line:       line,
			Identifier: column(record, identifierIdx),
			Name:       column(record, nameIdx),
			Email:      strings.ToLower(column(record, emailIdx)),
			Tier:       column(record, tierIdx),
		}
		// Fall back to email, then name, when there is no identifier column
		if row.Identifier == "" {
			row.Identifier = row.Email
		}
		if row.Identifier == "" {
			row.Identifier = row.Name
		}
		if row.Identifier == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: no identifier found", line))
			continue
		}
		if row.Name == "" {
			row.Name = row.Identifier
		}
		if row.Email != "" && NormalizeEmail(row.Email) == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: invalid email %q", line, row.Email))
			continue
		}
		if first, dup := seen[row.Identifier]; dup {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: duplicate identifier %q (first seen on row %d)", line, row.Identifier, first))
			continue
		}
		seen[row.Identifier] = line
		rows = append(rows, row)
	}

	return rows, rowErrors, nil
}

func column(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// findColumnIndex finds the index of a column by possible names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}
