package reply

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ProcessFile imports replies from a CSV file with required columns
// from, to, message, received_at. Every row is committed or rejected
// independently; a malformed row is counted and the batch continues.
func (s *Service) ProcessFile(ctx context.Context, path string, apply bool) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open replies file: %w", err)
	}
	defer f.Close()

	return s.ProcessReader(ctx, f, apply)
}

// ProcessReader imports replies from CSV data.
func (s *Service) ProcessReader(ctx context.Context, r io.Reader, apply bool) (Result, error) {
	var res Result

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return res, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors++
			s.logger.Warn("malformed CSV row", "row", rowNum, "error", err.Error())
			continue
		}

		row := Row{
			From:       field(record, cols, "from"),
			To:         field(record, cols, "to"),
			Message:    field(record, cols, "message"),
			ReceivedAt: field(record, cols, "received_at"),
		}

		changed, err := s.Process(ctx, row, apply)
		if err != nil {
			res.Errors++
			s.logger.Warn("reply rejected", "row", rowNum, "error", err.Error())
			continue
		}
		res.Processed++
		if changed {
			res.StatusChanges++
		}
	}

	s.logger.Info("reply import complete",
		"processed", res.Processed,
		"status_changes", res.StatusChanges,
		"errors", res.Errors)
	return res, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
