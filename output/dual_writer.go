// Package output dual_writer.go mirrors records into JSON and CSV at once.
package output

import (
	"fmt"
	"sync"

	"github.com/aluiziolira/go-scrape-scholar/models"
)

// DualWriter outputs to both JSON and CSV formats simultaneously.
type DualWriter struct {
	jsonWriter *JSONWriter
	csvWriter  *CSVWriter
	mu         sync.Mutex
}

// NewDualWriter creates a writer pair for both output formats.
func NewDualWriter(jsonFilename, csvFilename string) (*DualWriter, error) {
	jsonWriter, err := NewJSONWriter(jsonFilename)
	if err != nil {
		return nil, fmt.Errorf("create JSON writer: %w", err)
	}

	csvWriter, err := NewCSVWriter(csvFilename)
	if err != nil {
		return nil, fmt.Errorf("create CSV writer: %w", err)
	}

	return &DualWriter{
		jsonWriter: jsonWriter,
		csvWriter:  csvWriter,
	}, nil
}

// Write sends records to both writers.
func (dw *DualWriter) Write(records []*models.PublicationRecord) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if err := dw.jsonWriter.Write(records); err != nil {
		return fmt.Errorf("dual write json: %w", err)
	}
	if err := dw.csvWriter.Write(records); err != nil {
		return fmt.Errorf("dual write csv: %w", err)
	}
	return nil
}

// Close closes both underlying writers, reporting the first failure.
func (dw *DualWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	jsonErr := dw.jsonWriter.Close()
	csvErr := dw.csvWriter.Close()
	if jsonErr != nil {
		return jsonErr
	}
	return csvErr
}

// Validate checks both outputs.
func (dw *DualWriter) Validate() error {
	if err := dw.jsonWriter.Validate(); err != nil {
		return err
	}
	return dw.csvWriter.Validate()
}
