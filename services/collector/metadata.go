package collector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SupplierOutcome is the per-supplier entry of the batch metadata file.
// purely observational, the extractor never reads it.
type SupplierOutcome struct {
	SupplierID    string `json:"supplier_id"`
	Status        string `json:"status"`
	Filename      string `json:"filename,omitempty"`
	PageTitle     string `json:"page_title,omitempty"`
	ContentLength int    `json:"content_length,omitempty"`
	KeyElements   int    `json:"key_elements_found,omitempty"`
	Error         string `json:"error,omitempty"`
	Timestamp     string `json:"timestamp"`
}

type BatchMetadata struct {
	TotalSuppliers int               `json:"total_suppliers"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	SuccessRate    string            `json:"success_rate"`
	ProcessingDate string            `json:"processing_date"`
	Results        []SupplierOutcome `json:"results"`
}

func newBatchMetadata(results []SupplierOutcome) BatchMetadata {
	meta := BatchMetadata{
		TotalSuppliers: len(results),
		SuccessRate:    "0%",
		ProcessingDate: time.Now().Format(time.RFC3339),
		Results:        results,
	}
	for _, r := range results {
		if r.Status == "success" {
			meta.Successful++
		} else {
			meta.Failed++
		}
	}
	if meta.TotalSuppliers > 0 {
		meta.SuccessRate = fmt.Sprintf(
			"%.1f%%",
			float64(meta.Successful)/float64(meta.TotalSuppliers)*100,
		)
	}
	return meta
}

// Save writes the batch metadata next to the collected pages, one file per
// run, timestamped so reruns never clobber each other.
func (m BatchMetadata) Save(dataDir string) (string, error) {
	name := fmt.Sprintf("batch_metadata_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(dataDir, name)

	contents, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	err = os.WriteFile(path, contents, 0644)
	if err != nil {
		return "", fmt.Errorf("write batch metadata: %w", err)
	}
	return path, nil
}
