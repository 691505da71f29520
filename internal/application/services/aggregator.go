package services

import "github.com/dappnode/validator-status/internal/application/domain"

// Aggregate counts records per status, counts active_ongoing records per batch
// range, and adds a zero entry for every batch range of totalKeys that had no
// active_ongoing record.
func Aggregate(records []domain.ValidatorRecord, chunkSize, totalKeys int) domain.StatusHistogram {
	histogram := make(domain.StatusHistogram)

	for _, record := range records {
		histogram[string(record.Status)]++
		if record.Status == domain.StatusActiveOngoing {
			histogram[string(record.Batch)]++
		}
	}

	for _, batch := range domain.Partition(totalKeys, chunkSize) {
		if _, ok := histogram[string(batch.Range)]; !ok {
			histogram[string(batch.Range)] = 0
		}
	}

	return histogram
}
