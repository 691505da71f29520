package domain

import "fmt"

// BatchRange labels a fetch batch as "<start>-<start+chunkSize>". The end is
// computed from the nominal chunk size, so the last label may run past the
// number of keys.
type BatchRange string

func NewBatchRange(offset, chunkSize int) BatchRange {
	return BatchRange(fmt.Sprintf("%d-%d", offset, offset+chunkSize))
}

// Batch is one consecutive slice [Offset, Offset+Size) of the key list.
type Batch struct {
	Offset int
	Size   int
	Range  BatchRange
}

// Partition splits total items into consecutive batches of chunkSize. The last
// batch holds the remainder. chunkSize must be positive.
func Partition(total, chunkSize int) []Batch {
	if total <= 0 || chunkSize <= 0 {
		return nil
	}
	batches := make([]Batch, 0, (total+chunkSize-1)/chunkSize)
	for offset := 0; offset < total; offset += chunkSize {
		batches = append(batches, Batch{
			Offset: offset,
			Size:   min(chunkSize, total-offset),
			Range:  NewBatchRange(offset, chunkSize),
		})
	}
	return batches
}
