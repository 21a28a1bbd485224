package sync

// Partition splits items into ordered chunks of at most size elements.
// Every chunk has exactly size elements except possibly the last.
// Returns nil for empty input or a non-positive size. Items are never
// reordered, so the same input always yields the same chunks.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches
}
