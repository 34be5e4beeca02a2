// Package parallel provides the staged batch renderer's worker infrastructure.
//
// Every stage image is flattened in row-major order and cut into batches of
// BatchSize pixels. Worker id of N owns global batches id, id+N, id+2N, ...,
// so that batch k of a worker covers
//
//	[(k*N + id) * BatchSize, (k*N + id + 1) * BatchSize)
//
// clipped to the stage pixel count. Workers therefore interleave at batch
// granularity and no pixel is ever claimed twice; the only coordination a
// worker needs is its own batch counter.
//
// Thread safety: Worker methods are safe for concurrent use. Each worker is
// guarded by its own mutex; workers never share state.
package parallel

// Pipeline defaults.
const (
	// DefaultBatchSize is the number of pixels claimed at once.
	DefaultBatchSize = 100

	// DefaultStages is the number of resolution levels. Stage s renders at
	// 1/2^(DefaultStages-1-s) of the final linear resolution.
	DefaultStages = 4

	// BytesPerPixel is the size of an RGBA8 pixel.
	BytesPerPixel = 4
)

// BatchStart returns the first flattened pixel index of batch k of worker
// id in a pool of workers.
func BatchStart(k, id, workers, batch int) int {
	return (k*workers + id) * batch
}

// BatchRange returns the pixel range [start, end) of batch k of worker id
// within a stage of total pixels. ok is false when the batch starts at or
// past the end of the stage.
func BatchRange(k, id, workers, batch, total int) (start, end int, ok bool) {
	start = BatchStart(k, id, workers, batch)
	if start >= total {
		return start, start, false
	}
	return start, min(start+batch, total), true
}

// globalBatches returns the number of batches a stage of total pixels is cut into.
func globalBatches(total, batch int) int {
	return (total + batch - 1) / batch
}

// ownedBelow counts the global batches g < limit with g ≡ id (mod workers).
func ownedBelow(limit, id, workers int) int {
	if limit <= id {
		return 0
	}
	return (limit-id-1)/workers + 1
}

// OwnedBatches returns the number of batches worker id claims in a stage of
// total pixels.
func OwnedBatches(total, workers, id, batch int) int {
	return ownedBelow(globalBatches(total, batch), id, workers)
}

// OwnedPixels returns the number of pixels covered by the first upTo batches
// of worker id in a stage of total pixels. A negative upTo counts all of
// the worker's batches.
func OwnedPixels(total, workers, id, batch, upTo int) int {
	g := globalBatches(total, batch)
	limit := g
	if upTo >= 0 {
		limit = min(g, upTo*workers)
	}

	pixels := ownedBelow(limit, id, workers) * batch

	// Only the globally last batch can be partial.
	last := g - 1
	if rem := total % batch; rem != 0 && last%workers == id && last < limit {
		pixels -= batch - rem
	}
	return pixels
}
