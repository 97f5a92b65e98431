package handlers

import (
	effectmodel "github.com/on-the-ground/listiter/effects/internal/model"

	"github.com/cespare/xxhash/v2"
)

// partitionOf maps a partition key onto one of numChs workers.
// The modulo is taken on the unsigned hash so the index is never negative.
func partitionOf(key string, numChs int) int {
	switch {
	case numChs <= 0:
		panic("number of channels must be positive")
	case numChs == 1:
		return 0
	default:
		return int(xxhash.Sum64String(key) % uint64(numChs))
	}
}

func getIndexByHash(payload effectmodel.Partitionable, numChs int) int {
	return partitionOf(payload.PartitionKey(), numChs)
}
