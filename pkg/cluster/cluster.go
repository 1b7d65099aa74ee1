// Package cluster summarizes samples per cluster label.
//
// Labels come from an external mixture fit. A label outside
// [0, numClusters) belongs to no cluster and is ignored.
package cluster

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshgauss/pkg/sampling"
)

// ErrLengthMismatch is returned when colors and labels differ in length.
var ErrLengthMismatch = errors.New("colors and labels differ in length")

// EmptyClusterColor marks a cluster without samples: gray with zero alpha.
var EmptyClusterColor = sampling.Color{0.5, 0.5, 0.5, 0.0}

// ClusterCounts returns the number of samples assigned to each cluster.
func ClusterCounts(numClusters int, labels []int) []int {
	counts := make([]int, numClusters)
	for _, l := range labels {
		if l >= 0 && l < numClusters {
			counts[l]++
		}
	}
	return counts
}

// ClusterColors groups sample colors by cluster, preserving sample order.
func ClusterColors(colors []sampling.Color, numClusters int, labels []int) ([][]sampling.Color, error) {
	if len(colors) != len(labels) {
		return nil, fmt.Errorf("%d colors, %d labels: %w", len(colors), len(labels), ErrLengthMismatch)
	}
	groups := make([][]sampling.Color, numClusters)
	for i, l := range labels {
		if l >= 0 && l < numClusters {
			groups[l] = append(groups[l], colors[i])
		}
	}
	return groups, nil
}

// MeanColors returns the mean color and sample count of every cluster.
// A cluster without samples gets EmptyClusterColor and a count of 0.
func MeanColors(colors []sampling.Color, numClusters int, labels []int) ([]sampling.Color, []int, error) {
	if len(colors) != len(labels) {
		return nil, nil, fmt.Errorf("%d colors, %d labels: %w", len(colors), len(labels), ErrLengthMismatch)
	}

	sums := make([]sampling.Color, numClusters)
	counts := make([]int, numClusters)
	for i, l := range labels {
		if l < 0 || l >= numClusters {
			continue
		}
		for c := range sums[l] {
			sums[l][c] += colors[i][c]
		}
		counts[l]++
	}

	means := make([]sampling.Color, numClusters)
	for k := range means {
		if counts[k] == 0 {
			means[k] = EmptyClusterColor
			continue
		}
		n := float64(counts[k])
		for c := range means[k] {
			means[k][c] = sums[k][c] / n
		}
	}
	return means, counts, nil
}

// Empty returns the ids of clusters without samples.
func Empty(counts []int) []int {
	var ids []int
	for k, n := range counts {
		if n == 0 {
			ids = append(ids, k)
		}
	}
	return ids
}
