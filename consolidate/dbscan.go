package consolidate

// DBSCAN over tracked objects with the hybrid rectangle metric. Point counts
// are tens per frame, so neighborhoods use a plain O(n²) scan; a spatial
// index only pays for itself in the hundreds.

// pointState is the explicit per-point DBSCAN label. Tagged states replace
// the usual sentinel integers (0 / -1 / cluster id), which are easy to
// confuse when cluster ids start at zero.
type pointState int

const (
	stateUnvisited pointState = iota
	stateNoise
	stateAssigned
)

// pointLabel tracks the clustering state of one object. cluster is only
// meaningful in stateAssigned.
type pointLabel struct {
	state   pointState
	cluster int
}

// clusterObjects groups objects into density-based clusters, returned as
// slices of indices into the input. Objects without a dense-enough
// neighborhood stay noise and appear in no cluster; noise never forms a
// singleton region downstream.
//
// Processing follows input order, so identical inputs produce identical
// clusters.
func clusterObjects(objects []TrackedObject, cfg Config) [][]int {
	n := len(objects)
	if n == 0 {
		return nil
	}

	labels := make([]pointLabel, n)
	var clusters [][]int

	for i := 0; i < n; i++ {
		if labels[i].state != stateUnvisited {
			continue
		}

		neighbors := regionQuery(objects, i, cfg)
		if len(neighbors) < cfg.MinPts {
			labels[i] = pointLabel{state: stateNoise}
			continue
		}

		clusterID := len(clusters)
		clusters = append(clusters, expandCluster(objects, labels, i, neighbors, clusterID, cfg))
	}

	return clusters
}

// expandCluster grows one cluster from a core point via breadth-first
// absorption: the frontier starts with the seed's neighborhood, and every
// frontier point that is itself a core point contributes its neighborhood.
func expandCluster(objects []TrackedObject, labels []pointLabel,
	seed int, seedNeighbors []int, clusterID int, cfg Config) []int {

	labels[seed] = pointLabel{state: stateAssigned, cluster: clusterID}
	members := []int{seed}

	frontier := make([]int, len(seedNeighbors))
	copy(frontier, seedNeighbors)

	for len(frontier) > 0 {
		idx := frontier[0]
		frontier = frontier[1:]

		switch labels[idx].state {
		case stateNoise:
			// Noise reachable from a core point becomes a border point.
			labels[idx] = pointLabel{state: stateAssigned, cluster: clusterID}
			members = append(members, idx)
		case stateUnvisited:
			labels[idx] = pointLabel{state: stateAssigned, cluster: clusterID}
			members = append(members, idx)

			neighbors := regionQuery(objects, idx, cfg)
			if len(neighbors) >= cfg.MinPts {
				frontier = append(frontier, neighbors...)
			}
		}
	}

	return members
}

// regionQuery returns the indices of all objects within Eps of objects[i],
// including i itself.
func regionQuery(objects []TrackedObject, i int, cfg Config) []int {
	var neighbors []int
	for j := range objects {
		if Distance(objects[i].Bounds, objects[j].Bounds, cfg) <= cfg.Eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}
