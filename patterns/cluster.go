package patterns

// Cluster groups matches by signature, greedily and in input order:
// each unclustered match opens a cluster and absorbs every later
// unclustered match whose signature is close to the opener's. Every
// match lands in exactly one cluster.
func Cluster(matches []Match) []PatternCluster {
	sigs := make([]string, len(matches))
	for i, m := range matches {
		sigs[i] = Signature(m.Profile)
	}

	clustered := make([]bool, len(matches))
	var clusters []PatternCluster

	for i := range matches {
		if clustered[i] {
			continue
		}
		clustered[i] = true

		cluster := PatternCluster{
			ID:        len(clusters) + 1,
			Signature: sigs[i],
			Members:   []Match{matches[i]},
		}
		total := matches[i].Similarity

		for j := i + 1; j < len(matches); j++ {
			if clustered[j] || !signatureClose(sigs[i], sigs[j]) {
				continue
			}
			clustered[j] = true
			cluster.Members = append(cluster.Members, matches[j])
			total += matches[j].Similarity
		}

		cluster.AvgSimilarity = total / float64(len(cluster.Members))
		clusters = append(clusters, cluster)
	}
	return clusters
}
