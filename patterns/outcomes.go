package patterns

import "strings"

const droppedPrefix = "dropped"

// PredictOutcomes aggregates cluster outcomes into a dropout risk, its
// complementary intervention success probability, and the deduplicated
// union of interventions that worked for matched students. Empty input
// yields a zeroed prediction.
func PredictOutcomes(clusters []PatternCluster) OutcomePrediction {
	if len(clusters) == 0 {
		return OutcomePrediction{RecommendedInterventions: []string{}}
	}

	var dropout, totalWeight float64
	recommended := []string{}
	seen := make(map[string]bool)

	for _, cluster := range clusters {
		weight := float64(len(cluster.Members)) * cluster.AvgSimilarity
		totalWeight += weight

		dropped := 0
		for _, member := range cluster.Members {
			if strings.HasPrefix(member.Outcome.CompletionStatus, droppedPrefix) {
				dropped++
			}
			for _, intervention := range member.Outcome.SuccessfulInterventions {
				if seen[intervention] {
					continue
				}
				seen[intervention] = true
				recommended = append(recommended, intervention)
			}
		}
		if len(cluster.Members) > 0 {
			dropout += float64(dropped) / float64(len(cluster.Members)) * weight
		}
	}

	if totalWeight > 0 {
		dropout /= totalWeight
	}

	return OutcomePrediction{
		DropoutRisk:              dropout,
		InterventionSuccess:      1 - dropout,
		RecommendedInterventions: recommended,
	}
}
