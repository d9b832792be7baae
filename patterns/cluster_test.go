package patterns

import (
	"testing"

	"feedback-pulse/emotion"
)

func TestClusterGrouping(t *testing.T) {
	near := baseProfile()
	near.ConfidenceLevel = 0.9
	near.FrustrationType = emotion.FrustrationContent
	near.EmotionalTrajectory = emotion.TrajectoryDeclining

	far := near
	far.EmotionalVolatility = 0.5

	matches := []Match{
		{StudentID: "s1", Profile: baseProfile(), Similarity: 0.9},
		{StudentID: "s2", Profile: near, Similarity: 0.8},
		{StudentID: "s3", Profile: far, Similarity: 0.6},
		{StudentID: "s4", Profile: baseProfile(), Similarity: 0.7},
	}

	clusters := Cluster(matches)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}

	first := clusters[0]
	if first.ID != 1 {
		t.Errorf("expected cluster id 1, got %d", first.ID)
	}
	if first.Signature != Signature(baseProfile()) {
		t.Errorf("expected opener signature as representative, got %s", first.Signature)
	}
	wantMembers := []string{"s1", "s2", "s4"}
	if len(first.Members) != len(wantMembers) {
		t.Fatalf("expected members %v, got %+v", wantMembers, first.Members)
	}
	for i, want := range wantMembers {
		if first.Members[i].StudentID != want {
			t.Errorf("expected member %s at index %d, got %s", want, i, first.Members[i].StudentID)
		}
	}
	if !closeTo(first.AvgSimilarity, (0.9+0.8+0.7)/3) {
		t.Errorf("expected average similarity 0.8, got %v", first.AvgSimilarity)
	}

	second := clusters[1]
	if second.ID != 2 || len(second.Members) != 1 || second.Members[0].StudentID != "s3" {
		t.Errorf("expected singleton cluster for s3, got %+v", second)
	}
	if !closeTo(second.AvgSimilarity, 0.6) {
		t.Errorf("expected average similarity 0.6, got %v", second.AvgSimilarity)
	}
}

func TestClusterPartition(t *testing.T) {
	profiles := []emotion.Profile{baseProfile(), {}, baseProfile()}
	hot := baseProfile()
	hot.FrustrationLevel = 0.95
	hot.EngagementLevel = 0.1
	hot.UrgencyLevel = emotion.UrgencyCritical
	profiles = append(profiles, hot, baseProfile())

	matches := make([]Match, len(profiles))
	ids := make(map[string]bool)
	for i, p := range profiles {
		id := string(rune('a' + i))
		matches[i] = Match{StudentID: id, Profile: p, Similarity: 0.5}
		ids[id] = true
	}

	clusters := Cluster(matches)

	seen := make(map[string]int)
	total := 0
	for _, cluster := range clusters {
		total += len(cluster.Members)
		for _, member := range cluster.Members {
			seen[member.StudentID]++
		}
	}

	if total != len(matches) {
		t.Fatalf("expected %d clustered matches, got %d", len(matches), total)
	}
	for id := range ids {
		if seen[id] != 1 {
			t.Errorf("expected student %s in exactly one cluster, got %d", id, seen[id])
		}
	}
}

func TestClusterEmpty(t *testing.T) {
	if got := Cluster(nil); len(got) != 0 {
		t.Errorf("expected no clusters, got %+v", got)
	}
}

func TestPredictOutcomesWeighted(t *testing.T) {
	clusters := []PatternCluster{
		{
			ID:            1,
			AvgSimilarity: 0.9,
			Members: []Match{
				outcomeMatch("a", "dropped_week_5", []string{"extra_office_hours", "peer_mentor"}),
				outcomeMatch("b", "completed", []string{"peer_mentor"}),
			},
		},
		{
			ID:            2,
			AvgSimilarity: 0.5,
			Members: []Match{
				outcomeMatch("c", "completed", []string{"deadline_extension"}),
			},
		},
	}

	got := PredictOutcomes(clusters)

	// cluster 1 weighs 2*0.9 with half its members dropped, cluster 2
	// weighs 0.5 with none.
	wantDropout := 0.9 / 2.3
	if !closeTo(got.DropoutRisk, wantDropout) {
		t.Errorf("expected dropout risk %v, got %v", wantDropout, got.DropoutRisk)
	}
	if !closeTo(got.InterventionSuccess, 1-wantDropout) {
		t.Errorf("expected success probability %v, got %v", 1-wantDropout, got.InterventionSuccess)
	}

	wantInterventions := []string{"extra_office_hours", "peer_mentor", "deadline_extension"}
	if len(got.RecommendedInterventions) != len(wantInterventions) {
		t.Fatalf("expected interventions %v, got %v", wantInterventions, got.RecommendedInterventions)
	}
	for i, want := range wantInterventions {
		if got.RecommendedInterventions[i] != want {
			t.Errorf("expected intervention %s at index %d, got %s", want, i, got.RecommendedInterventions[i])
		}
	}
}

func TestPredictOutcomesDroppedPrefix(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   float64
	}{
		{name: "plain dropped", status: "dropped", want: 1},
		{name: "dropped with week suffix", status: "dropped_week_3", want: 1},
		{name: "completed", status: "completed", want: 0},
		{name: "empty status", status: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clusters := []PatternCluster{{
				ID:            1,
				AvgSimilarity: 1,
				Members:       []Match{outcomeMatch("a", tt.status, nil)},
			}}

			got := PredictOutcomes(clusters).DropoutRisk
			if !closeTo(got, tt.want) {
				t.Errorf("expected dropout risk %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPredictOutcomesEmpty(t *testing.T) {
	got := PredictOutcomes(nil)

	if got.DropoutRisk != 0 || got.InterventionSuccess != 0 {
		t.Errorf("expected zeroed prediction, got %+v", got)
	}
	if got.RecommendedInterventions == nil || len(got.RecommendedInterventions) != 0 {
		t.Errorf("expected empty intervention list, got %v", got.RecommendedInterventions)
	}
}

func outcomeMatch(id, status string, interventions []string) Match {
	return Match{
		StudentID:  id,
		Similarity: 1,
		Outcome: Outcome{
			CompletionStatus:        status,
			SuccessfulInterventions: interventions,
		},
	}
}
