package patterns

import "feedback-pulse/emotion"

// Match is one caller-supplied historical profile with the similarity
// score assigned by the retrieval layer and the outcome metadata
// recorded for that student.
type Match struct {
	StudentID  string          `json:"student_id"`
	Profile    emotion.Profile `json:"emotion_profile"`
	Similarity float64         `json:"similarity_score"`
	Outcome    Outcome         `json:"outcome"`
}

// Outcome is what became of a matched student after the observed week.
// CompletionStatus values starting with "dropped" count as dropouts.
type Outcome struct {
	CompletionStatus        string   `json:"completion_status"`
	SuccessfulInterventions []string `json:"successful_interventions"`
}

// PatternCluster groups matches whose signatures agree on most fields.
// Signature is the first member's signature and acts as the cluster
// representative.
type PatternCluster struct {
	ID            int     `json:"cluster_id"`
	Signature     string  `json:"signature_prototype"`
	Members       []Match `json:"patterns"`
	AvgSimilarity float64 `json:"avg_similarity"`
}

// OutcomePrediction aggregates historical outcomes across clusters.
type OutcomePrediction struct {
	DropoutRisk              float64  `json:"dropout_risk"`
	InterventionSuccess      float64  `json:"intervention_success_probability"`
	RecommendedInterventions []string `json:"recommended_interventions"`
}
