package types

// AnalysisRun is the persisted record of one persona-driven analysis.
type AnalysisRun struct {
	ID          string            `bson:"_id" json:"id"`
	Persona     string            `bson:"persona" json:"persona"`
	Job         string            `bson:"job" json:"job"`
	Documents   []string          `bson:"documents" json:"documents"`
	Status      string            `bson:"status" json:"status"`
	Output      *CollectionOutput `bson:"output,omitempty" json:"output,omitempty"`
	CreatedAt   int64             `bson:"created_at" json:"created_at"`
	CompletedAt int64             `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
