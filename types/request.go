package types

type AnalyzeRequest struct {
	Persona   string   `json:"persona"`
	Job       string   `json:"job_to_be_done"`
	Documents []string `json:"documents"`
}

type OutlineRequest struct {
	Document string `json:"document"`
}

type SearchSectionsRequest struct {
	Query string `json:"query"`
	RunID string `json:"run_id,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type ListRunsRequest struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UploadRequest struct {
	Title  string   `json:"title"`
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}
