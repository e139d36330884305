package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type UploadResponse struct {
	OriginalName string `json:"original_name,omitempty"`
	StoredName   string `json:"stored_name,omitempty"`
}

// ProcessingDocumentStatus is pushed over the progress websocket while
// a collection is being analyzed.
type ProcessingDocumentStatus struct {
	Document           string  `json:"document"`
	Stage              string  `json:"stage"`
	Message            string  `json:"message,omitempty"`
	Progress           float64 `json:"progress"`
	ProcessedDocuments int     `json:"processed_documents"`
	TotalDocuments     int     `json:"total_documents"`
}
