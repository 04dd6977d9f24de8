package dto

type QueryRequest struct {
	Question string `json:"question" validate:"required,min=3,max=2000"`
}

type QueryResponse struct {
	Answer  string      `json:"answer"`
	Sources []SourceDTO `json:"sources"`
}

type SourceDTO struct {
	DocumentId string  `json:"document_id"`
	Similarity float64 `json:"similarity"`
}
