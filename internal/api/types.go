package api

import "github.com/bz888/medirag/internal/model"

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string      `json:"question"`
	Model    model.Model `json:"model"`
}

// QueryResponse is returned by the backend on success.
type QueryResponse struct {
	Answer    string `json:"answer"`
	ModelUsed string `json:"model_used"`
}

// ErrorResponse is the optional body of a non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
