package models

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Provider string `json:"provider" example:"gemini"`
}
