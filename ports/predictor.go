package ports

import (
	"context"
	"io"

	"digitpad/domain/prediction"
)

// Predictor sends a drawing to the model server and returns its scores.
type Predictor interface {
	// Predict uploads a PNG image and returns the per-class scores.
	Predict(ctx context.Context, image io.Reader) (prediction.Result, error)
}

// ModelInfo is what the model server reports about itself.
type ModelInfo struct {
	Healthy bool   `json:"healthy"`
	Tag     string `json:"tag"`
}

// ModelInspector exposes the model server's health and current model.
type ModelInspector interface {
	Health(ctx context.Context) error
	CurrentModel(ctx context.Context) (string, error)
}
