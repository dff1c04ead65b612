package api

import (
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/dataset"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/pipeline"
)

// PreprocessRequest selects columns and a scaling method.
type PreprocessRequest struct {
	Columns []string `json:"columns" binding:"required"`
	Method  string   `json:"method" binding:"required"`
}

// SplitRequest configures the train/test partition. TestSize defaults to
// 0.2 and RandomState to 42 when omitted.
type SplitRequest struct {
	TargetColumn string   `json:"target_column" binding:"required"`
	TestSize     *float64 `json:"test_size"`
	RandomState  *int64   `json:"random_state"`
}

// TrainRequest selects the classifier family.
type TrainRequest struct {
	ModelType string `json:"model_type" binding:"required"`
}

// ErrorResponse is the error body: a single detail message.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is the bare success envelope.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UploadResponse carries dataset info and a preview after an upload.
type UploadResponse struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	DatasetInfo pipeline.DatasetInfo `json:"dataset_info"`
	Preview     dataset.Preview      `json:"preview"`
}

// DatasetResponse carries the current dataset info, preview and applied
// transformations.
type DatasetResponse struct {
	Success                bool                 `json:"success"`
	DatasetInfo            pipeline.DatasetInfo `json:"dataset_info"`
	Preview                dataset.Preview      `json:"preview"`
	TransformationsApplied []string             `json:"transformations_applied"`
}

// PreprocessResponse carries the post-transform preview and record.
type PreprocessResponse struct {
	Success                bool            `json:"success"`
	Message                string          `json:"message"`
	Preview                dataset.Preview `json:"preview"`
	TransformationsApplied []string        `json:"transformations_applied,omitempty"`
}

// SplitResponse carries the partition summary.
type SplitResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	SplitInfo pipeline.SplitInfo `json:"split_info"`
}

// TrainResponse carries the fitted model summary.
type TrainResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	ModelInfo pipeline.ModelInfo `json:"model_info"`
}

// ResultsResponse carries evaluation metrics and rendered visualizations.
type ResultsResponse struct {
	Success        bool                    `json:"success"`
	Message        string                  `json:"message"`
	Results        pipeline.Metrics        `json:"results"`
	Visualizations pipeline.Visualizations `json:"visualizations"`
	Degraded       bool                    `json:"degraded,omitempty"`
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
