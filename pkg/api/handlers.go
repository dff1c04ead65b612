package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/dataset"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/model"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/pipeline"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/preprocess"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/split"
)

const (
	defaultTestSize    = 0.2
	defaultRandomState = 42
)

// Handler wires the HTTP surface to the pipeline.
type Handler struct {
	Pipeline *pipeline.Pipeline
}

// clientErrs are the request-scoped taxonomy errors mapped to 400; anything
// else is a 500.
var clientErrs = []error{
	dataset.ErrParse,
	dataset.ErrUnsupportedFormat,
	dataset.ErrInvalidColumn,
	preprocess.ErrInvalidMethod,
	split.ErrInvalidRatio,
	model.ErrUnknownFamily,
	model.ErrEmptySplit,
	model.ErrInvalidTarget,
	pipeline.ErrStage,
	pipeline.ErrModelMismatch,
}

func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	for _, sentinel := range clientErrs {
		if errors.Is(err, sentinel) {
			status = http.StatusBadRequest
			break
		}
	}
	c.JSON(status, ErrorResponse{Detail: err.Error()})
}

// Health godoc
// @Summary      Health check
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       / [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "ML Pipeline Builder API is running",
	})
}

// Upload godoc
// @Summary      Upload a CSV or Excel dataset
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Dataset file (.csv, .xlsx, .xls)"
// @Success      200 {object} UploadResponse
// @Failure      400 {object} ErrorResponse
// @Router       /upload [post]
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "missing file field: " + err.Error()})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		fail(c, err)
		return
	}

	res, err := h.Pipeline.Upload(content, fileHeader.Filename)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{
		Success:     true,
		Message:     res.Message,
		DatasetInfo: res.Info,
		Preview:     res.Preview,
	})
}

// Dataset godoc
// @Summary      Current dataset info and preview
// @Produce      json
// @Success      200 {object} DatasetResponse
// @Failure      400 {object} ErrorResponse
// @Router       /dataset [get]
func (h *Handler) Dataset(c *gin.Context) {
	res, err := h.Pipeline.Dataset()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DatasetResponse{
		Success:                true,
		DatasetInfo:            res.Info,
		Preview:                res.Preview,
		TransformationsApplied: res.Transformations,
	})
}

// Preprocess godoc
// @Summary      Apply scaling to selected columns
// @Accept       json
// @Produce      json
// @Param        request body PreprocessRequest true "Columns and method (standardize|normalize)"
// @Success      200 {object} PreprocessResponse
// @Failure      400 {object} ErrorResponse
// @Router       /preprocess [post]
func (h *Handler) Preprocess(c *gin.Context) {
	var req PreprocessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}
	res, err := h.Pipeline.Preprocess(req.Columns, req.Method)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PreprocessResponse{
		Success:                true,
		Message:                res.Message,
		Preview:                res.Preview,
		TransformationsApplied: res.Transformations,
	})
}

// ResetPreprocessing godoc
// @Summary      Undo all preprocessing
// @Produce      json
// @Success      200 {object} PreprocessResponse
// @Failure      400 {object} ErrorResponse
// @Router       /reset-preprocessing [post]
func (h *Handler) ResetPreprocessing(c *gin.Context) {
	res, err := h.Pipeline.ResetPreprocessing()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PreprocessResponse{
		Success: true,
		Message: res.Message,
		Preview: res.Preview,
	})
}

// Split godoc
// @Summary      Split the dataset into train and test partitions
// @Accept       json
// @Produce      json
// @Param        request body SplitRequest true "Target column, test size, random state"
// @Success      200 {object} SplitResponse
// @Failure      400 {object} ErrorResponse
// @Router       /split [post]
func (h *Handler) Split(c *gin.Context) {
	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}
	testSize := defaultTestSize
	if req.TestSize != nil {
		testSize = *req.TestSize
	}
	seed := int64(defaultRandomState)
	if req.RandomState != nil {
		seed = *req.RandomState
	}

	info, err := h.Pipeline.Split(req.TargetColumn, testSize, seed)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SplitResponse{
		Success:   true,
		Message:   info.Message,
		SplitInfo: *info,
	})
}

// Train godoc
// @Summary      Train a classifier on the current split
// @Accept       json
// @Produce      json
// @Param        request body TrainRequest true "Model type (logistic_regression|decision_tree)"
// @Success      200 {object} TrainResponse
// @Failure      400 {object} ErrorResponse
// @Router       /train [post]
func (h *Handler) Train(c *gin.Context) {
	var req TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}
	info, err := h.Pipeline.Train(req.ModelType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, TrainResponse{
		Success:   true,
		Message:   info.Message,
		ModelInfo: *info,
	})
}

// Results godoc
// @Summary      Evaluate the trained model on the test partition
// @Produce      json
// @Success      200 {object} ResultsResponse
// @Failure      400 {object} ErrorResponse
// @Router       /results [get]
func (h *Handler) Results(c *gin.Context) {
	res, err := h.Pipeline.Results()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ResultsResponse{
		Success:        true,
		Message:        res.Message,
		Results:        res.Metrics,
		Visualizations: res.Visualizations,
		Degraded:       res.Degraded,
	})
}

// Status godoc
// @Summary      Pipeline stage status
// @Produce      json
// @Success      200 {object} pipeline.Status
// @Router       /pipeline-status [get]
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.Pipeline.Status())
}

// Reset godoc
// @Summary      Reset the whole pipeline
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /reset [post]
func (h *Handler) Reset(c *gin.Context) {
	h.Pipeline.Reset()
	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "Pipeline reset successfully",
	})
}
