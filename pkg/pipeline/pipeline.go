// Package pipeline owns the single mutable pipeline state and the state
// machine gating its operations: upload -> preprocess (optional) -> split ->
// train -> results. Mutating operations serialize behind one lock; readers
// take it shared. A failed operation never changes prior state.
package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/dataset"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/model"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/preprocess"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/split"
)

var (
	// ErrStage marks an operation attempted before its prerequisite stage
	// completed. Match with errors.Is; the message carries the detail.
	ErrStage = errors.New("prerequisite pipeline stage not completed")
	// ErrModelMismatch marks an evaluation of a model against a split it was
	// not fit on.
	ErrModelMismatch = errors.New("model does not match current split")
)

// prereqError keeps the user-facing message while matching ErrStage.
type prereqError struct{ msg string }

func (e prereqError) Error() string        { return e.msg }
func (e prereqError) Is(target error) bool { return target == ErrStage }

func stageErr(msg string) error { return prereqError{msg: msg} }

// Pipeline is the process-wide pipeline state. The zero value is an empty
// pipeline ready for an upload.
type Pipeline struct {
	mu sync.RWMutex

	original        *dataset.Dataset
	working         *dataset.Dataset
	transformations []string

	split     *split.Split
	model     *model.TrainedModel
	evaluated bool
}

// New returns an empty pipeline.
func New() *Pipeline { return &Pipeline{} }

// DatasetInfo summarizes the table dimensions and column typing.
type DatasetInfo struct {
	Filename    string            `json:"filename,omitempty"`
	Rows        int               `json:"rows"`
	Columns     int               `json:"columns"`
	ColumnNames []string          `json:"column_names"`
	DTypes      map[string]string `json:"dtypes"`
}

// UploadResult is the payload of a successful upload.
type UploadResult struct {
	Message string
	Info    DatasetInfo
	Preview dataset.Preview
}

// Upload parses the file, replaces the dataset wholesale and clears every
// downstream stage.
func (p *Pipeline) Upload(content []byte, filename string) (*UploadResult, error) {
	ds, err := dataset.Load(content, filename)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.original = ds
	p.working = ds.Clone()
	p.transformations = nil
	p.split = nil
	p.model = nil
	p.evaluated = false

	msg := fmt.Sprintf("Successfully uploaded %s", filename)
	if n := ds.MissingCount(); n > 0 {
		msg += fmt.Sprintf(" (%d missing values detected)", n)
	}
	return &UploadResult{
		Message: msg,
		Info:    p.datasetInfoLocked(filename),
		Preview: p.working.Preview(0),
	}, nil
}

func (p *Pipeline) datasetInfoLocked(filename string) DatasetInfo {
	return DatasetInfo{
		Filename:    filename,
		Rows:        p.working.Rows(),
		Columns:     len(p.working.Columns),
		ColumnNames: p.working.ColumnNames(),
		DTypes:      p.working.DTypes(),
	}
}

// DatasetResult is the payload of a dataset query.
type DatasetResult struct {
	Info            DatasetInfo
	Preview         dataset.Preview
	Transformations []string
}

// Dataset returns the current working dataset info and preview without side
// effects.
func (p *Pipeline) Dataset() (*DatasetResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.working == nil {
		return nil, stageErr("No dataset uploaded. Please upload a dataset first.")
	}
	return &DatasetResult{
		Info:            p.datasetInfoLocked(""),
		Preview:         p.working.Preview(0),
		Transformations: p.transformationsLocked(),
	}, nil
}

func (p *Pipeline) transformationsLocked() []string {
	// Never nil, so the JSON field is [] rather than null.
	out := make([]string, len(p.transformations))
	copy(out, p.transformations)
	return out
}

// PreprocessResult is the payload of preprocess and reset-preprocessing.
type PreprocessResult struct {
	Message         string
	Preview         dataset.Preview
	Transformations []string
}

// Preprocess applies a scaling transform to the working dataset and appends
// it to the transformation record. Any derived split, model or evaluation is
// invalidated: downstream state always reflects the current working data.
func (p *Pipeline) Preprocess(columns []string, method string) (*PreprocessResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.working == nil {
		return nil, stageErr("No dataset uploaded. Please upload a dataset first.")
	}

	desc, err := preprocess.Apply(p.working, columns, preprocess.Method(method))
	if err != nil {
		return nil, err
	}
	p.transformations = append(p.transformations, desc)
	p.invalidateFromSplitLocked()

	return &PreprocessResult{
		Message:         desc,
		Preview:         p.working.Preview(0),
		Transformations: p.transformationsLocked(),
	}, nil
}

// ResetPreprocessing restores the working dataset to a deep copy of the
// original and clears the transformation record, invalidating downstream
// stages.
func (p *Pipeline) ResetPreprocessing() (*PreprocessResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.original == nil {
		return nil, stageErr("No dataset uploaded.")
	}
	p.working = p.original.Clone()
	p.transformations = nil
	p.invalidateFromSplitLocked()

	return &PreprocessResult{
		Message:         "Dataset reset to original state",
		Preview:         p.working.Preview(0),
		Transformations: []string{},
	}, nil
}

func (p *Pipeline) invalidateFromSplitLocked() {
	p.split = nil
	p.model = nil
	p.evaluated = false
}

// SplitInfo is the payload of a successful split.
type SplitInfo struct {
	Message        string   `json:"-"`
	TrainSamples   int      `json:"train_samples"`
	TestSamples    int      `json:"test_samples"`
	TrainRatio     int      `json:"train_ratio"`
	TestRatio      int      `json:"test_ratio"`
	TargetColumn   string   `json:"target_column"`
	FeatureColumns []string `json:"feature_columns"`
	NumFeatures    int      `json:"num_features"`
	TargetClasses  []string `json:"target_classes"`
}

// Split partitions the working dataset. A new split orphans any existing
// model and evaluation.
func (p *Pipeline) Split(target string, testSize float64, seed int64) (*SplitInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.working == nil {
		return nil, stageErr("No dataset uploaded. Please upload a dataset first.")
	}

	s, err := split.New(p.working, target, testSize, seed)
	if err != nil {
		return nil, err
	}
	p.split = s
	p.model = nil
	p.evaluated = false

	return &SplitInfo{
		Message: fmt.Sprintf("Data split successfully (%d%% train, %d%% test)",
			s.TrainRatio(), s.TestRatio()),
		TrainSamples:   len(s.XTrain),
		TestSamples:    len(s.XTest),
		TrainRatio:     s.TrainRatio(),
		TestRatio:      s.TestRatio(),
		TargetColumn:   s.Target,
		FeatureColumns: s.Features,
		NumFeatures:    len(s.Features),
		TargetClasses:  s.Classes,
	}, nil
}

// ModelInfo is the payload of a successful train.
type ModelInfo struct {
	Message         string   `json:"-"`
	ModelType       string   `json:"model_type"`
	ModelName       string   `json:"model_name"`
	TrainingSamples int      `json:"training_samples"`
	FeaturesUsed    []string `json:"features_used"`
}

// Train fits a classifier of the requested family on the current split,
// replacing any previous model. A failed fit leaves the previous model in
// place. A new model invalidates any prior evaluation.
func (p *Pipeline) Train(modelType string) (*ModelInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.split == nil {
		return nil, stageErr("Data not split. Please perform train-test split first.")
	}

	s := p.split
	m, err := model.Fit(model.Family(modelType), s.XTrain, s.YTrain, s.Features, s.Classes)
	if err != nil {
		return nil, err
	}
	p.model = m
	p.evaluated = false

	return &ModelInfo{
		Message:         fmt.Sprintf("%s trained successfully!", m.Name),
		ModelType:       modelType,
		ModelName:       m.Name,
		TrainingSamples: len(s.XTrain),
		FeaturesUsed:    s.Features,
	}, nil
}

// Status reports stage completion plus summary details, without side
// effects.
type Status struct {
	Upload     bool          `json:"upload"`
	Preprocess bool          `json:"preprocess"`
	Split      bool          `json:"split"`
	Train      bool          `json:"train"`
	Results    bool          `json:"results"`
	Details    StatusDetails `json:"details"`
}

// StatusDetails carries the summary block of a status query.
type StatusDetails struct {
	DatasetRows     int      `json:"dataset_rows"`
	Transformations []string `json:"transformations"`
	ModelName       *string  `json:"model_name"`
	TargetColumn    *string  `json:"target_column"`
}

// Status returns the current stage booleans and details.
func (p *Pipeline) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	st := Status{
		Upload:     p.original != nil,
		Preprocess: len(p.transformations) > 0,
		Split:      p.split != nil,
		Train:      p.model != nil,
		Results:    p.evaluated,
		Details: StatusDetails{
			Transformations: p.transformationsLocked(),
		},
	}
	if p.original != nil {
		st.Details.DatasetRows = p.original.Rows()
	}
	if p.model != nil {
		st.Details.ModelName = &p.model.Name
	}
	if p.split != nil {
		st.Details.TargetColumn = &p.split.Target
	}
	return st
}

// Reset discards all pipeline state, returning to Empty.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.original = nil
	p.working = nil
	p.transformations = nil
	p.split = nil
	p.model = nil
	p.evaluated = false
}
