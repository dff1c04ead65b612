package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/api"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	return api.NewRouter(pipeline.New(), "*")
}

func csvBody() []byte {
	var b strings.Builder
	b.WriteString("f1,f2,label\n")
	for i := 0; i < 50; i++ {
		label := i % 2
		fmt.Fprintf(&b, "%d,%d,%d\n", i+label*100, i%5, label)
	}
	return []byte(b.String())
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func TestHealth(t *testing.T) {
	router := newRouter()
	rec, body := doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "healthy", body["status"])
}

func TestUploadEndpoint(t *testing.T) {
	router := newRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.csv", csvBody()))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["success"])
	require.Equal(t, "Successfully uploaded data.csv", body["message"])

	info := body["dataset_info"].(map[string]any)
	require.Equal(t, float64(50), info["rows"])
	require.Equal(t, float64(3), info["columns"])

	preview := body["preview"].(map[string]any)
	require.Equal(t, float64(50), preview["total_rows"])
}

func TestUploadBadExtension(t *testing.T) {
	router := newRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.txt", csvBody()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body["detail"], "unsupported file format")
}

func TestMutatingBeforeUpload(t *testing.T) {
	router := newRouter()

	rec, body := doJSON(t, router, http.MethodPost, "/split",
		map[string]any{"target_column": "label"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, body["detail"], "No dataset uploaded")

	rec, body = doJSON(t, router, http.MethodGet, "/results", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, body["detail"], "No model trained")
}

// TestFullFlow walks the whole pipeline through the HTTP surface.
func TestFullFlow(t *testing.T) {
	router := newRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.csv", csvBody()))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, body := doJSON(t, router, http.MethodPost, "/preprocess",
		map[string]any{"columns": []string{"f1"}, "method": "standardize"})
	require.Equal(t, http.StatusOK, rec2.Code)
	applied := body["transformations_applied"].([]any)
	require.Len(t, applied, 1)
	require.Contains(t, applied[0], "StandardScaler")

	rec2, body = doJSON(t, router, http.MethodPost, "/split",
		map[string]any{"target_column": "label", "test_size": 0.2, "random_state": 42})
	require.Equal(t, http.StatusOK, rec2.Code)
	splitInfo := body["split_info"].(map[string]any)
	require.Equal(t, float64(40), splitInfo["train_samples"])
	require.Equal(t, float64(10), splitInfo["test_samples"])
	require.Equal(t, "label", splitInfo["target_column"])

	rec2, body = doJSON(t, router, http.MethodPost, "/train",
		map[string]any{"model_type": "logistic_regression"})
	require.Equal(t, http.StatusOK, rec2.Code)
	modelInfo := body["model_info"].(map[string]any)
	require.Equal(t, "Logistic Regression", modelInfo["model_name"])
	require.Equal(t, float64(40), modelInfo["training_samples"])

	rec2, body = doJSON(t, router, http.MethodGet, "/results", nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	results := body["results"].(map[string]any)
	require.Equal(t, float64(10), results["test_samples"])
	acc := results["accuracy"].(float64)
	require.GreaterOrEqual(t, acc, 0.0)
	require.LessOrEqual(t, acc, 100.0)

	viz := body["visualizations"].(map[string]any)
	cmViz := viz["confusion_matrix"].(map[string]any)
	require.Equal(t, "Confusion Matrix", cmViz["title"])
	require.NotEmpty(t, cmViz["image"])

	rec2, body = doJSON(t, router, http.MethodGet, "/pipeline-status", nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	require.Equal(t, true, body["upload"])
	require.Equal(t, true, body["train"])
	require.Equal(t, true, body["results"])
	details := body["details"].(map[string]any)
	require.Equal(t, "label", details["target_column"])

	rec2, body = doJSON(t, router, http.MethodPost, "/reset", nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	require.Equal(t, "Pipeline reset successfully", body["message"])

	rec2, body = doJSON(t, router, http.MethodGet, "/pipeline-status", nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	require.Equal(t, false, body["upload"])
}

func TestPreprocessValidation(t *testing.T) {
	router := newRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.csv", csvBody()))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, body := doJSON(t, router, http.MethodPost, "/preprocess",
		map[string]any{"columns": []string{"missing_col"}, "method": "standardize"})
	require.Equal(t, http.StatusBadRequest, rec2.Code)
	require.Contains(t, body["detail"], "missing_col")

	// Body missing required fields fails binding.
	rec2, _ = doJSON(t, router, http.MethodPost, "/preprocess", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestSplitValidation(t *testing.T) {
	router := newRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.csv", csvBody()))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, body := doJSON(t, router, http.MethodPost, "/split",
		map[string]any{"target_column": "label", "test_size": 1.5})
	require.Equal(t, http.StatusBadRequest, rec2.Code)
	require.Contains(t, body["detail"], "test size")
}

func TestTrainValidation(t *testing.T) {
	router := newRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.csv", csvBody()))
	require.Equal(t, http.StatusOK, rec.Code)

	_, _ = doJSON(t, router, http.MethodPost, "/split",
		map[string]any{"target_column": "label"})

	rec2, body := doJSON(t, router, http.MethodPost, "/train",
		map[string]any{"model_type": "svm"})
	require.Equal(t, http.StatusBadRequest, rec2.Code)
	require.Contains(t, body["detail"], "invalid model type")
}
