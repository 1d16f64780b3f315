package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/kernsecbench/internal/analysis"
	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/aggregate"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/fit"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/parse"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage/in_mem"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lmbenchDoc = `{
  "lines": [
    "[    1.000000] kernsecbench: start",
    "[TAG: AUX LMBENCH RESULTS]",
    "Simple syscall: %s microseconds",
    "Memory read bandwidth",
    "1 10",
    "2 20",
    "",
    "[TAG: AUX LMBENCH RESULTS END]",
    "[    9.000000] kernsecbench: start"
  ],
  "metadata": {"test_marker": "kernsecbench: start"}
}`

func doc(syscall string) string {
	return strings.Replace(lmbenchDoc, "%s", syscall, 1)
}

func newTestEcho(t *testing.T) (*echo.Echo, *in_mem.InMemStorer) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	extractor := analysis.NewExtractor(parse.New(parse.DefaultConfig()), aggregate.DefaultReducer())
	pipeline := analysis.New(extractor, fit.NewFitter(), analysis.Options{Workers: 2})
	storer := in_mem.NewInMemStorer()

	NewAnalysisRouter(e, extractor, pipeline, storer).Bind()
	return e, storer
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestParseLogHandler(t *testing.T) {
	e, _ := newTestEcho(t)

	for _, path := range []string{"/api/v1/logs/parse?run=baseline", "/api/v1/logs/parse?run=baseline&scope=test"} {
		rec := post(e, path, doc("0.25"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Run      string `json:"run"`
			Readings []struct {
				Metric string  `json:"metric"`
				Value  float64 `json:"value"`
			} `json:"readings"`
			Streams []struct {
				Stream string       `json:"stream"`
				Points [][2]float64 `json:"points"`
			} `json:"streams"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "baseline", resp.Run)
		require.NotEmpty(t, resp.Readings)
		assert.Equal(t, "syscall", resp.Readings[0].Metric)
		assert.Equal(t, 0.25, resp.Readings[0].Value)
		require.Len(t, resp.Streams, 1)
		assert.Equal(t, "mem_read_bw", resp.Streams[0].Stream)
		assert.Equal(t, [][2]float64{{1, 10}, {2, 20}}, resp.Streams[0].Points)
	}
}

func TestParseLogHandler_NoSections(t *testing.T) {
	e, _ := newTestEcho(t)

	rec := post(e, "/api/v1/logs/parse", `{"lines": ["nothing to see"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseLogHandler_BadBody(t *testing.T) {
	e, _ := newTestEcho(t)

	rec := post(e, "/api/v1/logs/parse", `{"lines": 7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler(t *testing.T) {
	e, storer := newTestEcho(t)

	body := `{"baseline": "baseline", "runs": [
		{"name": "baseline", "display_name": "none", "documents": [` + doc("0.2") + `, ` + doc("0.4") + `]},
		{"name": "pti_on", "documents": [` + doc("0.6") + `]}
	]}`

	rec := post(e, "/api/v1/analyses", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep struct {
		Meta struct {
			ID string `json:"id"`
		} `json:"meta"`
		Runs []struct {
			Run         string `json:"run"`
			DisplayName string `json:"display_name"`
			Iterations  int    `json:"iterations"`
		} `json:"runs"`
		Comparisons []struct {
			Run     string  `json:"run"`
			Metric  string  `json:"metric"`
			PctDiff float64 `json:"pct_diff"`
		} `json:"comparisons"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))

	require.Len(t, rep.Runs, 2)
	assert.Equal(t, "none", rep.Runs[0].DisplayName)
	assert.Equal(t, 2, rep.Runs[0].Iterations)

	var syscallDiff float64
	for _, c := range rep.Comparisons {
		if c.Run == "pti_on" && c.Metric == "syscall" {
			syscallDiff = c.PctDiff
		}
	}
	assert.InDelta(t, 100.0, syscallDiff, 1e-9)

	require.NotEmpty(t, rep.Meta.ID)
	assert.Len(t, storer.Scalars(rep.Meta.ID), 9)
	assert.Len(t, storer.Streams(rep.Meta.ID), 6)
}

func TestAnalyzeHandler_Validation(t *testing.T) {
	e, _ := newTestEcho(t)

	for _, body := range []string{
		`{"runs": []}`,
		`{"runs": [{"name": ""}]}`,
		`{"runs": [{"name": "a"}, {"name": "a"}]}`,
		`{"baseline": "b", "runs": [{"name": "a"}]}`,
	} {
		rec := post(e, "/api/v1/analyses", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
