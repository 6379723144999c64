package httpadapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/profile-header-etl/internal/adapter/httpadapter"
	"github.com/couchcryptid/profile-header-etl/internal/adapter/utm"
	"github.com/couchcryptid/profile-header-etl/internal/domain"
	"github.com/couchcryptid/profile-header-etl/internal/observability"
	"github.com/couchcryptid/profile-header-etl/internal/pipeline"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockParser struct {
	got domain.RawEvent
	err error
}

func (m *mockParser) Transform(_ context.Context, raw domain.RawEvent) (domain.NormalizedProfileHeader, error) {
	m.got = raw
	if m.err != nil {
		return domain.NormalizedProfileHeader{}, m.err
	}
	return domain.NormalizedProfileHeader{SourceFile: raw.Headers["filename"], SiteID: "1N20", Date: "2020-02-05"}, nil
}

func newTestServer(readyErr error, parser httpadapter.HeaderParser) *httpadapter.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "profile_etl_test_total"}))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, reg, parser, logger)
}

func serve(srv *httpadapter.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(newTestServer(fmt.Errorf("not ready yet"), nil), http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "profile_etl_test_total")
}

func TestParseEndpoint(t *testing.T) {
	parser := &mockParser{}
	srv := newTestServer(nil, parser)

	rec := serve(srv, http.MethodPost, "/v1/headers?filename=density.csv&timezone=-0700&extra.site_id=1N20",
		strings.NewReader("# Site,1N20\n"))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []byte("# Site,1N20\n"), parser.got.Value)
	assert.Equal(t, "density.csv", parser.got.Headers["filename"])
	assert.Equal(t, "-0700", parser.got.Headers["timezone"])
	assert.Equal(t, "1N20", parser.got.Headers["extra.site_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1N20", body["site_id"])
	assert.Equal(t, "density.csv", body["source_file"])
}

func TestParseEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"geodetic", fmt.Errorf("%w: no geographic information", domain.ErrGeodetic), http.StatusUnprocessableEntity, "geodetic"},
		{"format", fmt.Errorf("%w: file is empty", domain.ErrFormat), http.StatusUnprocessableEntity, "format"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newTestServer(nil, &mockParser{err: tt.err}), http.MethodPost, "/v1/headers", strings.NewReader("x"))
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body["kind"])
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestParseEndpoint_OverlongLineIsUnprocessable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tfm := pipeline.NewTransformer(pipeline.HeaderDefaults{TimeZone: "-0700", SRID: 26912, HeaderSeparator: ",", Northern: true},
		utm.NewProjector(), nil, observability.NewMetricsForTesting(), logger)

	body := "# Site,1N20\n# Notes," + strings.Repeat("x", 2*domain.MaxLineBytes) + "\n10,250\n"
	rec := serve(newTestServer(nil, tfm), http.MethodPost, "/v1/headers?filename=density.csv", strings.NewReader(body))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "format", got["kind"])
}

func TestParseEndpoint_DisabledWithoutParser(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodPost, "/v1/headers", strings.NewReader("x"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
