package v0

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/qadesk/qadesk/internal/model"
	"github.com/qadesk/qadesk/internal/service"
	"github.com/qadesk/qadesk/internal/telemetry"
)

// ListTestRunsInput represents the input for listing the runs of a website
type ListTestRunsInput struct {
	AuthHeader
	PageInput
	WebsiteID string `path:"id" doc:"Website ID (UUID)" format:"uuid"`
}

// ListTestRunsBody represents the paginated test run list response body
type ListTestRunsBody struct {
	TestRuns []*model.TestRun `json:"test_runs"`
	Metadata *Metadata        `json:"metadata,omitempty" doc:"Pagination metadata"`
}

// CreateTestRunInput represents the input for starting a test run
type CreateTestRunInput struct {
	AuthHeader
	WebsiteID string `path:"id" doc:"Website ID (UUID)" format:"uuid"`
	Body      model.TestRunInput
}

// TestRunInput addresses a single test run
type TestRunInput struct {
	AuthHeader
	ID string `path:"id" doc:"Test run ID (UUID)" format:"uuid"`
}

// RecordResultInput represents the input for recording a test outcome
type RecordResultInput struct {
	AuthHeader
	ID         string `path:"id" doc:"Test run ID (UUID)" format:"uuid"`
	TestCaseID string `path:"testCaseId" doc:"Test case ID (UUID)" format:"uuid"`
	Body       model.TestResultInput
}

// RegisterTestRunEndpoints registers the test run endpoints
func RegisterTestRunEndpoints(api huma.API, svc service.QAService, authn *Authenticator, metrics *telemetry.Metrics) {
	huma.Register(api, huma.Operation{
		OperationID: "list-test-runs",
		Method:      http.MethodGet,
		Path:        "/v0/websites/{id}/test-runs",
		Summary:     "List test runs",
		Description: "Get a paginated list of the test runs of a website",
		Tags:        []string{"test-runs"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *ListTestRunsInput) (*Response[ListTestRunsBody], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		runs, nextCursor, err := svc.ListTestRuns(ctx, caller, input.WebsiteID, input.Cursor, input.Limit)
		if err != nil {
			return nil, toHumaError(err, "Failed to list test runs")
		}

		return &Response[ListTestRunsBody]{
			Body: ListTestRunsBody{
				TestRuns: runs,
				Metadata: newMetadata(nextCursor, len(runs)),
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-test-run",
		Method:        http.MethodPost,
		Path:          "/v0/websites/{id}/test-runs",
		Summary:       "Start a test run",
		Description:   "Snapshot the selected test cases of a website, or all of them when none are selected",
		Tags:          []string{"test-runs"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *CreateTestRunInput) (*Response[model.TestRun], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		run, err := svc.CreateTestRun(ctx, caller, input.WebsiteID, input.Body)
		if err != nil {
			return nil, toHumaError(err, "Failed to create test run")
		}

		return &Response[model.TestRun]{Body: *run}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-test-run",
		Method:      http.MethodGet,
		Path:        "/v0/test-runs/{id}",
		Summary:     "Get test run",
		Tags:        []string{"test-runs"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *TestRunInput) (*Response[model.TestRun], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		run, err := svc.GetTestRun(ctx, caller, input.ID)
		if err != nil {
			return nil, toHumaError(err, "Failed to get test run")
		}

		return &Response[model.TestRun]{Body: *run}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "record-test-result",
		Method:      http.MethodPut,
		Path:        "/v0/test-runs/{id}/results/{testCaseId}",
		Summary:     "Record a test result",
		Description: "Mark a test case of a run as passed or failed. The run completes once nothing is pending.",
		Tags:        []string{"test-runs"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *RecordResultInput) (*Response[model.TestRun], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		run, err := svc.RecordTestResult(ctx, caller, input.ID, input.TestCaseID, input.Body)
		if err != nil {
			return nil, toHumaError(err, "Failed to record test result")
		}

		if metrics != nil {
			metrics.TestResultsRecorded.Add(ctx, 1, metric.WithAttributes(
				attribute.String("status", string(input.Body.Status)),
			))
		}

		return &Response[model.TestRun]{Body: *run}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "summarize-test-run",
		Method:      http.MethodGet,
		Path:        "/v0/test-runs/{id}/summary",
		Summary:     "Summarize test run",
		Description: "Count passed, failed and pending results. The pass rate covers executed tests only.",
		Tags:        []string{"test-runs"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *TestRunInput) (*Response[model.TestRunSummary], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		summary, err := svc.SummarizeTestRun(ctx, caller, input.ID)
		if err != nil {
			return nil, toHumaError(err, "Failed to summarize test run")
		}

		return &Response[model.TestRunSummary]{Body: *summary}, nil
	})
}
