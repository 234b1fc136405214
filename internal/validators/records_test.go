package validators_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qadesk/qadesk/internal/model"
	"github.com/qadesk/qadesk/internal/validators"
)

func TestRecordValidator_Bug(t *testing.T) {
	rv := validators.NewRecordValidator()

	tests := []struct {
		name      string
		input     model.BugInput
		wantField string
	}{
		{
			name:  "valid bug",
			input: model.BugInput{Description: "Checkout button does nothing", Severity: model.SeverityHigh},
		},
		{
			name:      "missing description",
			input:     model.BugInput{Severity: model.SeverityLow},
			wantField: "Description",
		},
		{
			name:      "unknown severity",
			input:     model.BugInput{Description: "x", Severity: "blocker"},
			wantField: "Severity",
		},
		{
			name:      "description too long",
			input:     model.BugInput{Description: strings.Repeat("a", 4001), Severity: model.SeverityLow},
			wantField: "Description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rv.Validate(&tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, validators.ErrInvalidRecord)

			var verrs validators.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
		})
	}
}

func TestRecordValidator_Messages(t *testing.T) {
	rv := validators.NewRecordValidator()

	err := rv.Validate(&model.BugInput{Severity: "nope"})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "validation failed: 2 error(s)")
	assert.Contains(t, msg, "Description is required")
	assert.Contains(t, msg, "Severity must be one of: low, medium, high, critical")
}

func TestRecordValidator_TestRunInput(t *testing.T) {
	rv := validators.NewRecordValidator()

	assert.NoError(t, rv.Validate(&model.TestRunInput{Name: "Sprint 12 Regression"}))
	assert.NoError(t, rv.Validate(&model.TestRunInput{
		Name:        "Smoke",
		TestCaseIDs: []string{"3f5c1a52-4d8e-4c8e-9b39-5f1c7c1d2e3a"},
	}))
	assert.Error(t, rv.Validate(&model.TestRunInput{Name: "Smoke", TestCaseIDs: []string{"not-a-uuid"}}))
	assert.Error(t, rv.Validate(&model.TestRunInput{}))
}

func TestRecordValidator_TestResultInput(t *testing.T) {
	rv := validators.NewRecordValidator()

	assert.NoError(t, rv.Validate(&model.TestResultInput{Status: model.TestStatusPassed}))
	assert.NoError(t, rv.Validate(&model.TestResultInput{Status: model.TestStatusFailed, Notes: "500 on submit"}))
	assert.Error(t, rv.Validate(&model.TestResultInput{Status: model.TestStatusPending}))
}

func TestRecordValidator_Profile(t *testing.T) {
	rv := validators.NewRecordValidator()

	assert.NoError(t, rv.Validate(&model.UserProfile{Name: "Ada"}))
	assert.Error(t, rv.Validate(&model.UserProfile{}))
}
