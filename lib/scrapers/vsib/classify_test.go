package vsib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const goodPage = `<html><body>
	Supplier Scorecard
	<input type="hidden" id="__VIEWSTATE" />
	Supplier Spend Dependency PPM QPM Dispatch Precision
</body></html>`

func TestClassifyPrecedence(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		html     string
		expected Outcome
	}{
		{
			name:     "success",
			title:    "Supplier Scorecard",
			html:     goodPage,
			expected: OutcomeSuccess,
		},
		{
			name:     "login page by title",
			title:    "Corporate Login",
			html:     "<html><body>please wait</body></html>",
			expected: OutcomeLoginRequired,
		},
		{
			name:     "login page by body",
			title:    "VSIB",
			html:     "<html><body>Sign in to continue</body></html>",
			expected: OutcomeLoginRequired,
		},
		{
			// login markers win even when the body also says denied
			name:     "login beats access denied",
			title:    "Logon",
			html:     "<html><body>access denied</body></html>",
			expected: OutcomeLoginRequired,
		},
		{
			name:     "access denied",
			title:    "VSIB",
			html:     "<html><body>Access Denied: not authorized for this supplier</body></html>",
			expected: OutcomeAccessDenied,
		},
		{
			name:     "not found",
			title:    "VSIB",
			html:     "<html><body>Supplier not found</body></html>",
			expected: OutcomeNotFound,
		},
		{
			name:     "incomplete without viewstate",
			title:    "VSIB",
			html:     "<html><body>Supplier Scorecard</body></html>",
			expected: OutcomeIncomplete,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Classify(test.title, test.html))
		})
	}
}

func TestKeyElementCount(t *testing.T) {
	require.Equal(t, 5, KeyElementCount(goodPage))
	require.Equal(t, 0, KeyElementCount("<html><body>empty</body></html>"))
}

func TestOutcomeErr(t *testing.T) {
	require.NoError(t, OutcomeSuccess.Err("123"))

	// a thin page is still a fetched page, the batch keeps it
	require.NoError(t, OutcomeIncomplete.Err("123"))

	err := OutcomeLoginRequired.Err("123")
	require.Error(t, err)
	require.Contains(t, err.Error(), "authentication required")

	var oerr *OutcomeError
	require.ErrorAs(t, OutcomeNotFound.Err("456"), &oerr)
	require.Equal(t, OutcomeNotFound, oerr.Outcome)
}
