package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_CollectsRows(t *testing.T) {
	var ve ValidationError
	assert.False(t, ve.HasAny())

	ve.AddRow(3, "title", "missing value")
	ve.AddRow(3, "url", "must be trimmed")
	ve.AddRow(7, "lang", "missing value")
	ve.Add("source.links_sheet", "must not be empty")

	require.True(t, ve.HasAny())
	assert.Equal(t, []int{3, 7}, ve.Rows())
	assert.Contains(t, ve.Error(), "line 3: title: missing value")
	assert.Contains(t, ve.Error(), "source.links_sheet: must not be empty")
}

func TestValidationError_IsInvalid(t *testing.T) {
	var ve ValidationError
	ve.AddRow(2, "kind", "missing value")
	err := fmt.Errorf("normalize: %w", ve)

	assert.True(t, errors.Is(err, ErrInvalid))

	var got ValidationError
	require.True(t, errors.As(err, &got))
	assert.Len(t, got.Items, 1)
}

func TestExhaustedError(t *testing.T) {
	err := fmt.Errorf("announce: %w", &ExhaustedError{Index: 4, Len: 4})
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.Contains(t, err.Error(), "cursor 4, 4 links")
}

func TestRenderError_Unwrap(t *testing.T) {
	cause := errors.New("template home.html.tmpl not found")
	err := &RenderError{Stage: "home", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "render home: template home.html.tmpl not found", err.Error())
}
