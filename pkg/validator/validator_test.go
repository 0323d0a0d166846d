package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Role   string `validate:"omitempty,role"`
	Branch string `validate:"omitempty,branch"`
	Date   string `validate:"omitempty,ymd"`
	Month  string `validate:"omitempty,ym"`
	Name   string `validate:"required"`
}

func TestCustomTags(t *testing.T) {
	ok := sample{Role: "Manager", Branch: "Baby Boss miền Bắc", Date: "2025-03-04", Month: "2025-03", Name: "x"}
	assert.Empty(t, ValidateStruct(ok))
	assert.NoError(t, Error(ok))

	bad := sample{Role: "boss", Branch: "Saigon", Date: "04/03/2025", Month: "2025-3"}
	errs := ValidateStruct(bad)
	require.Len(t, errs, 5)
	assert.Equal(t, "sample.Role", errs[0].FailedField)
	assert.Equal(t, "role", errs[0].Tag)

	err := Error(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "failed on tag 'role'")
}
