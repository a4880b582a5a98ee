package render

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serrano-advisors/careplan/canonical"
	"github.com/serrano-advisors/careplan/merge"
	"github.com/serrano-advisors/careplan/provider"
)

func rowFor(t *testing.T, rows []ValueRow, field string) ValueRow {
	t.Helper()
	for _, r := range rows {
		if r.Field == field {
			return r
		}
	}
	t.Fatalf("no row for field %q", field)
	return ValueRow{}
}

func statusFor(t *testing.T, rows []StatusRow, field string) StatusRow {
	t.Helper()
	for _, r := range rows {
		if r.Field == field {
			return r
		}
	}
	t.Fatalf("no row for field %q", field)
	return StatusRow{}
}

func TestCarePlanRowsSelectionControlsBranch(t *testing.T) {
	view := &merge.View{
		Name: "Jane Doe",
		Merged: map[string]interface{}{
			"Housing":    "",
			"Employment": "Part-time",
		},
	}

	rows := CarePlanRows(view, []string{"Housing"})
	require.Len(t, rows, len(canonical.DisplayOrder))

	// selected but blank
	assert.Equal(t, StatusMissing, rowFor(t, rows, "Housing").Value)
	// data exists but not selected
	assert.Equal(t, NotSelected, rowFor(t, rows, "Employment").Value)
}

func TestCarePlanRowsSelectedValueEmitted(t *testing.T) {
	view := &merge.View{
		Name:   "Jane Doe",
		Merged: map[string]interface{}{"Housing": "Section 8"},
	}

	rows := CarePlanRows(view, []string{"Housing (CM)"})

	assert.Equal(t, "Section 8", rowFor(t, rows, "Housing").Value)
}

func TestCarePlanRowsNanCountsAsMissing(t *testing.T) {
	view := &merge.View{
		Name: "Jane Doe",
		Merged: map[string]interface{}{
			"Housing":    "nan",
			"Employment": math.NaN(),
		},
	}

	rows := CarePlanRows(view, []string{"Housing", "Employment"})

	assert.Equal(t, StatusMissing, rowFor(t, rows, "Housing").Value)
	assert.Equal(t, StatusMissing, rowFor(t, rows, "Employment").Value)
}

func TestCarePlanRowsFollowDisplayOrder(t *testing.T) {
	view := &merge.View{Name: "Jane Doe", Merged: map[string]interface{}{}}

	rows := CarePlanRows(view, nil)

	require.Len(t, rows, len(canonical.DisplayOrder))
	for i, row := range rows {
		assert.Equal(t, canonical.DisplayOrder[i], row.Field)
	}
}

func TestValidationRowsStatuses(t *testing.T) {
	view := &merge.View{
		Name: "Jane Doe",
		Merged: map[string]interface{}{
			"Housing":   "Section 8",
			"Telephone": "   ",
		},
	}

	rows := ValidationRows(view)
	require.Len(t, rows, len(canonical.DisplayOrder))

	housing := statusFor(t, rows, "Housing")
	assert.Equal(t, StatusAvailable, housing.Status)
	assert.False(t, housing.Missing)

	phone := statusFor(t, rows, canonical.FieldTelephone)
	assert.Equal(t, StatusMissing, phone.Status)
	assert.True(t, phone.Missing)

	// absent entirely
	employment := statusFor(t, rows, "Employment")
	assert.Equal(t, StatusMissing, employment.Status)
	assert.True(t, employment.Missing)
}

func TestValidationRowsIgnoreMergedCaseNotes(t *testing.T) {
	// merged value blank, but the excel raw record holds real notes
	view := &merge.View{
		Name:   "Jane Doe",
		Merged: map[string]interface{}{canonical.FieldCaseNotes: ""},
		BySource: map[string]map[string]interface{}{
			provider.SourceSQL:   {canonical.FieldCaseNotes: ""},
			provider.SourceExcel: {canonical.FieldCaseNotes: "Needs follow-up"},
		},
	}

	notes := statusFor(t, ValidationRows(view), canonical.FieldCaseNotes)
	assert.Equal(t, StatusAvailable, notes.Status)
}

func TestCarePlanDocumentSmoke(t *testing.T) {
	view := &merge.View{
		Name:   "Jane Doe",
		Merged: map[string]interface{}{"Housing": "Section 8"},
	}

	r := NewRenderer("", zerolog.Nop())
	data, err := r.CarePlan(view, []string{"Housing"})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// a .docx artifact is a zip container
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestValidationDocumentSmoke(t *testing.T) {
	view := &merge.View{
		Name:   "Jane Doe",
		Merged: map[string]interface{}{"Housing": "Section 8"},
	}

	r := NewRenderer("", zerolog.Nop())
	data, err := r.ValidationReport(view)
	require.NoError(t, err)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestMissingTemplateIsFatal(t *testing.T) {
	view := &merge.View{Name: "Jane Doe", Merged: map[string]interface{}{}}

	r := NewRenderer("testdata/does_not_exist/Template.docx", zerolog.Nop())
	_, err := r.CarePlan(view, []string{"Housing"})
	require.Error(t, err)
}
