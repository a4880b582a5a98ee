package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecordRenamesKnownSpellings(t *testing.T) {
	rec := map[string]interface{}{
		"youth_name":        "Jane Doe",
		"medical_id_number": "42",
		"housing":           "Section 8",
	}

	norm := NormalizeRecord(rec)

	assert.Equal(t, "Jane Doe", norm[FieldName])
	assert.Equal(t, "42", norm[FieldMedicalID])
	assert.Equal(t, "Section 8", norm["Housing"])
	assert.NotContains(t, norm, "youth_name")
}

func TestNormalizeRecordPassesUnknownKeysThrough(t *testing.T) {
	rec := map[string]interface{}{
		"future_column": "kept",
		"Housing":       "x",
	}

	norm := NormalizeRecord(rec)

	assert.Equal(t, "kept", norm["future_column"])
	assert.Equal(t, "x", norm["Housing"])
}

func TestNormalizeRecordIdempotent(t *testing.T) {
	rec := map[string]interface{}{
		"youth_name":    "Jane Doe",
		"case_notes":    "follow up",
		"unknown_field": 7,
	}

	once := NormalizeRecord(rec)
	twice := NormalizeRecord(once)

	assert.Equal(t, once, twice)
}

func TestNormalizeRecordEmptyInput(t *testing.T) {
	assert.Nil(t, NormalizeRecord(nil))

	empty := map[string]interface{}{}
	assert.Equal(t, empty, NormalizeRecord(empty))
}

func TestNormalizeSelectionStripsDecoration(t *testing.T) {
	selected := []string{
		"Medi-Cal ID Number (CM)",
		"Housing",
		"Custom Field (SQL)",
	}

	norm := NormalizeSelection(selected)

	require.Len(t, norm, 3)
	assert.Equal(t, FieldMedicalID, norm[0])
	assert.Equal(t, "Housing", norm[1])
	assert.Equal(t, "Custom Field", norm[2])
}

func TestDisplayOrderFieldsAreCanonical(t *testing.T) {
	require.NotEmpty(t, DisplayOrder)
	assert.Equal(t, FieldName, DisplayOrder[0])

	canonicalValues := make(map[string]bool, len(Map))
	for _, v := range Map {
		canonicalValues[v] = true
	}
	for _, field := range DisplayOrder {
		assert.True(t, canonicalValues[field], "display order field %q has no raw spelling mapped to it", field)
	}
}
