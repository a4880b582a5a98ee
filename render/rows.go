package render

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/serrano-advisors/careplan/canonical"
	"github.com/serrano-advisors/careplan/merge"
	"github.com/serrano-advisors/careplan/util"
)

const (
	StatusAvailable = "Data Available"
	StatusMissing   = "Data Not Available"
	NotSelected     = "Not Selected"
)

// ValueRow is one care-plan table row.
type ValueRow struct {
	Field string
	Value string
}

// StatusRow is one validation-report table row.
type StatusRow struct {
	Field   string
	Status  string
	Missing bool
}

// CarePlanRows computes the care-plan rows for every field in display
// order. Selection, not data presence, decides the "Not Selected" branch:
// an unselected field shows "Not Selected" even when data exists, and a
// selected field with blank or nan data shows "Data Not Available".
func CarePlanRows(view *merge.View, selectedFields []string) []ValueRow {
	selection := canonical.NormalizeSelection(selectedFields)

	rows := make([]ValueRow, 0, len(canonical.DisplayOrder))
	for _, field := range canonical.DisplayOrder {
		if !slices.Contains(selection, field) {
			rows = append(rows, ValueRow{Field: field, Value: NotSelected})
			continue
		}
		value := util.ValueString(view.Merged[field])
		if blank(value) {
			value = StatusMissing
		}
		rows = append(rows, ValueRow{Field: field, Value: value})
	}
	return rows
}

// ValidationRows computes the presence status of every field in display
// order; field selection plays no part here. Case notes are special-cased
// through the per-source fallback chain.
func ValidationRows(view *merge.View) []StatusRow {
	rows := make([]StatusRow, 0, len(canonical.DisplayOrder))
	for _, field := range canonical.DisplayOrder {
		var missing bool
		if field == canonical.FieldCaseNotes {
			missing = !view.HasCaseNotes()
		} else {
			missing = valueMissing(view.Merged[field])
		}

		status := StatusAvailable
		if missing {
			status = StatusMissing
		}
		rows = append(rows, StatusRow{Field: field, Status: status, Missing: missing})
	}
	return rows
}

func blank(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, "nan")
}

func valueMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return true
	}
	return strings.TrimSpace(util.ValueString(v)) == ""
}
