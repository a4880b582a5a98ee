// Package canonical defines the canonical field vocabulary shared by all
// record sources and the normalization applied before any cross-source
// comparison or merge. The same logical field arrives spelled differently
// from the Excel export, the SQL table and the warehouse, so every raw
// record has to pass through Map before records can be combined.
package canonical

import "strings"

// Canonical field names referenced by code outside the map itself.
const (
	FieldName      = "Name of the youth"
	FieldMedicalID = "Medical ID Number"
	FieldCaseNotes = "Case Notes"
	FieldAddress   = "Residential Address"
	FieldTelephone = "Telephone"
)

// Map renames every known raw spelling (source column names and UI labels)
// to its canonical field. Many-to-one, hand-maintained, loaded once.
var Map = map[string]string{
	// identifiers
	"Medical ID Number":   FieldMedicalID,
	"Medi-Cal ID Number":  FieldMedicalID,
	"medical_id_number":   FieldMedicalID,
	"Medical ID":          FieldMedicalID,
	"youth_name":          FieldName,
	"Name of the youth":   FieldName,
	"Name":                FieldName,

	// dates / appointments
	"actual_release_date":    "Actual release date",
	"Release Date":           "Actual release date",
	"scheduled_appointments": "Scheduled Appointments",
	"Appointments":           "Scheduled Appointments",
	"court_dates":            "Court dates",
	"Court Dates":            "Court dates",

	// social / economic
	"income_and_benefits":       "Income and benefits",
	"Income":                    "Income and benefits",
	"food_and_clothing":         "Food & Clothing",
	"Food & Clothing":           "Food & Clothing",
	"identification_documents":  "Identification documents",
	"ID Docs":                   "Identification documents",
	"life_skills":               "Life skills",
	"Life Skills":               "Life skills",
	"family_and_children":       "Family and children",
	"Family":                    "Family and children",
	"service_referrals":         "Service referrals",
	"Service Referrals":         "Service referrals",
	"home_modifications":        "Home Modifications",
	"Home Modifications":        "Home Modifications",
	"durable_medical_equipment": "Durable Medical Equipment",
	"Durable Equipment":         "Durable Medical Equipment",
	"Screenings":                "Screenings",
	"housing":                   "Housing",
	"Housing":                   "Housing",
	"employment":                "Employment",
	"Employment":                "Employment",
	"transportation":            "Transportation",
	"Transportation":            "Transportation",
	"Treatment History":         "Treatment History",
	"Treatment History (mental health, physical health, substance use)": "Treatment History",

	// clinical
	"Race/Ethnicity":                "Race/Ethnicity",
	"Residential Address":           FieldAddress,
	"residential_address":           FieldAddress,
	"Telephone":                     FieldTelephone,
	"telephone":                     FieldTelephone,
	"Medi-Cal health plan assigned": "Medi-Cal health plan assigned",
	"Health Screenings":             "Health Screenings",
	"Health Assessments":            "Health Assessments",
	"Chronic Conditions":            "Chronic Conditions",
	"Prescribed Medications":        "Prescribed Medications",
	"Primary physician contacts":    "Primary physician contacts",
	"Clinical Assessments":          "Clinical Assessments",
	"Emergency contacts":            "Emergency contacts",
	"case_notes":                    FieldCaseNotes,
}

// DisplayOrder is the fixed, hand-curated row order for both rendered
// document types. A canonical field absent from this list never appears
// in a rendered document.
var DisplayOrder = []string{
	FieldName,
	FieldMedicalID,
	"Race/Ethnicity",
	FieldTelephone,
	FieldAddress,
	"Emergency contacts",
	"Identification documents",
	FieldCaseNotes,
	"Actual release date",
	"Court dates",
	"Medi-Cal health plan assigned",
	"Health Screenings",
	"Health Assessments",
	"Chronic Conditions",
	"Prescribed Medications",
	"Clinical Assessments",
	"Screenings",
	"Primary physician contacts",
	"Durable Medical Equipment",
	"Treatment History",
	"Scheduled Appointments",
	"Housing",
	"Food & Clothing",
	"Transportation",
	"Income and benefits",
	"Home Modifications",
	"Employment",
	"Life skills",
	"Family and children",
	"Service referrals",
}

// NormalizeRecord renames known raw spellings to canonical fields. Keys
// absent from Map pass through unchanged, so unknown or future columns
// never fail. A nil or empty record is returned as is.
func NormalizeRecord(rec map[string]interface{}) map[string]interface{} {
	if len(rec) == 0 {
		return rec
	}
	out := make(map[string]interface{}, len(rec))
	for key, value := range rec {
		if canon, ok := Map[key]; ok {
			out[canon] = value
		} else {
			out[key] = value
		}
	}
	return out
}

// NormalizeSelection maps UI field labels to canonical fields. Each label
// is first stripped of a trailing " (...)" decoration (source tags added
// by the UI), then looked up in Map; unmapped labels pass through.
func NormalizeSelection(fields []string) []string {
	normalized := make([]string, 0, len(fields))
	for _, field := range fields {
		clean := strings.TrimSpace(strings.SplitN(field, " (", 2)[0])
		if canon, ok := Map[clean]; ok {
			clean = canon
		}
		normalized = append(normalized, clean)
	}
	return normalized
}
