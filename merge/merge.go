// Package merge combines the per-source records for one person into a
// single canonical view and resolves ambiguous person names into distinct
// candidates.
package merge

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/serrano-advisors/careplan/canonical"
	"github.com/serrano-advisors/careplan/provider"
	"github.com/serrano-advisors/careplan/util"
)

// Precedence ranks sources from lowest to highest priority: a later
// source overwrites an earlier one for the same canonical field. The
// ranking is explicit so adding a source cannot silently reorder it.
var Precedence = []string{
	provider.SourceExcel,
	provider.SourceSQL,
	provider.SourceBigQuery,
}

// syntheticIDKey is an internal row key some sources carry; it is never
// part of the merged view.
const syntheticIDKey = "id"

var personPattern = regexp.MustCompile(`^(.*) \(Medical ID: (\d+)\).*$`)

// ParsePersonText splits a person identifier like
// "John Doe (Medical ID: 1234567890) - Address - Phone" into the name and
// the stable medical ID. Text without the ID decoration is taken as a
// bare name.
func ParsePersonText(s string) (name, medicalID string) {
	if m := personPattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return s, ""
}

// Candidate is one distinct person sharing a searched name.
type Candidate struct {
	Name      string `json:"name"`
	MedicalID string `json:"medical_id"`
}

// View is the merged, canonicalized record for one person, built fresh
// per request. BySource keeps the individual normalized records around
// for lookups that deliberately bypass merge precedence (case notes).
type View struct {
	Name      string
	MedicalID string
	Merged    map[string]interface{}
	BySource  map[string]map[string]interface{}
}

// Case notes historically live under inconsistent keys and the merged
// value is unreliable, so presence is decided by a fallback chain over
// the per-source records instead: sql, then warehouse, then excel.
var (
	caseNoteKeys     = []string{canonical.FieldCaseNotes, "case_notes", "casenotes"}
	caseNoteSources  = []string{provider.SourceSQL, provider.SourceBigQuery, provider.SourceExcel}
	noNotesSentinels = map[string]bool{"nan": true, "none": true, "no case notes available.": true}
)

// CaseNotes returns the first non-blank case-notes value in fallback
// order, or "".
func (v *View) CaseNotes() string {
	for _, key := range caseNoteKeys {
		for _, src := range caseNoteSources {
			rec, ok := v.BySource[src]
			if !ok {
				continue
			}
			if s := util.ValueString(rec[key]); strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// HasCaseNotes reports whether any source holds real case notes. Blank
// values and the known "no notes" sentinels count as absent.
func (v *View) HasCaseNotes() bool {
	notes := strings.ToLower(strings.TrimSpace(v.CaseNotes()))
	return notes != "" && !noNotesSentinels[notes]
}

// Service queries all configured providers and builds candidate lists and
// merged views. Providers are addressed through the Precedence ranking;
// a source without a configured provider simply contributes nothing.
type Service struct {
	providers map[string]provider.RecordProvider
	log       zerolog.Logger
}

func NewService(providers []provider.RecordProvider, log zerolog.Logger) *Service {
	byName := make(map[string]provider.RecordProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Service{
		providers: byName,
		log:       log,
	}
}

// ResolveCandidates searches all sources by name and returns the distinct
// people sharing it, deduplicated by medical ID. The first occurrence of
// an ID wins, in source scan order, so the name shown for a duplicated ID
// comes from the earliest source that knows it. A failing source is
// logged and skipped; resolution itself never fails.
func (s *Service) ResolveCandidates(ctx context.Context, personText string) []Candidate {
	name, _ := ParsePersonText(personText)
	if strings.TrimSpace(name) == "" {
		name = personText
	}

	candidates := make([]Candidate, 0)
	seen := make(map[string]bool)

	for _, src := range Precedence {
		p, ok := s.providers[src]
		if !ok {
			continue
		}
		records, err := p.FetchRecords(ctx, name, "")
		if err != nil {
			s.log.Warn().Err(err).
				Str("source", src).
				Str("name", name).
				Msg("Candidate search failed for source")
			continue
		}
		for _, rec := range records {
			norm := canonical.NormalizeRecord(rec)
			id := strings.TrimSpace(util.ValueString(norm[canonical.FieldMedicalID]))
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			candidates = append(candidates, Candidate{
				Name:      strings.TrimSpace(util.ValueString(norm[canonical.FieldName])),
				MedicalID: id,
			})
		}
	}

	s.log.Info().
		Str("name", name).
		Int("candidates", len(candidates)).
		Msg("Resolved candidates")

	return candidates
}

// BuildView fetches one row per source, normalizes each independently and
// merges them under Precedence. The synthetic "id" key is stripped, and a
// caller-supplied medical ID overrides whatever the sources report, since
// the caller picked that person deliberately. Unlike candidate
// resolution, any source failure aborts the whole build: a document
// generated from a partial merge would silently misreport data presence.
func (s *Service) BuildView(ctx context.Context, personText string) (*View, error) {
	name, medicalID := ParsePersonText(personText)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("empty person name")
	}

	merged := make(map[string]interface{})
	bySource := make(map[string]map[string]interface{}, len(Precedence))

	for _, src := range Precedence {
		p, ok := s.providers[src]
		if !ok {
			continue
		}
		records, err := p.FetchRecords(ctx, name, medicalID)
		if err != nil {
			return nil, fmt.Errorf("fetch %s record: %w", src, err)
		}

		norm := map[string]interface{}{}
		if len(records) > 0 {
			norm = canonical.NormalizeRecord(records[0])
		}
		bySource[src] = norm

		for key, value := range norm {
			merged[key] = value
		}
	}

	delete(merged, syntheticIDKey)
	if medicalID != "" {
		merged[canonical.FieldMedicalID] = medicalID
	}

	trimmed := make(map[string]interface{}, len(merged))
	for key, value := range merged {
		trimmed[strings.TrimSpace(key)] = value
	}

	s.log.Debug().
		Str("name", name).
		Str("medical_id", medicalID).
		Int("fields", len(trimmed)).
		Msg("Built merged view")

	return &View{
		Name:      name,
		MedicalID: medicalID,
		Merged:    trimmed,
		BySource:  bySource,
	}, nil
}
