// Package format renders plain one-line display strings for assessments, classifications
// and trial outcomes, and recovers the numbers from them.
//
// Strings carry no markup. The Parse functions accept either a full display line or the
// bare field text, so a value copied out of a rendered summary can be read back.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

// NotAvailable is shown for a value that cannot or must not be computed.
const NotAvailable = "N/A"

var ErrUnparseable = errors.New("unparseable display string")

var (
	scorePattern = regexp.MustCompile(`(-?\d+) points?\b`)
	rdPattern    = regexp.MustCompile(`(?:RD )?([+-]?\d+(?:\.\d+)?)%`)
	rdNAPattern  = regexp.MustCompile(`(?:^|RD )N/A`)
	nntPattern   = regexp.MustCompile(`(?:^|NNT )(\d+(?:\.\d+)?)\s*$|NNT (\d+(?:\.\d+)?)`)
	nntNAPattern = regexp.MustCompile(`(?:^|NNT )N/A`)
)

// RiskDifference renders a signed percentage-point difference such as "+28.0%".
func RiskDifference(rd *float64) string {
	if rd == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%+.1f%%", *rd)
}

// NNT renders a number needed to treat with one decimal.
func NNT(nnt *float64) string {
	if nnt == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*nnt, 'f', 1, 64)
}

// Assessment renders e.g. "ICH: 3 points (30-day mortality 72%)".
func Assessment(shortName string, a domain.Assessment) string {
	unit := "points"
	if a.Score == 1 || a.Score == -1 {
		unit = "point"
	}
	line := fmt.Sprintf("%s: %d %s (%s)", shortName, a.Score, unit, a.Interpretation)
	if !a.Complete {
		line += fmt.Sprintf(" [incomplete: %s]", strings.Join(a.Missing, ", "))
	}
	return line
}

// Classification renders e.g. "Boston Criteria 2.0: Probable CAA (anticoagulation risk: high)".
func Classification(r domain.ClassificationResult) string {
	return fmt.Sprintf("Boston Criteria 2.0: %s (anticoagulation risk: %s)", r.Label, r.AnticoagulationRisk)
}

// Outcome renders e.g. "superiority: RD +28.0%, NNT 3.6".
func Outcome(o domain.ComparativeOutcome) string {
	return fmt.Sprintf("%s: RD %s, NNT %s", o.Mode, o.RiskDifferenceText, o.NNTText)
}

// ParseScore recovers the score from an Assessment line.
func ParseScore(s string) (int, error) {
	m := scorePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("parse score %q: %w", s, ErrUnparseable)
	}
	return strconv.Atoi(m[1])
}

// ParseRiskDifference recovers a risk difference. "N/A" yields nil without error.
func ParseRiskDifference(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if m := rdPattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse risk difference %q: %w", s, err)
		}
		return &v, nil
	}
	if rdNAPattern.MatchString(s) {
		return nil, nil
	}
	return nil, fmt.Errorf("parse risk difference %q: %w", s, ErrUnparseable)
}

// ParseNNT recovers a number needed to treat. "N/A" yields nil without error.
func ParseNNT(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if m := nntPattern.FindStringSubmatch(s); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse nnt %q: %w", s, err)
		}
		return &v, nil
	}
	if nntNAPattern.MatchString(s) {
		return nil, nil
	}
	return nil, fmt.Errorf("parse nnt %q: %w", s, ErrUnparseable)
}
