package services

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/codyseavey/tcg-portfolio/internal/metrics"
	"github.com/codyseavey/tcg-portfolio/internal/models"
)

var (
	// "4/102", "025 / 185"; run on digit-normalized text
	cardNumberPattern = regexp.MustCompile(`(?:^|\s)(\d{1,3})\s*/\s*(\d{1,3})(?:\s|$|[^0-9])`)
	hpPattern         = regexp.MustCompile(`(?i)\bHP\s*\d{2,3}\b|\b\d{2,3}\s*HP\b`)
	nameTrimPattern   = regexp.MustCompile(`[^\p{L}'!?.\-]+$`)
)

// normalizeOCRDigits replaces common OCR misreads of digits: O/o -> 0, l -> 1
func normalizeOCRDigits(s string) string {
	return strings.NewReplacer("O", "0", "o", "0", "l", "1").Replace(s)
}

// ParseScanText pulls scan hints out of raw recognized card text. The first
// N/M collector number becomes CardNumber, the first token equal to one of
// setCodes becomes SetCode, and the first remaining line with letters becomes
// CardName. Fields that cannot be found stay blank.
func ParseScanText(text string, setCodes []string) models.ScanHints {
	var hints models.ScanHints

	var numberLine string
	for _, line := range strings.Split(text, "\n") {
		if m := cardNumberPattern.FindStringSubmatch(normalizeOCRDigits(line)); m != nil {
			hints.CardNumber = m[1] + "/" + m[2]
			numberLine = line
			break
		}
	}

	known := make(map[string]string, len(setCodes))
	for _, code := range setCodes {
		known[strings.ToUpper(code)] = code
	}
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if code, ok := known[strings.ToUpper(tok)]; ok {
			hints.SetCode = code
			break
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if line == numberLine && numberLine != "" {
			continue
		}
		name := strings.TrimSpace(hpPattern.ReplaceAllString(line, ""))
		name = strings.TrimSpace(nameTrimPattern.ReplaceAllString(name, ""))
		if name == "" || !strings.ContainsFunc(name, unicode.IsLetter) {
			continue
		}
		if _, isSet := known[strings.ToUpper(name)]; isSet {
			continue
		}
		hints.CardName = name
		break
	}

	return hints
}

// ScanText parses raw card text into hints and then behaves like ScanAndCollect.
// The catalog is read once for both the set codes and the match.
func (s *ScannerService) ScanText(ctx context.Context, userID, text string) (*models.ScanResponse, error) {
	if strings.TrimSpace(text) == "" {
		return &models.ScanResponse{ScanResult: *noMatch(0)}, nil
	}

	cards, err := s.catalog.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var setCodes []string
	for _, c := range cards {
		if c.SetCode != "" && !seen[c.SetCode] {
			seen[c.SetCode] = true
			setCodes = append(setCodes, c.SetCode)
		}
	}

	hints := ParseScanText(text, setCodes)
	result := IdentifyCard(hints, cards)
	metrics.ScanResultsTotal.WithLabelValues(scanOutcome(result)).Inc()
	metrics.ScanConfidence.Observe(result.Confidence)
	return s.collect(ctx, userID, hints, result)
}
