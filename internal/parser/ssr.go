package parser

import (
	"strconv"
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

const (
	ssrUsage     = "INVALID SSR FORMAT - USE SR VGML/P1/S2"
	ssrListUsage = "INVALID SSR FORMAT - USE SR*"
	ssrDelUsage  = "INVALID SSR FORMAT - USE SRX2"
	docsUsage    = "INVALID DOCS FORMAT - USE SRDOCS P-GBR-123456789-GBR-12JUL76-M-20NOV29-SMITH-JOHN/P1"
	osiUsage     = "INVALID OSI FORMAT - USE OS VS FREE TEXT"
)

// ParseAddSsr handles SR <code>[ free text][/P<n>][/S<n>].
func ParseAddSsr(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimSpace(strings.TrimPrefix(cmd, VerbAddSsr))

	parts := strings.Split(body, "/")
	head := strings.TrimSpace(parts[0])

	fields := strings.SplitN(head, " ", 2)
	code := fields[0]
	if len(code) != 4 || !allLetters(code) {
		return nil, apperrors.Parse(ssrUsage)
	}

	req := AddSsrRequest{Code: code}
	if len(fields) == 2 {
		req.FreeText = strings.TrimSpace(fields[1])
	}

	var err error
	req.PassengerID, req.SegmentNumber, err = parseAssociations(parts[1:], ssrUsage)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ParseListSsr handles the bare SR* entry.
func ParseListSsr(raw string) (Request, error) {
	if strings.ToUpper(strings.TrimSpace(raw)) != VerbListSsr {
		return nil, apperrors.Parse(ssrListUsage)
	}
	return ListSsrRequest{}, nil
}

// ParseDeleteSsr handles SRX<k>.
func ParseDeleteSsr(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	number, err := strconv.Atoi(strings.TrimPrefix(cmd, VerbDeleteSsr))
	if err != nil || number < 1 {
		return nil, apperrors.Parse(ssrDelUsage)
	}
	return DeleteSsrRequest{Number: number}, nil
}

// ParseDocuments handles the SRDOCS travel-document entry. The payload is
// dash-separated: type, issuing country, number, nationality, date of
// birth, gender, expiry, surname, given name; passenger association is the
// trailing /P<n>.
func ParseDocuments(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimSpace(strings.TrimPrefix(cmd, VerbDocuments))

	paxID := 0
	if idx := strings.LastIndex(body, "/P"); idx >= 0 {
		n, err := strconv.Atoi(body[idx+2:])
		if err != nil || n < 1 {
			return nil, apperrors.Parse(docsUsage)
		}
		paxID = n
		body = body[:idx]
	}
	if paxID == 0 {
		return nil, apperrors.Parse(docsUsage)
	}

	fields := strings.Split(body, "-")
	if len(fields) != 9 {
		return nil, apperrors.Parse(docsUsage)
	}

	docType := fields[0]
	if docType != "P" && docType != "I" {
		return nil, apperrors.Parse(docsUsage)
	}
	if !validStation(fields[1]) || !validStation(fields[3]) {
		return nil, apperrors.Parse(docsUsage)
	}
	dob, ok := ParseDocumentDate(fields[4])
	if !ok {
		return nil, apperrors.Parse(docsUsage)
	}
	gender := fields[5]
	if gender != "M" && gender != "F" && gender != "X" {
		return nil, apperrors.Parse(docsUsage)
	}
	expiry, ok := ParseDocumentDate(fields[6])
	if !ok {
		return nil, apperrors.Parse(docsUsage)
	}
	if fields[2] == "" || fields[7] == "" || fields[8] == "" {
		return nil, apperrors.Parse(docsUsage)
	}

	return DocumentRequest{
		PassengerID: paxID,
		Document: model.Document{
			Type:           docType,
			IssuingCountry: fields[1],
			Number:         fields[2],
			Nationality:    fields[3],
			DateOfBirth:    dob,
			Gender:         gender,
			ExpiryDate:     expiry,
			Surname:        fields[7],
			GivenName:      fields[8],
		},
	}, nil
}

// ParseAddOsi handles OS <airline> <free text>[/P<n>].
func ParseAddOsi(raw string) (Request, error) {
	trimmed := strings.TrimSpace(raw)
	body := strings.TrimSpace(trimmed[len(VerbAddOsi):])

	req := AddOsiRequest{}
	if idx := strings.LastIndex(strings.ToUpper(body), "/P"); idx >= 0 {
		n, err := strconv.Atoi(body[idx+2:])
		if err != nil || n < 1 {
			return nil, apperrors.Parse(osiUsage)
		}
		req.PassengerID = n
		body = strings.TrimSpace(body[:idx])
	}

	fields := strings.SplitN(body, " ", 2)
	if len(fields) != 2 {
		return nil, apperrors.Parse(osiUsage)
	}
	airline := strings.ToUpper(fields[0])
	if len(airline) != 2 || !allLetters(airline) {
		return nil, apperrors.Parse(osiUsage)
	}
	text := strings.TrimSpace(fields[1])
	if text == "" {
		return nil, apperrors.Parse(osiUsage)
	}

	req.Airline = airline
	req.FreeText = text
	return req, nil
}

// parseAssociations extracts /P<n> and /S<n> suffixes in either order.
func parseAssociations(parts []string, usage string) (paxID, segmentNo int, err error) {
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) < 2 {
			return 0, 0, apperrors.Parse(usage)
		}
		n, convErr := strconv.Atoi(part[1:])
		if convErr != nil || n < 1 {
			return 0, 0, apperrors.Parse(usage)
		}
		switch part[0] {
		case 'P':
			paxID = n
		case 'S':
			segmentNo = n
		default:
			return 0, 0, apperrors.Parse(usage)
		}
	}
	return paxID, segmentNo, nil
}

func allLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return len(s) > 0
}
