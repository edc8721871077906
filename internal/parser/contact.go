package parser

import (
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

const (
	contactPhoneUsage = "INVALID CONTACT FORMAT - USE AP LON +442071234567-H"
	contactEmailUsage = "INVALID CONTACT FORMAT - USE APE NAME@EXAMPLE.COM"
	agencyUsage       = "INVALID AGENCY FORMAT - USE AAA LONU12345"
	remarkUsage       = "INVALID REMARK FORMAT - USE RM FREE TEXT"
)

// ParseContactPhone handles AP [city] <phone>[-qualifier].
func ParseContactPhone(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimSpace(strings.TrimPrefix(cmd, VerbContactPhone))

	fields := strings.Fields(body)
	req := ContactPhoneRequest{}
	switch len(fields) {
	case 1:
		req.Phone = fields[0]
	case 2:
		if !validStation(fields[0]) {
			return nil, apperrors.Parse(contactPhoneUsage)
		}
		req.City = fields[0]
		req.Phone = fields[1]
	default:
		return nil, apperrors.Parse(contactPhoneUsage)
	}

	if idx := strings.LastIndexByte(req.Phone, '-'); idx >= 0 && idx == len(req.Phone)-2 {
		req.Qualifier = req.Phone[idx+1:]
		req.Phone = req.Phone[:idx]
		switch req.Qualifier {
		case "H", "B", "M":
		default:
			return nil, apperrors.Parse(contactPhoneUsage)
		}
	}

	if len(req.Phone) < 6 || !validPhone(req.Phone) {
		return nil, apperrors.Parse(contactPhoneUsage)
	}
	return req, nil
}

// ParseContactEmail handles APE <email>.
func ParseContactEmail(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	email := strings.TrimSpace(strings.TrimPrefix(cmd, VerbContactEmail))

	at := strings.IndexByte(email, '@')
	if at <= 0 || !strings.Contains(email[at:], ".") || strings.ContainsAny(email, " ") {
		return nil, apperrors.Parse(contactEmailUsage)
	}
	return ContactEmailRequest{Email: email}, nil
}

// ParseAgency handles AAA <city><iata code>: city is the first 3 characters.
func ParseAgency(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimSpace(strings.TrimPrefix(cmd, VerbAgency))

	if len(body) < 4 || !validStation(body[:3]) {
		return nil, apperrors.Parse(agencyUsage)
	}
	return AgencyRequest{City: body[:3], IataCode: body[3:]}, nil
}

// ParseRemark handles RM <free text>. The text after the 3-character prefix
// is kept verbatim, original case included.
func ParseRemark(raw string) (Request, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 4 {
		return nil, apperrors.Parse(remarkUsage)
	}
	text := trimmed[3:]
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Parse(remarkUsage)
	}
	return RemarkRequest{Text: text}, nil
}

func validPhone(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '+' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
