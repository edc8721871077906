package parser

import (
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

const (
	retrieveUsage       = "INVALID RETRIEVE FORMAT - USE RT, RTABCDEF OR RT/SMITH"
	retrieveFlightUsage = "INVALID RETRIEVE FORMAT - USE RTFVS001/20JUN"
	retrievePhoneUsage  = "INVALID RETRIEVE FORMAT - USE RTP+442071234567"
	retrieveTicketUsage = "INVALID RETRIEVE FORMAT - USE RTT9321234567890"
	retrieveFFUsage     = "INVALID RETRIEVE FORMAT - USE RTMVS12345678"
)

// ParseRetrieve handles RT (current), RT<locator> and RT/<last>[/<first>].
func ParseRetrieve(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimPrefix(cmd, VerbRetrieve)

	if body == "" {
		return RetrieveRequest{Mode: RetrieveCurrent}, nil
	}

	if strings.HasPrefix(body, "/") {
		parts := strings.Split(body[1:], "/")
		if len(parts) < 1 || len(parts) > 2 || parts[0] == "" {
			return nil, apperrors.Parse(retrieveUsage)
		}
		req := RetrieveRequest{Mode: RetrieveByName, LastName: parts[0]}
		if len(parts) == 2 {
			if parts[1] == "" {
				return nil, apperrors.Parse(retrieveUsage)
			}
			req.FirstName = parts[1]
		}
		return req, nil
	}

	if !validLocator(body) {
		return nil, apperrors.Parse(retrieveUsage)
	}
	return RetrieveRequest{Mode: RetrieveByLocator, Locator: body}, nil
}

// ParseRetrieveByFlight handles RTF<flight>/<date>.
func ParseRetrieveByFlight(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimPrefix(cmd, VerbRetrieveFlight)

	parts := strings.Split(body, "/")
	if len(parts) != 2 || !validFlightNumber(parts[0]) {
		return nil, apperrors.Parse(retrieveFlightUsage)
	}
	date, ok := ParseDayMonth(parts[1])
	if !ok {
		return nil, apperrors.Parse(retrieveFlightUsage)
	}
	return RetrieveByFlightRequest{FlightNumber: parts[0], Date: date}, nil
}

// ParseRetrieveByPhone handles RTP<phone>.
func ParseRetrieveByPhone(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	phone := strings.TrimPrefix(cmd, VerbRetrievePhone)
	if len(phone) < 6 {
		return nil, apperrors.Parse(retrievePhoneUsage)
	}
	return RetrieveByPhoneRequest{Phone: phone}, nil
}

// ParseRetrieveByTicket handles RTT<13-digit ticket number>.
func ParseRetrieveByTicket(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	number := strings.TrimPrefix(cmd, VerbRetrieveTicket)
	if len(number) != 13 || !allDigits(number) {
		return nil, apperrors.Parse(retrieveTicketUsage)
	}
	return RetrieveByTicketRequest{TicketNumber: number}, nil
}

// ParseRetrieveByFrequentFlyer handles RTM<ff number>.
func ParseRetrieveByFrequentFlyer(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	ff := strings.TrimPrefix(cmd, VerbRetrieveFF)
	if len(ff) < 4 {
		return nil, apperrors.Parse(retrieveFFUsage)
	}
	return RetrieveByFrequentFlyerRequest{FrequentFlyer: ff}, nil
}

func validLocator(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '2' || c > '9') {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
