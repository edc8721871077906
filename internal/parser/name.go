package parser

import (
	"strconv"
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

const nameUsage = "INVALID NAME FORMAT - USE NM1SMITH/JOHN MR"

var passengerTypes = map[string]model.PassengerType{
	"ADT": model.PassengerTypeAdult,
	"CHD": model.PassengerTypeChild,
	"INF": model.PassengerTypeInfant,
	"STU": model.PassengerTypeStudent,
	"SRC": model.PassengerTypeSenior,
	"MIL": model.PassengerTypeMilitary,
}

var nameTitles = map[string]bool{
	"MR": true, "MRS": true, "MS": true, "MISS": true,
	"MSTR": true, "DR": true, "PROF": true,
}

// ParseAddName handles NM<count><surname>/<first> [title][(TYPE)], with
// additional passengers of the same surname separated by further slashes:
// NM2SMITH/JOHN MR/JANE MRS.
func ParseAddName(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimPrefix(cmd, VerbAddName)

	if len(body) < 2 {
		return nil, apperrors.Parse(nameUsage)
	}
	count, err := strconv.Atoi(body[:1])
	if err != nil || count < 1 {
		return nil, apperrors.Parse(nameUsage)
	}

	parts := strings.Split(body[1:], "/")
	if len(parts) != count+1 {
		return nil, apperrors.Parse(nameUsage)
	}

	lastName := strings.TrimSpace(parts[0])
	if lastName == "" || strings.ContainsAny(lastName, "0123456789") {
		return nil, apperrors.Parse(nameUsage)
	}

	entries := make([]NameEntry, 0, count)
	for _, part := range parts[1:] {
		entry, ok := parseNameEntry(part)
		if !ok {
			return nil, apperrors.Parse(nameUsage)
		}
		entries = append(entries, entry)
	}

	return AddNameRequest{LastName: lastName, Entries: entries}, nil
}

func parseNameEntry(part string) (NameEntry, bool) {
	entry := NameEntry{Type: model.PassengerTypeAdult}

	part = strings.TrimSpace(part)
	if open := strings.IndexByte(part, '('); open >= 0 {
		end := strings.IndexByte(part, ')')
		if end < open {
			return NameEntry{}, false
		}
		ptype, ok := passengerTypes[part[open+1:end]]
		if !ok {
			return NameEntry{}, false
		}
		entry.Type = ptype
		part = strings.TrimSpace(part[:open])
	}

	fields := strings.Fields(part)
	switch len(fields) {
	case 1:
		entry.FirstName = fields[0]
	case 2:
		if !nameTitles[fields[1]] {
			return NameEntry{}, false
		}
		entry.FirstName = fields[0]
		entry.Title = fields[1]
	default:
		return NameEntry{}, false
	}

	if entry.FirstName == "" {
		return NameEntry{}, false
	}
	return entry, true
}
