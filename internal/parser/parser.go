// Package parser turns raw cryptic terminal commands into typed requests.
//
// The registry is a closed dispatch table built once at startup: command
// verb -> parse function -> request variant. Parse functions are pure; the
// same input always yields the same request or the same error, and every
// failure carries the command's usage string.
package parser

import (
	"sort"
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

// Command verbs. Resolution is longest-prefix-first, so e.g. SRDOCS wins
// over SRX which wins over SR.
const (
	VerbAvailability    = "AN"
	VerbAddName         = "NM"
	VerbSellSegment     = "SS"
	VerbSurfaceSegment  = "ARNK"
	VerbRetrieve        = "RT"
	VerbRetrieveFlight  = "RTF"
	VerbRetrievePhone   = "RTP"
	VerbRetrieveTicket  = "RTT"
	VerbRetrieveFF      = "RTM"
	VerbContactPhone    = "AP"
	VerbContactEmail    = "APE"
	VerbAgency          = "AAA"
	VerbRemark          = "RM"
	VerbAddSsr          = "SR"
	VerbListSsr         = "SR*"
	VerbDeleteSsr       = "SRX"
	VerbDocuments       = "SRDOCS"
	VerbAddOsi          = "OS"
	VerbAssignSeat      = "ST"
	VerbReleaseSeat     = "STX"
	VerbPricing         = "FXP"
	VerbFormOfPayment   = "FP"
	VerbIssueTickets    = "TTP"
	VerbCheckIn         = "CKIN"
	VerbTimeLimit       = "TKTL"
	VerbDeleteElement   = "XE"
	VerbCancelItinerary = "XI"
	VerbCommit          = "ET"
	VerbCommitClear     = "ER"
	VerbIgnore          = "IG"
)

// ParseFunc turns a raw command into its request variant.
type ParseFunc func(raw string) (Request, error)

// Registry maps command verbs to parse functions. Built once; read-only
// afterwards, safe for concurrent dispatch.
type Registry struct {
	parsers map[string]ParseFunc
	verbs   []string // sorted longest first for prefix resolution
}

func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]ParseFunc)}

	r.register(VerbAvailability, ParseAvailability)
	r.register(VerbAddName, ParseAddName)
	r.register(VerbSellSegment, ParseSellSegment)
	r.register(VerbSurfaceSegment, ParseSurfaceSegment)
	r.register(VerbRetrieve, ParseRetrieve)
	r.register(VerbRetrieveFlight, ParseRetrieveByFlight)
	r.register(VerbRetrievePhone, ParseRetrieveByPhone)
	r.register(VerbRetrieveTicket, ParseRetrieveByTicket)
	r.register(VerbRetrieveFF, ParseRetrieveByFrequentFlyer)
	r.register(VerbContactPhone, ParseContactPhone)
	r.register(VerbContactEmail, ParseContactEmail)
	r.register(VerbAgency, ParseAgency)
	r.register(VerbRemark, ParseRemark)
	r.register(VerbAddSsr, ParseAddSsr)
	r.register(VerbListSsr, ParseListSsr)
	r.register(VerbDeleteSsr, ParseDeleteSsr)
	r.register(VerbDocuments, ParseDocuments)
	r.register(VerbAddOsi, ParseAddOsi)
	r.register(VerbAssignSeat, ParseAssignSeat)
	r.register(VerbReleaseSeat, ParseReleaseSeat)
	r.register(VerbPricing, ParsePricing)
	r.register(VerbFormOfPayment, ParseFormOfPayment)
	r.register(VerbIssueTickets, ParseIssueTickets)
	r.register(VerbCheckIn, ParseCheckIn)
	r.register(VerbTimeLimit, ParseTimeLimit)
	r.register(VerbDeleteElement, ParseDeleteElement)
	r.register(VerbCancelItinerary, ParseCancelItinerary)
	r.register(VerbCommit, ParseCommit)
	r.register(VerbCommitClear, ParseCommitClear)
	r.register(VerbIgnore, ParseIgnore)

	return r
}

func (r *Registry) register(verb string, fn ParseFunc) {
	r.parsers[verb] = fn
	r.verbs = append(r.verbs, verb)
	sort.Slice(r.verbs, func(i, j int) bool {
		if len(r.verbs[i]) != len(r.verbs[j]) {
			return len(r.verbs[i]) > len(r.verbs[j])
		}
		return r.verbs[i] < r.verbs[j]
	})
}

// Parser returns the parse function registered for a verb.
func (r *Registry) Parser(verb string) (ParseFunc, error) {
	fn, ok := r.parsers[verb]
	if !ok {
		return nil, apperrors.UnknownCommand(verb)
	}
	return fn, nil
}

// Resolve finds the verb for a raw command and parses it. The command's
// free-text tail keeps its original case; only the verb match is
// case-insensitive.
func (r *Registry) Resolve(raw string) (Request, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, apperrors.UnknownCommand("")
	}
	upper := strings.ToUpper(trimmed)
	for _, verb := range r.verbs {
		if strings.HasPrefix(upper, verb) {
			return r.parsers[verb](trimmed)
		}
	}
	head := upper
	if len(head) > 6 {
		head = head[:6]
	}
	return nil, apperrors.UnknownCommand(head)
}
