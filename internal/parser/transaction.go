package parser

import (
	"strconv"
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

const (
	ticketUsage        = "INVALID TICKETING FORMAT - USE TTP"
	checkInUsage       = "INVALID CHECK-IN FORMAT - USE CKIN P1/S1"
	timeLimitUsage     = "INVALID TIME LIMIT FORMAT - USE TKTL20JUN"
	deleteElementUsage = "INVALID CANCEL FORMAT - USE XE3"
	cancelUsage        = "INVALID CANCEL FORMAT - USE XI"
	commitUsage        = "INVALID END TRANSACTION FORMAT - USE ET OR ER"
	ignoreUsage        = "INVALID IGNORE FORMAT - USE IG"
)

// ParseIssueTickets handles the bare TTP entry.
func ParseIssueTickets(raw string) (Request, error) {
	if strings.ToUpper(strings.TrimSpace(raw)) != VerbIssueTickets {
		return nil, apperrors.Parse(ticketUsage)
	}
	return IssueTicketsRequest{}, nil
}

// ParseCheckIn handles CKIN P<n>/S<n>.
func ParseCheckIn(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimSpace(strings.TrimPrefix(cmd, VerbCheckIn))

	paxID, segmentNo, err := parseAssociations(strings.Split(body, "/"), checkInUsage)
	if err != nil {
		return nil, err
	}
	if paxID == 0 || segmentNo == 0 {
		return nil, apperrors.Parse(checkInUsage)
	}
	return CheckInRequest{PassengerID: paxID, SegmentNumber: segmentNo}, nil
}

// ParseTimeLimit handles TKTL<date>.
func ParseTimeLimit(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	date, ok := ParseDayMonth(strings.TrimPrefix(cmd, VerbTimeLimit))
	if !ok {
		return nil, apperrors.Parse(timeLimitUsage)
	}
	return TimeLimitRequest{Date: date}, nil
}

// ParseDeleteElement handles XE<n>.
func ParseDeleteElement(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	number, err := strconv.Atoi(strings.TrimPrefix(cmd, VerbDeleteElement))
	if err != nil || number < 1 {
		return nil, apperrors.Parse(deleteElementUsage)
	}
	return DeleteElementRequest{Number: number}, nil
}

// ParseCancelItinerary handles the bare XI entry.
func ParseCancelItinerary(raw string) (Request, error) {
	if strings.ToUpper(strings.TrimSpace(raw)) != VerbCancelItinerary {
		return nil, apperrors.Parse(cancelUsage)
	}
	return CancelItineraryRequest{}, nil
}

// ParseCommit handles ET: commit and recall the committed state.
func ParseCommit(raw string) (Request, error) {
	if strings.ToUpper(strings.TrimSpace(raw)) != VerbCommit {
		return nil, apperrors.Parse(commitUsage)
	}
	return CommitRequest{Recall: true}, nil
}

// ParseCommitClear handles ER: commit and clear the workspace.
func ParseCommitClear(raw string) (Request, error) {
	if strings.ToUpper(strings.TrimSpace(raw)) != VerbCommitClear {
		return nil, apperrors.Parse(commitUsage)
	}
	return CommitRequest{Recall: false}, nil
}

// ParseIgnore handles IG: discard the workspace and end the session.
func ParseIgnore(raw string) (Request, error) {
	if strings.ToUpper(strings.TrimSpace(raw)) != VerbIgnore {
		return nil, apperrors.Parse(ignoreUsage)
	}
	return IgnoreRequest{}, nil
}
