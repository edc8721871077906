package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

func TestResolveAvailability(t *testing.T) {
	registry := NewRegistry()

	t.Run("with preferred time", func(t *testing.T) {
		req, err := registry.Resolve("AN20JUNLHRJFK/1400")
		require.NoError(t, err)

		avail, ok := req.(AvailabilityRequest)
		require.True(t, ok)
		assert.Equal(t, DayMonth{Day: 20, Month: time.June}, avail.Date)
		assert.Equal(t, "LHR", avail.Origin)
		assert.Equal(t, "JFK", avail.Destination)
		assert.Equal(t, "1400", avail.PreferredTime)
	})

	t.Run("without preferred time", func(t *testing.T) {
		req, err := registry.Resolve("AN20JUNLHRJFK")
		require.NoError(t, err)

		avail := req.(AvailabilityRequest)
		assert.Empty(t, avail.PreferredTime)
	})

	t.Run("lowercase input accepted", func(t *testing.T) {
		req, err := registry.Resolve("an20junlhrjfk/1400")
		require.NoError(t, err)
		assert.Equal(t, "LHR", req.(AvailabilityRequest).Origin)
	})

	t.Run("malformed date fails with usage hint", func(t *testing.T) {
		_, err := registry.Resolve("AN99XXXLHRJFK")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeParse, apperrors.GetCode(err))

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Contains(t, appErr.Message, "AN20JUNLHRJFK/1400")
	})

	t.Run("bad time fails", func(t *testing.T) {
		_, err := registry.Resolve("AN20JUNLHRJFK/2500")
		assert.Error(t, err)
	})

	t.Run("signed time fields fail", func(t *testing.T) {
		_, err := registry.Resolve("AN20JUNLHRJFK/-130")
		assert.Error(t, err)

		_, err = registry.Resolve("AN20JUNLHRJFK/23-5")
		assert.Error(t, err)
	})
}

func TestResolveAddName(t *testing.T) {
	registry := NewRegistry()

	t.Run("single passenger", func(t *testing.T) {
		req, err := registry.Resolve("NM1SMITH/JOHN MR")
		require.NoError(t, err)

		name := req.(AddNameRequest)
		assert.Equal(t, "SMITH", name.LastName)
		require.Len(t, name.Entries, 1)
		assert.Equal(t, "JOHN", name.Entries[0].FirstName)
		assert.Equal(t, "MR", name.Entries[0].Title)
		assert.Equal(t, model.PassengerTypeAdult, name.Entries[0].Type)
	})

	t.Run("two passengers one surname", func(t *testing.T) {
		req, err := registry.Resolve("NM2SMITH/JOHN MR/JANE MRS")
		require.NoError(t, err)

		name := req.(AddNameRequest)
		require.Len(t, name.Entries, 2)
		assert.Equal(t, "JANE", name.Entries[1].FirstName)
		assert.Equal(t, "MRS", name.Entries[1].Title)
	})

	t.Run("passenger type suffix", func(t *testing.T) {
		req, err := registry.Resolve("NM1SMITH/EMMA(CHD)")
		require.NoError(t, err)

		name := req.(AddNameRequest)
		assert.Equal(t, model.PassengerTypeChild, name.Entries[0].Type)
	})

	t.Run("count mismatch fails", func(t *testing.T) {
		_, err := registry.Resolve("NM2SMITH/JOHN MR")
		assert.Error(t, err)
	})
}

func TestResolveSellSegment(t *testing.T) {
	registry := NewRegistry()

	t.Run("valid sell", func(t *testing.T) {
		req, err := registry.Resolve("SS VS001Y20JUNLHRJFK1")
		require.NoError(t, err)

		sell := req.(SellSegmentRequest)
		assert.Equal(t, "VS001", sell.FlightNumber)
		assert.Equal(t, "Y", sell.BookingClass)
		assert.Equal(t, DayMonth{Day: 20, Month: time.June}, sell.Date)
		assert.Equal(t, "LHR", sell.Origin)
		assert.Equal(t, "JFK", sell.Destination)
		assert.Equal(t, 1, sell.Quantity)
	})

	t.Run("multi seat quantity", func(t *testing.T) {
		req, err := registry.Resolve("SS BA117J01DECLHRJFK4")
		require.NoError(t, err)
		assert.Equal(t, 4, req.(SellSegmentRequest).Quantity)
	})

	t.Run("bad flight number fails", func(t *testing.T) {
		_, err := registry.Resolve("SS V5001Y20JUNLHRJFK1")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeParse, apperrors.GetCode(err))
	})

	t.Run("zero quantity fails", func(t *testing.T) {
		_, err := registry.Resolve("SS VS001Y20JUNLHRJFK0")
		assert.Error(t, err)
	})

	t.Run("surface segment", func(t *testing.T) {
		req, err := registry.Resolve("ARNK")
		require.NoError(t, err)
		assert.IsType(t, SurfaceSegmentRequest{}, req)
	})
}

func TestResolveRetrieve(t *testing.T) {
	registry := NewRegistry()

	t.Run("current", func(t *testing.T) {
		req, err := registry.Resolve("RT")
		require.NoError(t, err)
		assert.Equal(t, RetrieveCurrent, req.(RetrieveRequest).Mode)
	})

	t.Run("by locator", func(t *testing.T) {
		req, err := registry.Resolve("RTABCDEF")
		require.NoError(t, err)

		ret := req.(RetrieveRequest)
		assert.Equal(t, RetrieveByLocator, ret.Mode)
		assert.Equal(t, "ABCDEF", ret.Locator)
	})

	t.Run("by name", func(t *testing.T) {
		req, err := registry.Resolve("RT/SMITH/JOHN")
		require.NoError(t, err)

		ret := req.(RetrieveRequest)
		assert.Equal(t, RetrieveByName, ret.Mode)
		assert.Equal(t, "SMITH", ret.LastName)
		assert.Equal(t, "JOHN", ret.FirstName)
	})

	t.Run("by flight routes to RTF not RT", func(t *testing.T) {
		req, err := registry.Resolve("RTFVS001/20JUN")
		require.NoError(t, err)

		ret := req.(RetrieveByFlightRequest)
		assert.Equal(t, "VS001", ret.FlightNumber)
	})

	t.Run("by ticket", func(t *testing.T) {
		req, err := registry.Resolve("RTT9321234567890")
		require.NoError(t, err)
		assert.Equal(t, "9321234567890", req.(RetrieveByTicketRequest).TicketNumber)
	})

	t.Run("invalid locator fails", func(t *testing.T) {
		_, err := registry.Resolve("RTAB1")
		assert.Error(t, err)
	})
}

func TestResolvePricing(t *testing.T) {
	registry := NewRegistry()

	t.Run("reprice with currency", func(t *testing.T) {
		req, err := registry.Resolve("FXP R,FC-GBP")
		require.NoError(t, err)

		pricing := req.(PricingRequest)
		assert.True(t, pricing.IsReprice)
		assert.Equal(t, "GBP", pricing.Currency)
		assert.Empty(t, pricing.SkippedOptions)
	})

	t.Run("truncated currency fails", func(t *testing.T) {
		_, err := registry.Resolve("FXP R,FC-G")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeParse, apperrors.GetCode(err))
	})

	t.Run("unknown options are skipped not fatal", func(t *testing.T) {
		req, err := registry.Resolve("FXP R,ZZ,FC-EUR")
		require.NoError(t, err)

		pricing := req.(PricingRequest)
		assert.True(t, pricing.IsReprice)
		assert.Equal(t, "EUR", pricing.Currency)
		assert.Equal(t, []string{"ZZ"}, pricing.SkippedOptions)
	})

	t.Run("bare FXP", func(t *testing.T) {
		req, err := registry.Resolve("FXP")
		require.NoError(t, err)
		assert.False(t, req.(PricingRequest).IsReprice)
	})
}

func TestResolveFormOfPayment(t *testing.T) {
	registry := NewRegistry()

	t.Run("cash", func(t *testing.T) {
		req, err := registry.Resolve("FP CASH")
		require.NoError(t, err)
		assert.Equal(t, "CASH", req.(FormOfPaymentRequest).Kind)
	})

	t.Run("credit card", func(t *testing.T) {
		req, err := registry.Resolve("FP CC VISA 4444333322221111/0627")
		require.NoError(t, err)

		fop := req.(FormOfPaymentRequest)
		assert.Equal(t, "CC", fop.Kind)
		assert.Equal(t, "VISA", fop.CardVendor)
		assert.Equal(t, "4444333322221111", fop.CardNumber)
		assert.Equal(t, "0627", fop.CardExpiry)
	})

	t.Run("card without expiry fails", func(t *testing.T) {
		_, err := registry.Resolve("FP CC VISA 4444333322221111")
		assert.Error(t, err)
	})
}

func TestResolveServiceElements(t *testing.T) {
	registry := NewRegistry()

	t.Run("ssr with associations", func(t *testing.T) {
		req, err := registry.Resolve("SR VGML/P1/S2")
		require.NoError(t, err)

		ssr := req.(AddSsrRequest)
		assert.Equal(t, "VGML", ssr.Code)
		assert.Equal(t, 1, ssr.PassengerID)
		assert.Equal(t, 2, ssr.SegmentNumber)
	})

	t.Run("ssr list routes to SR star", func(t *testing.T) {
		req, err := registry.Resolve("SR*")
		require.NoError(t, err)
		assert.IsType(t, ListSsrRequest{}, req)
	})

	t.Run("ssr delete", func(t *testing.T) {
		req, err := registry.Resolve("SRX3")
		require.NoError(t, err)
		assert.Equal(t, 3, req.(DeleteSsrRequest).Number)
	})

	t.Run("documents", func(t *testing.T) {
		req, err := registry.Resolve("SRDOCS P-GBR-123456789-GBR-12JUL85-M-20NOV30-SMITH-JOHN/P1")
		require.NoError(t, err)

		docs := req.(DocumentRequest)
		assert.Equal(t, 1, docs.PassengerID)
		assert.Equal(t, "P", docs.Document.Type)
		assert.Equal(t, "GBR", docs.Document.IssuingCountry)
		assert.Equal(t, "123456789", docs.Document.Number)
		assert.Equal(t, "SMITH", docs.Document.Surname)
		assert.Equal(t, 1985, docs.Document.DateOfBirth.Year())
		assert.Equal(t, 2030, docs.Document.ExpiryDate.Year())
	})

	t.Run("documents without passenger fails", func(t *testing.T) {
		_, err := registry.Resolve("SRDOCS P-GBR-123456789-GBR-12JUL85-M-20NOV30-SMITH-JOHN")
		assert.Error(t, err)
	})

	t.Run("osi", func(t *testing.T) {
		req, err := registry.Resolve("OS VS VIP PASSENGER")
		require.NoError(t, err)

		osi := req.(AddOsiRequest)
		assert.Equal(t, "VS", osi.Airline)
		assert.Equal(t, "VIP PASSENGER", osi.FreeText)
	})
}

func TestResolveSeatCommands(t *testing.T) {
	registry := NewRegistry()

	t.Run("assign", func(t *testing.T) {
		req, err := registry.Resolve("ST/12A/P1/S2")
		require.NoError(t, err)

		seat := req.(AssignSeatRequest)
		assert.Equal(t, "12A", seat.SeatNumber)
		assert.Equal(t, 1, seat.PassengerID)
		assert.Equal(t, 2, seat.SegmentNumber)
	})

	t.Run("release routes to STX", func(t *testing.T) {
		req, err := registry.Resolve("STX/P1/S2")
		require.NoError(t, err)
		assert.IsType(t, ReleaseSeatRequest{}, req)
	})

	t.Run("assign without segment fails", func(t *testing.T) {
		_, err := registry.Resolve("ST/12A/P1")
		assert.Error(t, err)
	})
}

func TestResolveTransactionVerbs(t *testing.T) {
	registry := NewRegistry()

	t.Run("ET commits and recalls", func(t *testing.T) {
		req, err := registry.Resolve("ET")
		require.NoError(t, err)
		assert.True(t, req.(CommitRequest).Recall)
	})

	t.Run("ER commits and clears", func(t *testing.T) {
		req, err := registry.Resolve("ER")
		require.NoError(t, err)
		assert.False(t, req.(CommitRequest).Recall)
	})

	t.Run("IG", func(t *testing.T) {
		req, err := registry.Resolve("IG")
		require.NoError(t, err)
		assert.IsType(t, IgnoreRequest{}, req)
	})

	t.Run("XE", func(t *testing.T) {
		req, err := registry.Resolve("XE2")
		require.NoError(t, err)
		assert.Equal(t, 2, req.(DeleteElementRequest).Number)
	})
}

func TestResolveRemarkKeepsCase(t *testing.T) {
	registry := NewRegistry()

	req, err := registry.Resolve("RM Customer prefers aisle seats")
	require.NoError(t, err)
	assert.Equal(t, "Customer prefers aisle seats", req.(RemarkRequest).Text)
}

func TestResolveUnknownVerb(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Resolve("ZZABC")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnknownCommand, apperrors.GetCode(err))
}

func TestParserIsPure(t *testing.T) {
	registry := NewRegistry()

	first, err := registry.Resolve("SS VS001Y20JUNLHRJFK1")
	require.NoError(t, err)
	second, err := registry.Resolve("SS VS001Y20JUNLHRJFK1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDayMonthResolve(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("future date stays this year", func(t *testing.T) {
		d := DayMonth{Day: 20, Month: time.June}
		assert.Equal(t, 2026, d.Resolve(now).Year())
	})

	t.Run("passed date rolls to next year", func(t *testing.T) {
		d := DayMonth{Day: 1, Month: time.January}
		assert.Equal(t, 2027, d.Resolve(now).Year())
	})
}
