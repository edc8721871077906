package parser

import (
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

const (
	pricingUsage = "INVALID PRICING FORMAT - USE FXP R,FC-GBP"
	fopUsage     = "INVALID PAYMENT FORMAT - USE FP CASH OR FP CC VISA 4444333322221111/0627"
)

// ParsePricing handles FXP[ <options>] with comma-separated modifiers read
// left to right: R requests a reprice, FC-XXX sets the currency (3-letter
// code required). Unrecognized options are skipped, preserving long-standing
// terminal behavior; the handler logs each one it drops.
func ParsePricing(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimSpace(strings.TrimPrefix(cmd, VerbPricing))

	req := PricingRequest{}
	if body == "" {
		return req, nil
	}

	for _, opt := range strings.Split(body, ",") {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "R":
			req.IsReprice = true
		case strings.HasPrefix(opt, "FC-"):
			code := opt[3:]
			if len(code) != 3 || !allLetters(code) {
				return nil, apperrors.Parse(pricingUsage)
			}
			req.Currency = code
		case opt != "":
			req.SkippedOptions = append(req.SkippedOptions, opt)
		}
	}
	return req, nil
}

// ParseFormOfPayment handles FP CASH, FP INV and
// FP CC <vendor> <number>/<MMYY>.
func ParseFormOfPayment(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimSpace(strings.TrimPrefix(cmd, VerbFormOfPayment))

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil, apperrors.Parse(fopUsage)
	}

	switch fields[0] {
	case "CASH", "INV":
		if len(fields) != 1 {
			return nil, apperrors.Parse(fopUsage)
		}
		return FormOfPaymentRequest{Kind: fields[0]}, nil
	case "CC":
		if len(fields) != 3 {
			return nil, apperrors.Parse(fopUsage)
		}
		card := strings.Split(fields[2], "/")
		if len(card) != 2 || !allDigits(card[0]) || len(card[1]) != 4 || !allDigits(card[1]) {
			return nil, apperrors.Parse(fopUsage)
		}
		if len(card[0]) < 13 || len(card[0]) > 19 {
			return nil, apperrors.Parse(fopUsage)
		}
		return FormOfPaymentRequest{
			Kind:       "CC",
			CardVendor: fields[1],
			CardNumber: card[0],
			CardExpiry: card[1],
		}, nil
	default:
		return nil, apperrors.Parse(fopUsage)
	}
}
