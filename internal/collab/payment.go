package collab

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

// LocalPaymentGateway authorizes forms of payment without an acquirer.
// Cash and invoice always authorize; cards get a basic Luhn check so a
// mistyped number fails before ticketing.
type LocalPaymentGateway struct{}

func NewLocalPaymentGateway() *LocalPaymentGateway {
	return &LocalPaymentGateway{}
}

func (g *LocalPaymentGateway) Authorize(ctx context.Context, fop model.FormOfPayment, amount float64, currency string) (string, error) {
	if amount <= 0 {
		return "", apperrors.ValidationError("NOTHING TO AUTHORIZE")
	}

	switch fop.Kind {
	case "CASH", "INV":
		// Settled outside the gateway.
	case "CC":
		if !luhnValid(fop.CardNumber) {
			return "", apperrors.Collaborator("payment-gateway",
				fmt.Errorf("card number failed check digit"))
		}
	default:
		return "", apperrors.ValidationError(fmt.Sprintf("UNSUPPORTED FORM OF PAYMENT %s", fop.Kind))
	}

	authCode := strings.ToUpper(uuid.NewString()[:8])
	return authCode, nil
}

func luhnValid(number string) bool {
	if len(number) < 13 {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := number[i]
		if d < '0' || d > '9' {
			return false
		}
		n := int(d - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}
