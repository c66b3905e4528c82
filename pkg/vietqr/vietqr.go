// Package vietqr derives the payment reference and VietQR image URL used to
// correlate a manual bank transfer with an internal deposit request. Both
// formats must stay bit-exact: the operator reconciles incoming transfers
// against them by string match.
package vietqr

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

const referencePrefix = "NAP-"

// Reference returns the transfer memo for a deposit request.
func Reference(requestID uuid.UUID) string {
	return referencePrefix + requestID.String()
}

// ImageURL builds the VietQR quick-link image for a transfer into the
// platform's custodial account. amount is in minor currency units.
func ImageURL(bankBIN, accountNumber string, amount int64, reference string) string {
	return fmt.Sprintf(
		"https://img.vietqr.io/image/%s-%s-compact2.png?amount=%d&addInfo=%s",
		bankBIN, accountNumber, amount, url.QueryEscape(reference),
	)
}
