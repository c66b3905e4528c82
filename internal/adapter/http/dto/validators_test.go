package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStruct_TrimsAndEscapes(t *testing.T) {
	body := &BankAccountBody{
		BankCode:      "  VCB  ",
		BankName:      "Vietcombank",
		AccountNumber: " 0123456789 ",
		HolderName:    `NGUYEN <script>alert("x")</script> VAN A`,
	}

	SanitizeStruct(body)

	assert.Equal(t, "VCB", body.BankCode)
	assert.Equal(t, "0123456789", body.AccountNumber)
	assert.NotContains(t, body.HolderName, "<script>")
	assert.Contains(t, body.HolderName, "&lt;script&gt;")
}

func TestSanitizeStruct_PointerFields(t *testing.T) {
	branch := "  Chi nhanh <b>Ha Noi</b>  "
	body := &BankAccountBody{
		BankCode:      "TCB",
		BankName:      "Techcombank",
		AccountNumber: "5566778899",
		HolderName:    "TRAN THI B",
		Branch:        &branch,
	}

	SanitizeStruct(body)

	assert.Equal(t, "Chi nhanh &lt;b&gt;Ha Noi&lt;/b&gt;", *body.Branch)
}

func TestSanitizeStruct_NilPointerIsIgnored(t *testing.T) {
	body := &BankAccountBody{
		BankCode:      "VCB",
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		HolderName:    "NGUYEN VAN A",
	}

	SanitizeStruct(body)

	assert.Nil(t, body.Branch)
}

func TestSanitizeStruct_NonPointerIsNoop(t *testing.T) {
	body := BankAccountBody{BankCode: "  VCB  "}

	SanitizeStruct(body)

	assert.Equal(t, "  VCB  ", body.BankCode)
}

func TestSanitizeStruct_RequestDescription(t *testing.T) {
	body := &CreateRequestBody{
		Type:        "DEPOSIT",
		Amount:      50000,
		Description: "  top up for <b>weekend</b>  ",
	}

	SanitizeStruct(body)

	assert.Equal(t, "top up for &lt;b&gt;weekend&lt;/b&gt;", body.Description)
}
