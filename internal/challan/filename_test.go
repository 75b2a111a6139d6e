package challan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		value, fallback, want string
	}{
		{"Acme & Co. #5", "customer", "Acme__Co_5"},
		{"", "customer", "customer"},
		{"  spaced   out  ", "x", "spaced_out"},
		{"__edge__", "x", "edge"},
		{"&&&", "customer", "customer"},
		{"&&&", "", "file"},
		{"&&&", "###", "file"},
		{"Shree-Ganesh_Traders", "x", "Shree-Ganesh_Traders"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.value, tc.fallback), "value %q", tc.value)
	}
}

func TestInvoiceFilename(t *testing.T) {
	assert.Equal(t, "000042_Test_Co.pdf", InvoiceFilename("000042", "Test Co"))
	assert.Equal(t, "invoice_customer.pdf", InvoiceFilename("", ""))
	assert.Equal(t, "000007_Acme__Co_5.pdf", InvoiceFilename("000007", "Acme & Co. #5"))
}
