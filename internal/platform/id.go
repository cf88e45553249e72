package platform

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeSuffixLength = 6

func NewID() string {
	return uuid.New().String()
}

// NewCode returns a human readable document code such as
// ORC-20260114-K7Q2XM. The date part uses the given time in UTC.
func NewCode(prefix string, at time.Time) string {
	b := make([]byte, codeSuffixLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	for i := range b {
		b[i] = codeAlphabet[b[i]%byte(len(codeAlphabet))]
	}
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('-')
	sb.WriteString(at.UTC().Format("20060102"))
	sb.WriteByte('-')
	sb.Write(b)
	return sb.String()
}

// Document code prefixes.
const (
	BudgetCodePrefix  = "ORC"
	ServiceCodePrefix = "SRV"
	InvoiceCodePrefix = "FAT"
)
