package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-dEf_123", id)

	id, err = extractSpreadsheetID("1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms")
	require.NoError(t, err)
	assert.Equal(t, "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", id)

	_, err = extractSpreadsheetID("https://example.com/not-a-sheet")
	assert.Error(t, err)

	_, err = extractSpreadsheetID("")
	assert.Error(t, err)
}

func TestColumnRange(t *testing.T) {
	assert.Equal(t, "Line_Items!A:L", columnRange("Line_Items", 12, 0))
	assert.Equal(t, "Entries!A1:M1", columnRange("Entries", 13, 1))
	assert.Equal(t, "S!A:AB", columnRange("S", 28, 0))
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", columnName(0))
	assert.Equal(t, "Z", columnName(26))
	assert.Equal(t, "AA", columnName(27))
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CREDENTIALS", `{"type":"service_account"}`)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	creds, err := loadCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(creds))

	t.Setenv("GOOGLE_CREDENTIALS", "")
	_, err = loadCredentials()
	assert.Error(t, err)
}
