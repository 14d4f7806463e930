package leadcsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEmptyFile(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n\r\n  \n"))
}

func TestParseNormalizesHeader(t *testing.T) {
	rows := Parse("Ad ID,Campaign Name\n123,Verano Kids\n")
	assert.Len(t, rows, 1)
	assert.Equal(t, "123", rows[0]["ad_id"])
	assert.Equal(t, "Verano Kids", rows[0]["campaign_name"])
}

func TestParseQuotedComma(t *testing.T) {
	rows := Parse("id,name,email\n1,\"Smith, John\",john@example.com\n")
	assert.Len(t, rows, 1)
	assert.Equal(t, "Smith, John", rows[0]["name"])
	assert.Equal(t, "john@example.com", rows[0]["email"])
}

func TestParseRaggedRows(t *testing.T) {
	rows := Parse("id,name,email\n1,Ana\n2,Luis,luis@example.com,extra\n")
	assert.Len(t, rows, 2)

	_, ok := rows[0]["email"]
	assert.False(t, ok, "missing trailing cell stays absent")

	assert.Equal(t, "luis@example.com", rows[1]["email"], "cells beyond the header are dropped")
}

func TestParseCRLFAndBlankLines(t *testing.T) {
	rows := Parse("id,name\r\n1,Ana\r\n\r\n2,Luis\r\n")
	assert.Len(t, rows, 2)
	assert.Equal(t, "Luis", rows[1]["name"])
}

func TestParseAccentedSpanishHeader(t *testing.T) {
	rows := Parse("ID,¿Qué edad tiene tu peque?,¿Cuál es el club de tu interés?\nl:1,7,Midtown\n")
	assert.Len(t, rows, 1)
	assert.Equal(t, "7", rows[0]["que_edad_tiene_tu_peque"])
	assert.Equal(t, "Midtown", rows[0]["cual_es_el_club_de_tu_interes"])
}
