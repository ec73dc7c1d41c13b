package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRowsReadsHeaderOrder(t *testing.T) {
	csv := "id,genre_id,title_id\n1,5,10\n2,6,10\n"

	rows, err := parseRows(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, int64(5), rows[0].GenreID)
	assert.Equal(t, int64(10), rows[0].TitleID)
	assert.Equal(t, int64(6), rows[1].GenreID)
}

func TestParseRowsMissingColumnFails(t *testing.T) {
	csv := "id,genre_id\n1,5\n"

	_, err := parseRows(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title_id")
}

func TestParseRowsMalformedValueFails(t *testing.T) {
	csv := "id,title_id,genre_id\n1,ten,5\n"

	_, err := parseRows(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParseRowsEmptyFileHasNoRows(t *testing.T) {
	csv := "id,title_id,genre_id\n"

	rows, err := parseRows(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
