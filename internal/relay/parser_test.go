package relay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedLine(t *testing.T) {
	t.Run("valid_line", func(t *testing.T) {
		raw := "tx HASH ADDR 0 OBSOLETE 1700000005 0 3 BUNDLE TRUNK BRANCH 1700000006 TAG99"

		line, err := parseFeedLine([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "tx", line.Topic)
		assert.Equal(t, "HASH", line.Hash)
		assert.Equal(t, "ADDR", line.Address)
		assert.Equal(t, int64(1700000005), line.Timestamp)
		assert.Equal(t, "BUNDLE", line.Bundle)
		assert.Equal(t, "TAG99", line.Tag)
	})

	t.Run("extra_fields_ignored", func(t *testing.T) {
		raw := "tx HASH ADDR 0 OBSOLETE 1700000005 0 3 BUNDLE TRUNK BRANCH 1700000006 TAG99 EXTRA FIELDS"

		line, err := parseFeedLine([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "TAG99", line.Tag)
	})

	t.Run("too_few_fields", func(t *testing.T) {
		raw := "tx HASH ADDR 0 OBSOLETE 1700000005 0 3 BUNDLE TRUNK BRANCH 1700000006"

		_, err := parseFeedLine([]byte(raw))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "12 fields")
	})

	t.Run("empty_input", func(t *testing.T) {
		_, err := parseFeedLine(nil)
		assert.Error(t, err)
	})

	t.Run("bad_timestamp", func(t *testing.T) {
		raw := "tx HASH ADDR 0 OBSOLETE NOTANUMBER 0 3 BUNDLE TRUNK BRANCH 1700000006 TAG99"

		_, err := parseFeedLine([]byte(raw))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid timestamp")
	})

	t.Run("single_space_separator_only", func(t *testing.T) {
		// Double spaces produce empty fields; position 5 is then not the
		// timestamp and the line must be rejected, not reinterpreted.
		raw := strings.ReplaceAll("tx HASH ADDR 0 OBSOLETE 1700000005 0 3 BUNDLE TRUNK BRANCH 1700000006 TAG99", " ", "  ")

		_, err := parseFeedLine([]byte(raw))
		assert.Error(t, err)
	})
}
