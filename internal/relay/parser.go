package relay

import (
	"fmt"
	"strconv"
	"strings"
)

// Feed line field positions. The upstream protocol is positional: changing
// any of these is a breaking compatibility change.
const (
	fieldTopic     = 0
	fieldHash      = 1
	fieldAddress   = 2
	fieldTimestamp = 5
	fieldBundle    = 8
	fieldTag       = 12

	// minFeedFields is the minimum field count for a valid line; the tag
	// at position 12 is the last field the relay reads.
	minFeedFields = 13
)

// feedLine is a parsed feed message with the fields the relay routes on.
// Parsing validates field count and types once, up front, so routing never
// touches an unchecked index.
type feedLine struct {
	Topic     string
	Hash      string
	Address   string
	Timestamp int64
	Bundle    string
	Tag       string
}

// parseFeedLine splits a raw feed message on single spaces and extracts the
// routed fields. Malformed input is a hard error, never a partial result.
func parseFeedLine(raw []byte) (feedLine, error) {
	fields := strings.Split(string(raw), " ")
	if len(fields) < minFeedFields {
		return feedLine{}, fmt.Errorf("feed line has %d fields, need at least %d", len(fields), minFeedFields)
	}

	timestamp, err := strconv.ParseInt(fields[fieldTimestamp], 10, 64)
	if err != nil {
		return feedLine{}, fmt.Errorf("feed line has invalid timestamp %q: %w", fields[fieldTimestamp], err)
	}

	return feedLine{
		Topic:     fields[fieldTopic],
		Hash:      fields[fieldHash],
		Address:   fields[fieldAddress],
		Timestamp: timestamp,
		Bundle:    fields[fieldBundle],
		Tag:       fields[fieldTag],
	}, nil
}
