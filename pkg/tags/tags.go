package tags

import "strings"

// Alphabet is the set of characters a tryte string may contain.
const Alphabet = "9ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TagLength is the fixed width of a transaction tag on the feed.
const TagLength = 27

// MaxPrefixLength is the longest marketplace prefix that leaves room for
// every kind code within a full-width tag.
var MaxPrefixLength = TagLength - longestKindCode()

func longestKindCode() int {
	longest := 0
	for _, code := range kindCodes {
		if len(code) > longest {
			longest = len(code)
		}
	}
	return longest
}

// Kind identifies the marketplace message kind encoded in a tag.
type Kind int

const (
	// KindUnknown is the zero value and never classifies.
	KindUnknown Kind = iota

	// KindProposal is a new trade proposal.
	KindProposal

	// KindAccept accepts a previously published proposal.
	KindAccept

	// KindReject rejects a previously published proposal.
	KindReject

	// KindDelivery announces delivery of the traded goods.
	KindDelivery

	// KindInvoice requests payment for a completed delivery.
	KindInvoice

	// KindPaid confirms payment of an invoice.
	KindPaid

	// KindCancel withdraws a proposal before acceptance.
	KindCancel
)

// kindCodes maps each kind to its registered trytes code. Codes are chosen
// so that no code is a suffix of another; Classify depends on that.
var kindCodes = map[Kind]string{
	KindProposal: "PROPSL",
	KindAccept:   "ACCPT",
	KindReject:   "RJCT",
	KindDelivery: "DLVRY",
	KindInvoice:  "INVC",
	KindPaid:     "PAID",
	KindCancel:   "CNCL",
}

var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindProposal: "proposal",
	KindAccept:   "accept",
	KindReject:   "reject",
	KindDelivery: "delivery",
	KindInvoice:  "invoice",
	KindPaid:     "paid",
	KindCancel:   "cancel",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Code returns the trytes code for the kind, or "" for KindUnknown.
func (k Kind) Code() string {
	return kindCodes[k]
}

// Kinds returns all classifiable kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindProposal,
		KindAccept,
		KindReject,
		KindDelivery,
		KindInvoice,
		KindPaid,
		KindCancel,
	}
}

// Valid reports whether s consists only of tryte characters.
func Valid(s string) bool {
	for _, r := range s {
		if r != '9' && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Classify maps a transaction tag to its message kind. The trailing '9'
// padding is ignored. A tag that is not valid trytes, or whose unpadded
// portion does not end in a registered kind code, yields (KindUnknown, false).
func Classify(tag string) (Kind, bool) {
	if tag == "" || !Valid(tag) {
		return KindUnknown, false
	}

	trimmed := strings.TrimRight(tag, "9")
	for kind, code := range kindCodes {
		if strings.HasSuffix(trimmed, code) {
			return kind, true
		}
	}

	return KindUnknown, false
}

// New builds a full-width tag from a marketplace prefix and a message kind,
// padding with '9' to TagLength. The prefix must be at most MaxPrefixLength
// characters; a longer prefix is truncated to make room, so the kind code is
// always intact and the result always classifies back to kind.
func New(prefix string, kind Kind) string {
	code := kindCodes[kind]
	if room := TagLength - len(code); len(prefix) > room {
		prefix = prefix[:room]
	}
	tag := prefix + code
	return tag + strings.Repeat("9", TagLength-len(tag))
}
