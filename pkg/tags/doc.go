// Package tags classifies transaction tags into marketplace message kinds.
//
// Every transaction on the feed carries a fixed-width trytes tag. Marketplace
// participants build their tags as a shared prefix followed by one of the
// registered kind codes, padded out with '9' to the full tag width:
//
//	MKT9PLAZAPROPSL999999999999
//	^prefix   ^code   ^padding
//
// Classification is a pure lookup against the registered codes and never
// fails in any way other than "no match". The prefix itself is not
// interpreted here; callers that only want their own marketplace's traffic
// check the prefix separately.
package tags
