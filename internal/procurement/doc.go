// Package procurement turns merged upstream items into the canonical,
// filtered and link-enriched result returned to callers.
//
// The flow for one search is: resolve the date window, fetch pages through
// a Fetcher, merge the envelopes, map each raw item with the per-kind field
// chains, apply the keyword filter, resolve links and amounts, and cap the
// output. Nothing is shared between searches.
package procurement
