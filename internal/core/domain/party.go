package domain

import (
	"regexp"
	"strings"
)

// Special party labels for institutional document types.
const (
	// PartyGovernment marks propositions, which originate from the executive.
	PartyGovernment = "Regeringen"

	// PartyCommittee marks decisions, which are institutional, not partisan.
	PartyCommittee = "Utskottet"

	// PartyUnknown is the placeholder when no attribution succeeds.
	PartyUnknown = "-"
)

// KnownParties are the party codes currently represented in the chamber.
func KnownParties() []string {
	return []string{"S", "M", "SD", "C", "V", "KD", "L", "MP"}
}

// partyCode matches a parenthesised one-or-two-letter party code,
// e.g. "av Jane Doe (C)" or "Anna Andersson (SD)".
var partyCode = regexp.MustCompile(`\(([A-Z]{1,2})\)`)

// AttributeParty resolves the party label for a document.
//
// Precedence, first match wins:
//  1. decisions are always attributed to the committee
//  2. propositions are always attributed to the government
//  3. an explicit non-placeholder party field from the listing
//  4. a parenthesised party code found in subtitle+title
//  5. the unknown placeholder
//
// Institutional document types override any incidentally-present party
// field, so a decision listing a rapporteur's party still resolves to
// the committee.
func AttributeParty(category Category, party, title, subtitle string) string {
	switch category {
	case CategoryDecision:
		return PartyCommittee
	case CategoryProposition:
		return PartyGovernment
	}

	party = strings.TrimSpace(party)
	if party != "" && party != PartyUnknown {
		return strings.ToUpper(party)
	}

	if match := partyCode.FindStringSubmatch(subtitle + " " + title); match != nil {
		return match[1]
	}

	return PartyUnknown
}
