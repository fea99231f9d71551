package gedcom

import (
	"github.com/oxidgene/oxidgene/internal/domain"
)

// Tag tables shared by the importer and the exporter. Every mapping is
// bidirectional so that an exported file re-imports to the same entities.

var individualEventTags = map[string]domain.EventType{
	"BIRT": domain.EventTypeBirth,
	"DEAT": domain.EventTypeDeath,
	"BAPM": domain.EventTypeBaptism,
	"BURI": domain.EventTypeBurial,
	"CREM": domain.EventTypeCremation,
	"GRAD": domain.EventTypeGraduation,
	"IMMI": domain.EventTypeImmigration,
	"EMIG": domain.EventTypeEmigration,
	"NATU": domain.EventTypeNaturalization,
	"CENS": domain.EventTypeCensus,
	"OCCU": domain.EventTypeOccupation,
	"RESI": domain.EventTypeResidence,
	"RETI": domain.EventTypeRetirement,
	"WILL": domain.EventTypeWill,
	"PROB": domain.EventTypeProbate,
	"EVEN": domain.EventTypeOther,
}

var familyEventTags = map[string]domain.EventType{
	"MARR": domain.EventTypeMarriage,
	"DIV":  domain.EventTypeDivorce,
	"ANUL": domain.EventTypeAnnulment,
	"ENGA": domain.EventTypeEngagement,
	"MARB": domain.EventTypeMarriageBann,
	"MARC": domain.EventTypeMarriageContract,
	"MARL": domain.EventTypeMarriageLicense,
	"MARS": domain.EventTypeMarriageSettlement,
	"EVEN": domain.EventTypeOther,
}

var eventTypeTags = map[domain.EventType]string{
	domain.EventTypeBirth:              "BIRT",
	domain.EventTypeDeath:              "DEAT",
	domain.EventTypeBaptism:            "BAPM",
	domain.EventTypeBurial:             "BURI",
	domain.EventTypeCremation:          "CREM",
	domain.EventTypeGraduation:         "GRAD",
	domain.EventTypeImmigration:        "IMMI",
	domain.EventTypeEmigration:         "EMIG",
	domain.EventTypeNaturalization:     "NATU",
	domain.EventTypeCensus:             "CENS",
	domain.EventTypeOccupation:         "OCCU",
	domain.EventTypeResidence:          "RESI",
	domain.EventTypeRetirement:         "RETI",
	domain.EventTypeWill:               "WILL",
	domain.EventTypeProbate:            "PROB",
	domain.EventTypeMarriage:           "MARR",
	domain.EventTypeDivorce:            "DIV",
	domain.EventTypeAnnulment:          "ANUL",
	domain.EventTypeEngagement:         "ENGA",
	domain.EventTypeMarriageBann:       "MARB",
	domain.EventTypeMarriageContract:   "MARC",
	domain.EventTypeMarriageLicense:    "MARL",
	domain.EventTypeMarriageSettlement: "MARS",
	domain.EventTypeOther:              "EVEN",
}

var nameTypeTokens = map[string]domain.NameType{
	"birth":        domain.NameTypeBirth,
	"married":      domain.NameTypeMarried,
	"aka":          domain.NameTypeAlsoKnownAs,
	"nickname":     domain.NameTypeNickname,
	"aristocratic": domain.NameTypeAristocratic,
	"religious":    domain.NameTypeReligious,
	"other":        domain.NameTypeOther,
}

var nameTypeValues = map[domain.NameType]string{
	domain.NameTypeMarried:      "married",
	domain.NameTypeAlsoKnownAs:  "aka",
	domain.NameTypeNickname:     "nickname",
	domain.NameTypeAristocratic: "aristocratic",
	domain.NameTypeReligious:    "religious",
	domain.NameTypeOther:        "other",
	// birth is the default and carries no TYPE line
}

var pedigreeTokens = map[string]domain.ChildType{
	"birth":   domain.ChildTypeBiological,
	"adopted": domain.ChildTypeAdopted,
	"foster":  domain.ChildTypeFoster,
	"sealing": domain.ChildTypeSealed,
	"step":    domain.ChildTypeStep,
}

var pedigreeValues = map[domain.ChildType]string{
	domain.ChildTypeAdopted: "adopted",
	domain.ChildTypeFoster:  "foster",
	domain.ChildTypeSealed:  "sealing",
	domain.ChildTypeStep:    "step",
	// biological is the default and carries no PEDI line; unknown is
	// reported as a warning because it re-imports as biological
}

func sexFromGedcom(value string) domain.Sex {
	switch value {
	case "M":
		return domain.SexMale
	case "F":
		return domain.SexFemale
	default:
		return domain.SexUnknown
	}
}

func sexToGedcom(sex domain.Sex) (string, bool) {
	switch sex {
	case domain.SexMale:
		return "M", true
	case domain.SexFemale:
		return "F", true
	case domain.SexUnknown:
		return "U", true
	default:
		return "U", false // "other" has no GEDCOM 5.5.1 value
	}
}

// QUAY certainty values 0..3 map onto the four confidence levels.
func confidenceFromQuay(value string) (domain.Confidence, bool) {
	switch value {
	case "0":
		return domain.ConfidenceVeryLow, true
	case "1":
		return domain.ConfidenceLow, true
	case "2":
		return domain.ConfidenceNormal, true
	case "3":
		return domain.ConfidenceHigh, true
	default:
		return domain.ConfidenceNormal, false
	}
}

func confidenceToQuay(confidence domain.Confidence) string {
	switch confidence {
	case domain.ConfidenceVeryLow:
		return "0"
	case domain.ConfidenceLow:
		return "1"
	case domain.ConfidenceHigh:
		return "3"
	default:
		return "2"
	}
}

func isXref(value string) bool {
	return len(value) > 2 && value[0] == '@' && value[len(value)-1] == '@'
}
