package domain

import (
	"fmt"
	"strings"
)

// Sex is the recorded sex of a person.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
	SexOther   Sex = "other"
)

// ParseSex validates raw input and returns a Sex.
func ParseSex(raw string) (Sex, error) {
	switch Sex(strings.ToLower(strings.TrimSpace(raw))) {
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	case SexUnknown:
		return SexUnknown, nil
	case SexOther:
		return SexOther, nil
	default:
		return "", fmt.Errorf("unknown sex %q", raw)
	}
}

// NameType classifies a person's name record.
type NameType string

const (
	NameTypeBirth        NameType = "birth"
	NameTypeMarried      NameType = "married"
	NameTypeAlsoKnownAs  NameType = "also_known_as"
	NameTypeNickname     NameType = "nickname"
	NameTypeAristocratic NameType = "aristocratic"
	NameTypeReligious    NameType = "religious"
	NameTypeOther        NameType = "other"
)

var nameTypes = map[NameType]struct{}{
	NameTypeBirth:        {},
	NameTypeMarried:      {},
	NameTypeAlsoKnownAs:  {},
	NameTypeNickname:     {},
	NameTypeAristocratic: {},
	NameTypeReligious:    {},
	NameTypeOther:        {},
}

// ParseNameType validates raw input and returns a NameType.
func ParseNameType(raw string) (NameType, error) {
	candidate := NameType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := nameTypes[candidate]; !ok {
		return "", fmt.Errorf("unknown name type %q", raw)
	}
	return candidate, nil
}

// SpouseRole is the role a person plays in a family union.
type SpouseRole string

const (
	SpouseRoleHusband SpouseRole = "husband"
	SpouseRoleWife    SpouseRole = "wife"
	SpouseRolePartner SpouseRole = "partner"
)

// ParseSpouseRole validates raw input and returns a SpouseRole.
func ParseSpouseRole(raw string) (SpouseRole, error) {
	switch SpouseRole(strings.ToLower(strings.TrimSpace(raw))) {
	case SpouseRoleHusband:
		return SpouseRoleHusband, nil
	case SpouseRoleWife:
		return SpouseRoleWife, nil
	case SpouseRolePartner:
		return SpouseRolePartner, nil
	default:
		return "", fmt.Errorf("unknown spouse role %q", raw)
	}
}

// ChildType is the relationship between a child and a family.
type ChildType string

const (
	ChildTypeBiological ChildType = "biological"
	ChildTypeAdopted    ChildType = "adopted"
	ChildTypeFoster     ChildType = "foster"
	ChildTypeStep       ChildType = "step"
	ChildTypeSealed     ChildType = "sealed"
	ChildTypeUnknown    ChildType = "unknown"
)

var childTypes = map[ChildType]struct{}{
	ChildTypeBiological: {},
	ChildTypeAdopted:    {},
	ChildTypeFoster:     {},
	ChildTypeStep:       {},
	ChildTypeSealed:     {},
	ChildTypeUnknown:    {},
}

// ParseChildType validates raw input and returns a ChildType.
func ParseChildType(raw string) (ChildType, error) {
	candidate := ChildType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := childTypes[candidate]; !ok {
		return "", fmt.Errorf("unknown child type %q", raw)
	}
	return candidate, nil
}

// EventType is the kind of genealogical event.
type EventType string

const (
	EventTypeBirth              EventType = "birth"
	EventTypeDeath              EventType = "death"
	EventTypeBaptism            EventType = "baptism"
	EventTypeBurial             EventType = "burial"
	EventTypeCremation          EventType = "cremation"
	EventTypeGraduation         EventType = "graduation"
	EventTypeImmigration        EventType = "immigration"
	EventTypeEmigration         EventType = "emigration"
	EventTypeNaturalization     EventType = "naturalization"
	EventTypeCensus             EventType = "census"
	EventTypeOccupation         EventType = "occupation"
	EventTypeResidence          EventType = "residence"
	EventTypeRetirement         EventType = "retirement"
	EventTypeWill               EventType = "will"
	EventTypeProbate            EventType = "probate"
	EventTypeMarriage           EventType = "marriage"
	EventTypeDivorce            EventType = "divorce"
	EventTypeAnnulment          EventType = "annulment"
	EventTypeEngagement         EventType = "engagement"
	EventTypeMarriageBann       EventType = "marriage_bann"
	EventTypeMarriageContract   EventType = "marriage_contract"
	EventTypeMarriageLicense    EventType = "marriage_license"
	EventTypeMarriageSettlement EventType = "marriage_settlement"
	EventTypeOther              EventType = "other"
)

var individualEventTypes = map[EventType]struct{}{
	EventTypeBirth:          {},
	EventTypeDeath:          {},
	EventTypeBaptism:        {},
	EventTypeBurial:         {},
	EventTypeCremation:      {},
	EventTypeGraduation:     {},
	EventTypeImmigration:    {},
	EventTypeEmigration:     {},
	EventTypeNaturalization: {},
	EventTypeCensus:         {},
	EventTypeOccupation:     {},
	EventTypeResidence:      {},
	EventTypeRetirement:     {},
	EventTypeWill:           {},
	EventTypeProbate:        {},
}

var familyEventTypes = map[EventType]struct{}{
	EventTypeMarriage:           {},
	EventTypeDivorce:            {},
	EventTypeAnnulment:          {},
	EventTypeEngagement:         {},
	EventTypeMarriageBann:       {},
	EventTypeMarriageContract:   {},
	EventTypeMarriageLicense:    {},
	EventTypeMarriageSettlement: {},
}

// IsIndividual reports whether the event type applies to a single person.
func (t EventType) IsIndividual() bool {
	_, ok := individualEventTypes[t]
	return ok
}

// IsFamily reports whether the event type applies to a family.
func (t EventType) IsFamily() bool {
	_, ok := familyEventTypes[t]
	return ok
}

// ParseEventType validates raw input and returns an EventType.
func ParseEventType(raw string) (EventType, error) {
	candidate := EventType(strings.ToLower(strings.TrimSpace(raw)))
	if candidate == EventTypeOther {
		return candidate, nil
	}
	if _, ok := individualEventTypes[candidate]; ok {
		return candidate, nil
	}
	if _, ok := familyEventTypes[candidate]; ok {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown event type %q", raw)
}

// Confidence grades how reliable a citation is. The four levels map one to
// one onto GEDCOM QUAY values 0 through 3.
type Confidence string

const (
	ConfidenceVeryLow Confidence = "very_low"
	ConfidenceLow     Confidence = "low"
	ConfidenceNormal  Confidence = "normal"
	ConfidenceHigh    Confidence = "high"
)

// ParseConfidence validates raw input and returns a Confidence.
func ParseConfidence(raw string) (Confidence, error) {
	switch Confidence(strings.ToLower(strings.TrimSpace(raw))) {
	case ConfidenceVeryLow:
		return ConfidenceVeryLow, nil
	case ConfidenceLow:
		return ConfidenceLow, nil
	case ConfidenceNormal:
		return ConfidenceNormal, nil
	case ConfidenceHigh:
		return ConfidenceHigh, nil
	default:
		return "", fmt.Errorf("unknown confidence %q", raw)
	}
}
