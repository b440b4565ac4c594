package ical

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ClassKind is the access classification of an event.
type ClassKind uint8

const (
	ClassUnset ClassKind = iota
	ClassPublic
	ClassPrivate
	ClassConfidential
)

func (k ClassKind) String() string {
	switch k {
	case ClassPublic:
		return "PUBLIC"
	case ClassPrivate:
		return "PRIVATE"
	case ClassConfidential:
		return "CONFIDENTIAL"
	default:
		return ""
	}
}

// Class is either one of the three calendar-defined values or an
// extension/IANA token. An extension token is always treated as PRIVATE for
// access purposes while the token itself is kept for output.
type Class struct {
	kind      ClassKind
	extension string
}

// Build a Class from free text. The text is upper-cased before matching.
func ParseClass(text string) Class {
	upper := toUpper(text)
	switch upper {
	case "PUBLIC":
		return Class{kind: ClassPublic}
	case "PRIVATE":
		return Class{kind: ClassPrivate}
	case "CONFIDENTIAL":
		return Class{kind: ClassConfidential}
	default:
		return Class{kind: ClassPrivate, extension: upper}
	}
}

// Get the access classification
func (c Class) Kind() ClassKind {
	return c.kind
}

// Get the extension token, if the class isn't one of the known values
func (c Class) Extension() (string, bool) {
	return c.extension, c.extension != ""
}

func (c Class) IsSet() bool {
	return c.kind != ClassUnset
}

// The value written after "CLASS:"
func (c Class) String() string {
	if c.extension != "" {
		return c.extension
	}
	return c.kind.String()
}

// cases.Caser isn't safe for concurrent use, so build one per call.
func toUpper(text string) string {
	return cases.Upper(language.Und).String(text)
}
