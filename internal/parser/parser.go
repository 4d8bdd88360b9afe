// Package parser locates and decodes structured JSON fragments embedded in
// free-text model responses.
//
// Extraction models are prompted to answer with JSON but routinely wrap it
// in prose or markdown fences. The locators take the widest fragment between
// the first opening and last closing bracket, which tolerates fences and
// preamble while still failing cleanly when no fragment exists.
package parser

import (
	"encoding/json"
	"regexp"
)

var (
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
	arrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// LocateObject returns the first-to-last-brace JSON object fragment in text.
func LocateObject(text string) ([]byte, bool) {
	m := objectRe.FindString(text)
	if m == "" {
		return nil, false
	}
	return []byte(m), true
}

// LocateArray returns the first-to-last-bracket JSON array fragment in text.
func LocateArray(text string) ([]byte, bool) {
	m := arrayRe.FindString(text)
	if m == "" {
		return nil, false
	}
	return []byte(m), true
}

// DecodeObject locates a JSON object in text and unmarshals it into target.
// A missing fragment and a fragment that does not match target's shape are
// both reported as false; there is no partial credit.
func DecodeObject(text string, target any) bool {
	frag, ok := LocateObject(text)
	if !ok {
		return false
	}
	return json.Unmarshal(frag, target) == nil
}

// DecodeArray locates a JSON array in text and unmarshals it into target.
func DecodeArray(text string, target any) bool {
	frag, ok := LocateArray(text)
	if !ok {
		return false
	}
	return json.Unmarshal(frag, target) == nil
}
