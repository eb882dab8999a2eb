// Package extract implements selector-fallback-chain field extraction from
// job posting documents. Each target field is described by an ordered list
// of strategies (selector + extraction mode); the first strategy yielding a
// non-empty value wins. New site layouts are supported by appending
// strategies, never by code changes.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Mode selects how a matched element is turned into a value.
type Mode int

// Extraction modes.
const (
	// ModeText extracts the element's text content.
	ModeText Mode = iota
	// ModeAttr extracts a named attribute of the element.
	ModeAttr
)

// Strategy is one way of locating a field in a document. Strategies are
// pure data: selector plus extraction mode.
type Strategy struct {
	Selector string
	Mode     Mode
	Attr     string // attribute name, only for ModeAttr
}

// Chain is an ordered list of strategies tried in sequence.
type Chain []Strategy

// Text builds a text-content strategy.
func Text(selector string) Strategy {
	return Strategy{Selector: selector, Mode: ModeText}
}

// Attr builds an attribute strategy.
func Attr(selector, attr string) Strategy {
	return Strategy{Selector: selector, Mode: ModeAttr, Attr: attr}
}

// First applies the chain against a document and returns the first
// strategy's non-empty value. ok is false when no strategy matched;
// that is an absent field, not an error.
func (c Chain) First(doc *goquery.Document) (string, bool) {
	for _, s := range c {
		if v, ok := s.apply(doc.Selection); ok {
			return v, true
		}
	}
	return "", false
}

// All applies the chain and collects every non-empty value produced by the
// first strategy that matches anything. Used for link discovery on listing
// pages, where one matching selector describes the whole result set.
func (c Chain) All(doc *goquery.Document) []string {
	for _, s := range c {
		var values []string
		doc.Find(s.Selector).Each(func(_ int, sel *goquery.Selection) {
			if v, ok := s.extract(sel); ok {
				values = append(values, v)
			}
		})
		if len(values) > 0 {
			return values
		}
	}
	return nil
}

// FirstSelection returns the first matching element for the chain, for
// callers that need the node itself (e.g. to inspect a disabled state).
func (c Chain) FirstSelection(doc *goquery.Document) (*goquery.Selection, string, bool) {
	for _, s := range c {
		sel := doc.Find(s.Selector).First()
		if sel.Length() > 0 {
			return sel, s.Selector, true
		}
	}
	return nil, "", false
}

func (s Strategy) apply(root *goquery.Selection) (string, bool) {
	var value string
	var found bool
	root.Find(s.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, ok := s.extract(sel); ok {
			value = v
			found = true
			return false
		}
		return true
	})
	return value, found
}

func (s Strategy) extract(sel *goquery.Selection) (string, bool) {
	var raw string
	switch s.Mode {
	case ModeAttr:
		raw, _ = sel.Attr(s.Attr)
	default:
		raw = sel.Text()
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	return raw, true
}
