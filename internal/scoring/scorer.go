// Package scoring computes the relevance score between a job description
// and a user profile text.
//
// The score is a pairwise TF-IDF cosine similarity scaled to [0,100]. The
// vector space is built per call from exactly the two input documents, so
// scores from independent calls are only locally comparable; callers should
// not rank jobs across pairs computed against different profiles.
package scoring

import (
	"math"
	"strings"
	"unicode"
)

// MaxScore is the score of two identical non-empty documents.
const MaxScore = 100.0

// Score returns the relevance of jobText to profileText in [0,100].
// It is deterministic, pure, and symmetric. Either input being empty
// (or reducing to nothing after preprocessing) yields 0.
func Score(jobText, profileText string) float64 {
	jobTokens := tokenize(jobText)
	profileTokens := tokenize(profileText)
	if len(jobTokens) == 0 || len(profileTokens) == 0 {
		return 0
	}

	jobVec := tfidf(jobTokens, profileTokens)
	profileVec := tfidf(profileTokens, jobTokens)

	score := cosine(jobVec, profileVec) * MaxScore
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// tokenize lowercases, strips everything but letters and spaces, splits on
// whitespace, and drops English stop words.
func tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLower(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if !stopWords[tok] {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// tfidf builds the TF-IDF vector for doc within the two-document corpus
// (doc, other). IDF uses the smoothed form ln((1+n)/(1+df))+1 with n=2 and
// the vector is L2-normalized.
func tfidf(doc, other []string) map[string]float64 {
	counts := termCounts(doc)
	otherCounts := termCounts(other)

	vec := make(map[string]float64, len(counts))
	var norm float64
	for term, tf := range counts {
		df := 1.0
		if _, shared := otherCounts[term]; shared {
			df = 2.0
		}
		idf := math.Log(3.0/(1.0+df)) + 1.0
		w := float64(tf) * idf
		vec[term] = w
		norm += w * w
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}

// cosine computes the dot product of two already normalized sparse vectors.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	return dot
}
