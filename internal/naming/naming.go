// Package naming turns free-text labels into public application names
// (subdomain-safe slugs) and checks them against the publishing policy.
package naming

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// ExampleName is the suggested valid name returned with every failure
	ExampleName = "qa-testing-app"

	// MinLength is the minimum number of characters after normalization
	MinLength = 5

	// MaxLength is the maximum number of characters after normalization
	MaxLength = 50
)

var (
	// ErrNameRequired is returned when no name was supplied
	ErrNameRequired = errors.New("name is required")

	// ErrNameTooShort is returned when the normalized name is under MinLength
	ErrNameTooShort = errors.New("name must be at least 5 characters long (after normalization)")

	// ErrNameTooLong is returned when the normalized name is over MaxLength
	ErrNameTooLong = errors.New("name must be at most 50 characters long (after normalization)")

	// ErrNameCharset is returned when the name has characters outside [a-z0-9-]
	ErrNameCharset = errors.New("name can only contain lowercase letters, numbers, and hyphens")

	// ErrNameHyphenEdge is returned when the name starts or ends with a hyphen
	ErrNameHyphenEdge = errors.New("name cannot start or end with a hyphen")
)

var (
	// separatorPattern matches runs of whitespace and underscores. The class
	// mirrors the ECMAScript \s set, which is wider than RE2's \s.
	separatorPattern = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}_]+`)

	// disallowedPattern matches everything that cannot appear in a name
	disallowedPattern = regexp.MustCompile(`[^a-z0-9-]`)

	// hyphenRunPattern matches consecutive hyphens
	hyphenRunPattern = regexp.MustCompile(`-+`)

	// charsetPattern is the full-string charset check used by Validate
	charsetPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Result is the outcome of normalizing and validating a name.
// Empty Error and Example are absent. Normalized is present whenever a
// candidate was produced, even an empty one.
type Result struct {
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized,omitempty"`
	Error      string `json:"error,omitempty"`
	Example    string `json:"example,omitempty"`

	err       error
	candidate bool
}

// HasNormalized reports whether normalization produced a candidate. Only a
// missing name yields no candidate.
func (r Result) HasNormalized() bool {
	return r.candidate
}

// MarshalJSON writes normalized whenever a candidate exists, so "!!!"
// reports "normalized": "".
func (r Result) MarshalJSON() ([]byte, error) {
	var normalized *string
	if r.candidate || r.Normalized != "" {
		normalized = &r.Normalized
	}
	return json.Marshal(struct {
		Valid      bool    `json:"valid"`
		Normalized *string `json:"normalized,omitempty"`
		Error      string  `json:"error,omitempty"`
		Example    string  `json:"example,omitempty"`
	}{r.Valid, normalized, r.Error, r.Example})
}

// Err returns the sentinel error behind an invalid result, or nil if the
// result is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	return errors.New(r.Error)
}

// NormalizeAndValidate cleans up raw and checks the result against the
// naming policy. It never fails: every outcome is reported in the Result.
func NormalizeAndValidate(raw string) Result {
	if raw == "" {
		return Result{
			Valid:   false,
			Error:   ErrNameRequired.Error(),
			Example: ExampleName,
			err:     ErrNameRequired,
		}
	}

	return Validate(Normalize(raw))
}

// Normalize applies the best-effort cleanup pass:
//  1. Lowercase
//  2. Trim surrounding whitespace
//  3. Replace whitespace and underscore runs with a single hyphen
//  4. Drop characters outside [a-z0-9-]
//  5. Collapse hyphen runs
//  6. Trim leading and trailing hyphens
//
// Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = separatorPattern.ReplaceAllString(s, "-")
	s = disallowedPattern.ReplaceAllString(s, "")
	s = hyphenRunPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Validate checks candidate against the naming policy without assuming it
// went through Normalize. The first failing rule is reported.
func Validate(candidate string) Result {
	length := utf8.RuneCountInString(candidate)

	switch {
	case length < MinLength:
		return invalid(ErrNameTooShort, candidate)
	case length > MaxLength:
		// Truncation is for display only; the name is still rejected.
		return invalid(ErrNameTooLong, truncate(candidate, MaxLength))
	case !charsetPattern.MatchString(candidate):
		return invalid(ErrNameCharset, candidate)
	case strings.HasPrefix(candidate, "-") || strings.HasSuffix(candidate, "-"):
		return invalid(ErrNameHyphenEdge, candidate)
	}

	return Result{
		Valid:      true,
		Normalized: candidate,
		candidate:  true,
	}
}

// IsValid reports whether raw normalizes to an acceptable name
func IsValid(raw string) bool {
	return NormalizeAndValidate(raw).Valid
}

func invalid(err error, normalized string) Result {
	return Result{
		Valid:      false,
		Normalized: normalized,
		Error:      err.Error(),
		Example:    ExampleName,
		err:        err,
		candidate:  true,
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
