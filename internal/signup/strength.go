// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package signup

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Strength buckets a password score.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
)

// String returns the bucket label.
func (s Strength) String() string {
	switch s {
	case Strong:
		return "Strong"
	case Medium:
		return "Medium"
	default:
		return "Weak"
	}
}

// Score thresholds.
const (
	strongScore = 5
	mediumScore = 3
)

type classes struct {
	lower, upper, digit, special bool
}

func classify(pw string) classes {
	var c classes
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsDigit(r):
			c.digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			c.special = true
		}
	}
	return c
}

// Score awards one point each for: length >= 8, length >= 12, a lowercase
// letter, an uppercase letter, a digit, a special character.
func Score(pw string) int {
	n := utf8.RuneCountInString(pw)
	c := classify(pw)

	score := 0
	if n >= 8 {
		score++
	}
	if n >= 12 {
		score++
	}
	for _, has := range []bool{c.lower, c.upper, c.digit, c.special} {
		if has {
			score++
		}
	}
	return score
}

// Rate returns the strength bucket: score >= 5 Strong, >= 3 Medium, else Weak.
func Rate(pw string) Strength {
	switch s := Score(pw); {
	case s >= strongScore:
		return Strong
	case s >= mediumScore:
		return Medium
	default:
		return Weak
	}
}

// MaxScore is the highest possible Score.
const MaxScore = 6

// =============================================================================
// SERVER POLICY HINTS
// =============================================================================

// Hint is one server password rule and whether pw meets it.
type Hint struct {
	Text string
	Met  bool
}

// PolicyHints lists the server's password rules against pw. The server
// has the final say; these only tell the user what it will check.
func PolicyHints(pw string, minLength int) []Hint {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	c := classify(pw)
	return []Hint{
		{fmt.Sprintf("At least %d characters", minLength), utf8.RuneCountInString(pw) >= minLength},
		{"A digit", c.digit},
		{"An uppercase letter", c.upper},
		{"A lowercase letter", c.lower},
		{"A special character", c.special},
	}
}
