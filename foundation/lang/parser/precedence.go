// File: precedence.go
// Title: Operator Precedence
// Description: Binding power and associativity of the binary operators.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package parser

import (
	"strings"
)

// Precedence is the binding power of an operator, lowest first
type Precedence int

const (
	PrecedenceLowest Precedence = iota + 1
	PrecedenceEquals
	PrecedenceLessGreater
	PrecedenceSum     // + -
	PrecedenceProduct // * / %
	PrecedencePower   // ^
	PrecedencePrefix
	PrecedenceCall
	PrecedenceIndex
)

// String returns the level name
func (p Precedence) String() string {
	switch p {
	case PrecedenceLowest:
		return "lowest"
	case PrecedenceEquals:
		return "equals"
	case PrecedenceLessGreater:
		return "less_greater"
	case PrecedenceSum:
		return "sum"
	case PrecedenceProduct:
		return "product"
	case PrecedencePower:
		return "power"
	case PrecedencePrefix:
		return "prefix"
	case PrecedenceCall:
		return "call"
	case PrecedenceIndex:
		return "index"
	default:
		return "unknown"
	}
}

// precedenceOf returns the binding power of tt when it appears in infix
// position. Tokens that are not operators bind at PrecedenceLowest.
func precedenceOf(tt TokenType) Precedence {
	switch tt {
	case TokenPlus, TokenMinus:
		return PrecedenceSum
	case TokenAsterisk, TokenSlash, TokenPercent:
		return PrecedenceProduct
	case TokenCaret:
		return PrecedencePower
	default:
		return PrecedenceLowest
	}
}

// Associativity decides how a chain of equal-precedence operators groups
type Associativity int

const (
	// AssociativityRight groups a ^ b ^ c as a ^ (b ^ c)
	AssociativityRight Associativity = iota

	// AssociativityLeft groups a ^ b ^ c as (a ^ b) ^ c
	AssociativityLeft
)

// String returns "right" or "left"
func (a Associativity) String() string {
	if a == AssociativityLeft {
		return "left"
	}
	return "right"
}

// ParseAssociativity parses "left" or "right"; empty means right
func ParseAssociativity(s string) (Associativity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "right":
		return AssociativityRight, true
	case "left":
		return AssociativityLeft, true
	default:
		return AssociativityRight, false
	}
}
