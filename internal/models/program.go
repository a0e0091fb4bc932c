package models

import "strings"

// Program is the canonical identifier for a loyalty program. All storage and
// lookup paths deal in canonical ids only; free-text aliases are resolved once
// through CanonicalProgram at the boundary.
type Program string

const (
	ProgramLatamPass Program = "latam-pass"
	ProgramSmiles    Program = "smiles"
	ProgramTudoAzul  Program = "tudoazul"
	ProgramLivelo    Program = "livelo"
	ProgramEsfera    Program = "esfera"
)

// programAliases resolves known free-text fragments to canonical programs.
// Order matters: more specific fragments are listed before shorter ones.
var programAliases = []struct {
	fragment string
	program  Program
}{
	{"latam pass", ProgramLatamPass},
	{"latam-pass", ProgramLatamPass},
	{"latam", ProgramLatamPass},
	{"smiles", ProgramSmiles},
	{"gol", ProgramSmiles},
	{"tudoazul", ProgramTudoAzul},
	{"tudo azul", ProgramTudoAzul},
	{"azul", ProgramTudoAzul},
	{"livelo", ProgramLivelo},
	{"esfera", ProgramEsfera},
}

// CanonicalProgram maps a free-text program name to its canonical id.
// Matching is case-insensitive and substring-tolerant in both directions, so
// "Latam" resolves to latam-pass and "TudoAzul Clube" resolves to tudoazul.
// Unknown names fold to a lowercase trimmed id so they still match themselves
// consistently across components.
func CanonicalProgram(name string) Program {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	for _, a := range programAliases {
		if strings.Contains(n, a.fragment) || strings.Contains(a.fragment, n) {
			return a.program
		}
	}
	return Program(n)
}

// DisplayName returns the human-readable name for a canonical program.
func (p Program) DisplayName() string {
	switch p {
	case ProgramLatamPass:
		return "Latam Pass"
	case ProgramSmiles:
		return "Smiles"
	case ProgramTudoAzul:
		return "TudoAzul"
	case ProgramLivelo:
		return "Livelo"
	case ProgramEsfera:
		return "Esfera"
	}
	return string(p)
}
