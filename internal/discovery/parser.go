package discovery

import (
	"fmt"
	"os"
	"regexp"

	"github.com/Chain-Defenders/forge-defender/internal/domain"
)

// Parser extracts test contracts and their test functions from Solidity
// sources via pattern matching over comment-stripped text. It is not a
// Solidity parser: comment-like sequences inside string literals will
// confuse it, which matches how forge projects are scanned in practice.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentPattern  = regexp.MustCompile(`//[^\n]*`)

	contractPattern = regexp.MustCompile(`\bcontract\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	testFuncPattern = regexp.MustCompile(`\bfunction\s+((?:test|invariant)[A-Za-z0-9_$]*)\s*\(`)
)

// StripComments removes block comments, then line comments. Stripping is
// idempotent.
func StripComments(source string) string {
	source = blockCommentPattern.ReplaceAllString(source, "")
	return lineCommentPattern.ReplaceAllString(source, "")
}

// ParseFile reads and parses one test source. The given relPath is stored
// on the resulting contracts, keyed the way forge reports them.
func (p *Parser) ParseFile(path, relPath string) ([]*domain.TestContract, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return p.Parse(relPath, string(content)), nil
}

// Parse locates every contract declaration and every test-function
// declaration in the source and buckets each function into the half-open
// span between consecutive contract declarations. Functions before the
// first contract are dropped, as are contracts with no test functions.
func (p *Parser) Parse(relPath, source string) []*domain.TestContract {
	stripped := StripComments(source)

	contractMatches := contractPattern.FindAllStringSubmatchIndex(stripped, -1)
	if len(contractMatches) == 0 {
		return nil
	}
	funcMatches := testFuncPattern.FindAllStringSubmatchIndex(stripped, -1)

	var contracts []*domain.TestContract
	for i, cm := range contractMatches {
		spanStart := cm[0]
		spanEnd := len(stripped)
		if i+1 < len(contractMatches) {
			spanEnd = contractMatches[i+1][0]
		}

		contract := &domain.TestContract{
			Name: stripped[cm[2]:cm[3]],
			Path: relPath,
		}
		for _, fm := range funcMatches {
			if fm[0] >= spanStart && fm[0] < spanEnd {
				contract.Tests = append(contract.Tests, &domain.TestCase{
					Name:   stripped[fm[2]:fm[3]],
					Status: domain.StatusPending,
				})
			}
		}

		if len(contract.Tests) > 0 {
			contracts = append(contracts, contract)
		}
	}
	return contracts
}
