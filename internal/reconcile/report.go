package reconcile

// The forge JSON report maps "<path>:<ContractName>" suite keys to suite
// objects whose test_results map is keyed by on-chain function signature
// ("testFoo()", "testFuzz(uint256)"). Only the fields this tool consumes
// are decoded; everything else in the report is ignored.

// Report is the top-level forge test report.
type Report map[string]SuiteResult

// SuiteResult is the per-contract slice of the report.
type SuiteResult struct {
	TestResults map[string]TestResult `json:"test_results"`
}

// StatusSuccess is forge's success sentinel; any other status is a failure.
const StatusSuccess = "Success"

// TestResult is one test's outcome.
type TestResult struct {
	Status   string          `json:"status"`
	Reason   string          `json:"reason"`
	Duration *ReportDuration `json:"duration"`
	Kind     *TestKind       `json:"kind"`
}

// ReportDuration is forge's seconds+nanoseconds pair.
type ReportDuration struct {
	Secs  int64 `json:"secs"`
	Nanos int64 `json:"nanos"`
}

// TestKind is a tagged variant: exactly one of the fields is set depending
// on the test category.
type TestKind struct {
	Unit *UnitKind `json:"Unit"`
	Fuzz *FuzzKind `json:"Fuzz"`
}

// UnitKind carries the flat gas reading of a plain unit test.
type UnitKind struct {
	Gas uint64 `json:"gas"`
}

// FuzzKind carries the gas statistics of a property/fuzz test.
type FuzzKind struct {
	Runs      int       `json:"runs"`
	MeanGas   *uint64   `json:"mean_gas"`
	MedianGas *uint64   `json:"median_gas"`
	FirstCase *FuzzCase `json:"first_case"`
}

// FuzzCase is a single sampled fuzz execution.
type FuzzCase struct {
	Gas uint64 `json:"gas"`
}

// GasUsed resolves the gas reading with explicit precedence: unit gas,
// then fuzz mean gas, then fuzz first-case gas. Nil when none is present.
func (t *TestResult) GasUsed() *uint64 {
	if t.Kind == nil {
		return nil
	}
	if t.Kind.Unit != nil {
		gas := t.Kind.Unit.Gas
		return &gas
	}
	if t.Kind.Fuzz != nil {
		if t.Kind.Fuzz.MeanGas != nil {
			gas := *t.Kind.Fuzz.MeanGas
			return &gas
		}
		if t.Kind.Fuzz.FirstCase != nil {
			gas := t.Kind.Fuzz.FirstCase.Gas
			return &gas
		}
	}
	return nil
}

// DurationMillis converts the duration pair to milliseconds, rounded half
// up. Zero when the report carries no duration.
func (t *TestResult) DurationMillis() int64 {
	if t.Duration == nil {
		return 0
	}
	return t.Duration.Secs*1000 + (t.Duration.Nanos+500_000)/1_000_000
}
