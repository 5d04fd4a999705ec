package contract

import "fmt"

// Reason codes carried by guard results so callers can branch without
// parsing messages.
const (
	ReasonNoActiveContract       = "no_active_contract"
	ReasonContractExists         = "active_contract_exists"
	ReasonMissingReflection      = "missing_reflection"
	ReasonUnacknowledgedPatterns = "unacknowledged_patterns"
	ReasonBelowMinimumLines      = "below_minimum_lines"
	ReasonAlreadySubmitted       = "already_submitted"
	ReasonConstraintViolations   = "constraint_violations"
	ReasonIncompleteAssessment   = "incomplete_self_assessment"
	ReasonContractNotActive      = "contract_not_active"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    string // machine-readable reason (populated when not allowed)
	Reason  string // human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

func allowed() GuardResult { return GuardResult{Allowed: true} }

func blocked(code, reason string) GuardResult {
	return GuardResult{Allowed: false, Code: code, Reason: reason}
}

// CanCreateContract evaluates whether a profile may start a contract.
// Rule: at most one active contract per profile.
func CanCreateContract(activeContractID string) GuardResult {
	if activeContractID != "" {
		return blocked(ReasonContractExists,
			fmt.Sprintf("profile already has active contract %s - finish or abandon it first", activeContractID))
	}
	return allowed()
}

// SubmissionGateContext carries the pre-fetched facts the submission gates
// evaluate. The service layer populates it; the gates stay pure.
type SubmissionGateContext struct {
	HasActiveContract        bool
	ContractID               string
	WeekNumber               int
	HasPreviousReflection    bool
	HasUnacknowledgedReports bool
	LineCount                int
	MinimumLines             int
	ExistingSubmission       bool // a non-draft poem already exists for this week
}

// CanEnterSubmission evaluates the prerequisite gates of the submission
// pipeline in order. The first failing gate wins so the caller always gets
// one distinct reason code.
func CanEnterSubmission(ctx SubmissionGateContext) GuardResult {
	if !ctx.HasActiveContract {
		return blocked(ReasonNoActiveContract, "no active contract - start one with: quill contract init")
	}
	if !ctx.HasPreviousReflection {
		return blocked(ReasonMissingReflection,
			fmt.Sprintf("week %d reflection is missing - write it before submitting week %d",
				ctx.WeekNumber-1, ctx.WeekNumber))
	}
	if ctx.HasUnacknowledgedReports {
		return blocked(ReasonUnacknowledgedPatterns,
			"unacknowledged pattern reports exist - review them with: quill patterns list")
	}
	if ctx.LineCount < ctx.MinimumLines {
		return blocked(ReasonBelowMinimumLines,
			fmt.Sprintf("poem has %d lines, minimum is %d", ctx.LineCount, ctx.MinimumLines))
	}
	if ctx.ExistingSubmission {
		return blocked(ReasonAlreadySubmitted,
			fmt.Sprintf("week %d already has a submitted poem", ctx.WeekNumber))
	}
	return allowed()
}

// SelfAssessment holds the four required reflective answers attached to every
// submission.
type SelfAssessment struct {
	LazyWhere        string `json:"lazy_where"`
	AbstractionWhere string `json:"abstraction_where"`
	WeakestLine      string `json:"weakest_line"`
	RiskAvoided      string `json:"risk_avoided"`
}

// MinAssessmentAnswerLen is the minimum length of each self-assessment answer.
const MinAssessmentAnswerLen = 20

// ValidateSelfAssessment checks that all four answers are present and
// substantive.
func ValidateSelfAssessment(a SelfAssessment) GuardResult {
	answers := map[string]string{
		"lazy_where":        a.LazyWhere,
		"abstraction_where": a.AbstractionWhere,
		"weakest_line":      a.WeakestLine,
		"risk_avoided":      a.RiskAvoided,
	}
	for _, field := range []string{"lazy_where", "abstraction_where", "weakest_line", "risk_avoided"} {
		if len(answers[field]) < MinAssessmentAnswerLen {
			return blocked(ReasonIncompleteAssessment,
				fmt.Sprintf("self-assessment answer %q must be at least %d characters", field, MinAssessmentAnswerLen))
		}
	}
	return allowed()
}

// CanFinalize evaluates whether a contract can be finalized.
// Rule: only active contracts finalize, and only past their end date.
func CanFinalize(status Status, pastEndDate bool) GuardResult {
	if status != StatusActive {
		return blocked(ReasonContractNotActive,
			fmt.Sprintf("contract is %s - only active contracts finalize", status))
	}
	if !pastEndDate {
		return blocked(ReasonContractNotActive, "contract end date has not passed yet")
	}
	return allowed()
}

// CanAbandon evaluates whether a contract can be abandoned.
func CanAbandon(status Status) GuardResult {
	if status != StatusActive {
		return blocked(ReasonContractNotActive,
			fmt.Sprintf("contract is %s - only active contracts can be abandoned", status))
	}
	return allowed()
}
