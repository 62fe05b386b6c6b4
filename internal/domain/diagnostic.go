package domain

import "github.com/google/uuid"

// DiagnosticKind classifies a tolerated problem reported next to a result.
type DiagnosticKind string

const (
	DiagnosticUnresolvedIngredient DiagnosticKind = "UNRESOLVED_INGREDIENT"
	DiagnosticUnresolvedRecipe     DiagnosticKind = "UNRESOLVED_RECIPE"
	DiagnosticCycleDetected        DiagnosticKind = "CYCLE_DETECTED"
	DiagnosticDepthExceeded        DiagnosticKind = "DEPTH_EXCEEDED"
	DiagnosticSynthesisUnavailable DiagnosticKind = "SYNTHESIS_UNAVAILABLE"
	DiagnosticProposalRejected     DiagnosticKind = "PROPOSAL_REJECTED"
	DiagnosticOutsideTolerance     DiagnosticKind = "OUTSIDE_TOLERANCE"
)

// Diagnostic describes a skipped reference or a degraded step. RefID is the
// offending ingredient or recipe id when there is one.
type Diagnostic struct {
	Kind    DiagnosticKind
	RefID   uuid.UUID
	Message string
}

// HasDiagnostic reports whether ds contains a diagnostic of the given kind.
func HasDiagnostic(ds []Diagnostic, kind DiagnosticKind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
