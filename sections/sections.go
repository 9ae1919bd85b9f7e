// sections/sections.go
package sections

// Section names the fixed set of dashboard components. Handlers pass these as
// typed route parameters; section names are never inferred from URL text.
type Section string

const (
	Information                  Section = "information"
	Overview                     Section = "overview"
	InformationSheet             Section = "informationSheet"
	BeneficialOwnerCertification Section = "beneficialOwnerCertification"
	CompanyReferences            Section = "companyReferences"
	DDForm                       Section = "ddform"
	LoanDetails                  Section = "loanDetails"
	LoanRequest                  Section = "loanRequest"
	CEODashboard                 Section = "ceoDashboard"
	CFODashboard                 Section = "cfoDashboard"
)

// Approval states for a section gate. Only admin actions move a section
// between states; there are no automatic transitions.
const (
	StateOpen     = "open"
	StateLocked   = "locked"
	StateApproved = "approved"
)

var all = []Section{
	Information,
	Overview,
	InformationSheet,
	BeneficialOwnerCertification,
	CompanyReferences,
	DDForm,
	LoanDetails,
	LoanRequest,
	CEODashboard,
	CFODashboard,
}

var free = map[Section]bool{
	Information: true,
	Overview:    true,
}

// All returns the enumerated section set in declaration order.
func All() []Section {
	out := make([]Section, len(all))
	copy(out, all)
	return out
}

// Count is the live section total used by the completion calculator.
func Count() int {
	return len(all)
}

// Parse validates a raw section name against the enumerated set.
func Parse(name string) (Section, bool) {
	for _, s := range all {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// IsFree reports whether a section bypasses the approval gate entirely.
// Free sections are always writable and reject admin state changes.
func IsFree(s Section) bool {
	return free[s]
}

// ValidState reports whether a raw approval state is one of open, locked,
// approved.
func ValidState(state string) bool {
	return state == StateOpen || state == StateLocked || state == StateApproved
}

// Writable reports whether a gated section in the given state accepts writes.
// Both open and approved permit writes; locked (and anything unset, which
// reads as locked) does not.
func Writable(state string) bool {
	return state == StateOpen || state == StateApproved
}

// WritableStates lists the states the atomic commit filter accepts.
func WritableStates() []string {
	return []string{StateOpen, StateApproved}
}

// DefaultApprovals is the approval map stamped onto a lazily created
// dashboard: free sections approved, everything else locked.
func DefaultApprovals() map[string]string {
	m := make(map[string]string, len(all))
	for _, s := range all {
		if free[s] {
			m[string(s)] = StateApproved
		} else {
			m[string(s)] = StateLocked
		}
	}
	return m
}
