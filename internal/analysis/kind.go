package analysis

// ResultKind classifies a single finding. The string values double as the
// kind values emitted in the structured log, so they must stay stable.
type ResultKind string

const (
	KindPass               ResultKind = "pass"
	KindNote               ResultKind = "note"
	KindWarning            ResultKind = "warning"
	KindError              ResultKind = "error"
	KindNotApplicable      ResultKind = "notApplicable"
	KindConfigurationError ResultKind = "configError"
	KindInternalError      ResultKind = "internalError"
)

// Known reports whether k is a member of the closed kind taxonomy.
func (k ResultKind) Known() bool {
	switch k {
	case KindPass, KindNote, KindWarning, KindError,
		KindNotApplicable, KindConfigurationError, KindInternalError:
		return true
	}
	return false
}
