package workflow

// Workflow state ids
const (
	StateNotStarted         = "not_started"
	StateInProgress         = "in_progress"
	StateReadyForSubmission = "ready_for_submission"
	StateSubmitted          = "submitted"
	StateUnderReview        = "under_review"
	StateInfoRequired       = "additional_info_required"
	StateApproved           = "approved"
	StateRejected           = "rejected"
)

// Manual transition events
const (
	EventSubmit      = "submit"
	EventBeginReview = "begin_review"
	EventApprove     = "approve"
	EventReject      = "reject"
	EventRequestInfo = "request_info"
	EventResubmit    = "resubmit"
)

// GuardFunc gates a transition. Guards are pure functions of the context:
// no side effects, no I/O, so the engine can evaluate them speculatively.
type GuardFunc func(ctx *AuthorizationContext) bool

// StateDefinition is declarative state metadata. States carry no behavior.
type StateDefinition struct {
	ID       string
	Label    string
	Color    string
	Icon     string
	Phase    string
	Terminal bool
}

// TransitionDefinition is one row of the transition table. An empty Event
// marks an auto-transition, evaluated whenever context changes.
type TransitionDefinition struct {
	From  string
	Event string
	Guard GuardFunc
	To    string
}

// Definition is the full static description of a state machine
type Definition struct {
	Initial     string
	States      map[string]StateDefinition
	Transitions []TransitionDefinition
}

// HappyPath is the fixed ordinal list of states used for progress reporting.
// States off this path (rejections, info requests) report progress 0.
var HappyPath = []string{
	StateNotStarted,
	StateInProgress,
	StateReadyForSubmission,
	StateSubmitted,
	StateUnderReview,
	StateApproved,
}

func submissionReady(ctx *AuthorizationContext) bool {
	return ctx.AllMandatoryComplete && !ctx.HasBlockers
}

// AuthorizationDefinition returns the static authorization state machine.
// At most one auto-transition may be eligible from any state for a given
// context; the readiness guards below are complements of each other so the
// in_progress/ready_for_submission pair can never conflict.
func AuthorizationDefinition() Definition {
	return Definition{
		Initial: StateNotStarted,
		States: map[string]StateDefinition{
			StateNotStarted:         {ID: StateNotStarted, Label: "Not Started", Color: "gray", Icon: "circle", Phase: "preparation"},
			StateInProgress:         {ID: StateInProgress, Label: "In Progress", Color: "blue", Icon: "pencil", Phase: "preparation"},
			StateReadyForSubmission: {ID: StateReadyForSubmission, Label: "Ready for Submission", Color: "teal", Icon: "check-circle", Phase: "preparation"},
			StateSubmitted:          {ID: StateSubmitted, Label: "Submitted", Color: "indigo", Icon: "send", Phase: "review"},
			StateUnderReview:        {ID: StateUnderReview, Label: "Under Review", Color: "amber", Icon: "eye", Phase: "review"},
			StateInfoRequired:       {ID: StateInfoRequired, Label: "Additional Information Required", Color: "orange", Icon: "alert-circle", Phase: "review"},
			StateApproved:           {ID: StateApproved, Label: "Approved", Color: "green", Icon: "badge-check", Phase: "decision", Terminal: true},
			StateRejected:           {ID: StateRejected, Label: "Rejected", Color: "red", Icon: "x-circle", Phase: "decision", Terminal: true},
		},
		Transitions: []TransitionDefinition{
			// Auto-transitions follow document progress in both directions
			{
				From:  StateNotStarted,
				Guard: func(ctx *AuthorizationContext) bool { return ctx.TotalDocuments > 0 },
				To:    StateInProgress,
			},
			{
				From:  StateInProgress,
				Guard: submissionReady,
				To:    StateReadyForSubmission,
			},
			{
				From:  StateReadyForSubmission,
				Guard: func(ctx *AuthorizationContext) bool { return !submissionReady(ctx) },
				To:    StateInProgress,
			},

			// Manual transitions driven by the operator or the NCA
			{
				From:  StateReadyForSubmission,
				Event: EventSubmit,
				Guard: submissionReady,
				To:    StateSubmitted,
			},
			{
				From:  StateSubmitted,
				Event: EventBeginReview,
				Guard: func(ctx *AuthorizationContext) bool { return true },
				To:    StateUnderReview,
			},
			{
				From:  StateUnderReview,
				Event: EventApprove,
				Guard: func(ctx *AuthorizationContext) bool { return true },
				To:    StateApproved,
			},
			{
				From:  StateUnderReview,
				Event: EventReject,
				Guard: func(ctx *AuthorizationContext) bool { return true },
				To:    StateRejected,
			},
			{
				From:  StateUnderReview,
				Event: EventRequestInfo,
				Guard: func(ctx *AuthorizationContext) bool { return true },
				To:    StateInfoRequired,
			},
			{
				From:  StateInfoRequired,
				Event: EventResubmit,
				Guard: submissionReady,
				To:    StateUnderReview,
			},
		},
	}
}
