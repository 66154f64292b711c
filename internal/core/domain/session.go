package domain

// RunState is the top-level state of a migration run.
type RunState string

// Migration run states, in the order a successful run visits them.
const (
	RunStateIdle           RunState = "idle"
	RunStateAuthenticating RunState = "authenticating"
	RunStateExposing       RunState = "exposing"
	RunStateMigrating      RunState = "migrating"
	RunStateTearingDown    RunState = "tearing_down"
	RunStateDone           RunState = "done"
	RunStateFailed         RunState = "failed"
)

// ServiceState is the lifecycle state of a transient process.
type ServiceState string

// Process lifecycle states.
// NotStarted -> Starting -> Ready -> Stopped, or Starting -> FailedToStart.
const (
	ServiceNotStarted    ServiceState = "not_started"
	ServiceStarting      ServiceState = "starting"
	ServiceReady         ServiceState = "ready"
	ServiceStopped       ServiceState = "stopped"
	ServiceFailedToStart ServiceState = "failed_to_start"
)

// Session is the state owned by exactly one migration run.
// Fields are populated as the run progresses; the zero value is a valid
// session that nothing has been started for.
type Session struct {
	RunID     string
	State     RunState
	Token     Token
	Port      int
	PublicURL string
}
