package preview

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes sent to /diag clients.
const (
	CodeConnected     = "DIAG.CONNECTED"
	CodeScriptStarted = "SCRIPT.STARTED"
	CodeScriptFailed  = "SCRIPT.FAILED"
	CodeControlFailed = "CONTROL.FAILED"
)

// Diagnostic reports a script or control event. Script names the script it
// concerns, if any.
type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Summary  string         `json:"summary"`
	Script   string         `json:"script,omitempty"`
	Detail   string         `json:"detail,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

// ScriptFailed reports a script that could not be loaded or stepped.
func ScriptFailed(name string, err error) Diagnostic {
	return Diagnostic{Severity: Err, Code: CodeScriptFailed, Summary: "Script failed", Script: name, Detail: err.Error()}
}
