// Package hook implements the Hook Dispatcher: parsing the
// stdin JSON envelope, routing to a handler, and enforcing the
// re-entrancy guard and hook failure contract (swallow everything,
// exit 0, emit nothing but the intentional SessionStart context block).
package hook

// Envelope is the tagged-variant hook payload: fields beyond
// session_id/cwd are populated only for the events that use them, and
// any unrecognized top-level field is discarded during decoding, never
// rejected.
type Envelope struct {
	SessionID string    `json:"session_id"`
	Cwd       string    `json:"cwd"`
	Prompt    string    `json:"prompt"`
	ToolName  string    `json:"tool_name"`
	ToolInput ToolInput `json:"tool_input"`
}

// ToolInput carries the PostToolUse fields this system consumes.
type ToolInput struct {
	FilePath    string `json:"file_path"`
	Description string `json:"description"`
}
