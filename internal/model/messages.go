package model

// ControlSelectedMsg is broadcast when the browser opens or closes a control
// detail view. A nil Control clears the agent's context.
type ControlSelectedMsg struct {
	Control *AuditItem
}
