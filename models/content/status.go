package content

// Moderation status of a teacher submission. Every item starts out pending;
// approved and rejected are both terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)
