// Package moderation decides whether new comments need an admin's approval.
package moderation

// RequiresApproval reports whether a comment by this author starts hidden.
// Admin comments are visible immediately. Approval is final, there is no
// way back to pending.
func RequiresApproval(authorIsAdmin bool) bool {
	return !authorIsAdmin
}
