package session

import "pairchat/backend/internal/models"

// View is the UI surface a session renders into. Every call hands over a
// complete snapshot; the view replaces what it shows rather than patching
// it. Implementations must tolerate being called from the session's
// delivery goroutines.
type View interface {
	// RenderIdentity shows the signed-in user's own name and avatar,
	// after sign-in and after each profile edit.
	RenderIdentity(user models.User)
	// RenderRoster shows the full list of other known users. The
	// signed-in user's own record is already filtered out.
	RenderRoster(users []models.User)
	// RenderMessages replaces the message list of the active room and
	// scrolls to the newest entry.
	RenderMessages(roomID string, msgs []models.Message)
}
