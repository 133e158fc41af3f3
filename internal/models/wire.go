package models

// Wire types exchanged with the UI over the WebSocket surface.

// ClientCommand is a frame sent by the UI.
// Type is one of "open_chat", "send_message", "update_profile", "sign_out".
type ClientCommand struct {
	Type string `json:"type"`
	// TargetUID is set for "open_chat": the roster entry that was clicked.
	TargetUID string `json:"targetUid,omitempty"`
	// Text is set for "send_message": the raw input box contents.
	Text string `json:"text,omitempty"`
	// Name and PhotoURL are set for "update_profile". Both are required.
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// ServerFrame is a frame pushed to the UI. Exactly one payload field is set,
// matching Type ("roster", "messages" or "identity").
type ServerFrame struct {
	Type string `json:"type"`
	// Roster is the full current list of other users, self excluded.
	Roster []User `json:"roster,omitempty"`
	// RoomID names the room the Messages snapshot belongs to.
	RoomID string `json:"roomId,omitempty"`
	// Messages is the full current message list of the active room,
	// ordered by creation time ascending. The UI replaces its list
	// wholesale on every delivery.
	Messages []Message `json:"messages,omitempty"`
	// Identity carries the signed-in user's own record after sign-in or
	// a profile edit.
	Identity *User `json:"identity,omitempty"`
	// Notice is a short human-readable confirmation, only used on the
	// profile-update success path.
	Notice string `json:"notice,omitempty"`
}
