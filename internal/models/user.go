package models

// User is the roster document for one known user.
// It is created on first sign-in with identity-provider fields and is
// merge-upserted afterwards: profile edits replace name and photo URL,
// fields not supplied stay untouched. Users are never deleted.
type User struct {
	// UID is the opaque, provider-assigned identifier. Stable for the
	// lifetime of the account.
	UID string `gorm:"primaryKey" json:"uid"`
	// Name is the display name shown in the roster and chat header.
	Name string `gorm:"type:text;not null" json:"name"`
	// Email comes from the identity provider and is never edited here.
	Email string `gorm:"type:text" json:"email"`
	// PhotoURL is the avatar location. Editable together with Name.
	PhotoURL string `gorm:"type:text" json:"photoURL"`
}
