package model

import "time"

// Role is a division label. Admin (intake) and Secretary are the two
// special routing roles; the rest are divisions.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleSecretary Role = "Secretary"
	RoleCATCID    Role = "CATCID"
	RoleGACID     Role = "GACID"
	RoleMOOCSU    Role = "MOOCSU"
	RoleEARD      Role = "EARD"
)

// Divisions lists the roles that can be handed documents by the secretary.
var Divisions = []Role{RoleCATCID, RoleGACID, RoleMOOCSU, RoleEARD}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleSecretary || r.IsDivision()
}

// IsDivision reports whether r is one of the named divisions.
func (r Role) IsDivision() bool {
	for _, d := range Divisions {
		if d == r {
			return true
		}
	}
	return false
}

// Account is a login identity. The password is stored as a bcrypt hash.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Division     Role      `json:"division"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is the authenticated caller, passed explicitly into every use case.
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Attachment is a scanned copy or other file stored for a document.
type Attachment struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"documentId"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentEvent is pushed on the change feed after a document is written.
type DocumentEvent struct {
	Type               string    `json:"type"`
	DocumentID         string    `json:"documentId"`
	AWDReferenceNumber string    `json:"awdReferenceNumber"`
	Status             Status    `json:"status"`
	ForwardedTo        Role      `json:"forwardedTo"`
	Actor              Role      `json:"actor"`
	At                 time.Time `json:"at"`
}
