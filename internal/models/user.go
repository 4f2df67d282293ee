package models

// Role is the RBAC role assigned to a dashboard account. The string values
// are what the server sends on the wire.
type Role string

const (
	RoleWarehouseHead  Role = "kepala_gudang"
	RoleOperations     Role = "operasional"
	RoleLogisticsAdmin Role = "admin_logistik"
)

// RoleNames maps wire values to display labels.
var RoleNames = map[Role]string{
	RoleWarehouseHead:  "Kepala Gudang",
	RoleOperations:     "Operasional",
	RoleLogisticsAdmin: "Admin Logistik",
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	_, ok := RoleNames[r]
	return ok
}

// SubRole is the operator speciality, assigned only to operations accounts.
type SubRole string

const (
	SubRoleLeaderIncoming    SubRole = "leader_incoming"
	SubRoleGoodReceive       SubRole = "good_receive"
	SubRoleQualityInspection SubRole = "quality_inspection"
	SubRoleBinning           SubRole = "binning"
	SubRoleLeaderOutgoing    SubRole = "leader_outgoing"
	SubRolePicking           SubRole = "picking"
	SubRoleQualityControl    SubRole = "quality_control"
)

// SubRoleNames maps wire values to display labels.
var SubRoleNames = map[SubRole]string{
	SubRoleLeaderIncoming:    "Leader Incoming",
	SubRoleGoodReceive:       "Good Receive",
	SubRoleQualityInspection: "Quality Inspection",
	SubRoleBinning:           "Binning",
	SubRoleLeaderOutgoing:    "Leader Outgoing",
	SubRolePicking:           "Picking",
	SubRoleQualityControl:    "Quality Control",
}

// Team categories group sub-roles by warehouse flow direction.
const (
	TeamIncoming = "incoming"
	TeamOutgoing = "outgoing"
)

// TeamCategoryNames maps team categories to display labels.
var TeamCategoryNames = map[string]string{
	TeamIncoming: "Tim Incoming",
	TeamOutgoing: "Tim Outgoing",
}

// SubRoleInfo carries a sub-role together with its team category, as the
// server embeds it in user and performer payloads.
type SubRoleInfo struct {
	Name         SubRole `json:"name"`
	TeamCategory string  `json:"teamCategory"`
}

// User identifies a dashboard account. Server-issued; the client never
// mutates it outside the user-management endpoints.
type User struct {
	ID       int          `json:"id"`
	Username string       `json:"username"`
	FullName string       `json:"fullName"`
	Email    string       `json:"email"`
	Role     Role         `json:"role"`
	SubRole  *SubRoleInfo `json:"subRole,omitempty"`
}

// CreateUserRequest is the payload for POST /api/users.
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	FullName string  `json:"fullName" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     Role    `json:"role" validate:"required,oneof=kepala_gudang operasional admin_logistik"`
	SubRole  SubRole `json:"subRole,omitempty" validate:"required_if=Role operasional"`
}

// UpdateUserRequest is the payload for PUT /api/users/{id}.
type UpdateUserRequest struct {
	FullName string  `json:"fullName" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Role     Role    `json:"role" validate:"required,oneof=kepala_gudang operasional admin_logistik"`
	SubRole  SubRole `json:"subRole,omitempty" validate:"required_if=Role operasional"`
}
