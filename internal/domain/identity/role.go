package identity

// Role is the single authorization axis. It replaces the overlapping
// staff/superuser flags and role column that coexisted historically:
// authorization questions are answered only through the capability map.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// IsStaff reports whether the role grants cross-owner access
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

// Capability is a named permission checked by handlers and services
type Capability string

const (
	CapViewAllOrders      Capability = "orders:view_all"
	CapRefundOrder        Capability = "orders:refund"
	CapExportOrders       Capability = "orders:export"
	CapManageUsers        Capability = "users:manage"
	CapManageContent      Capability = "content:manage" // FAQ, notices, preset messages
	CapModerateReviews    Capability = "reviews:moderate"
	CapAnswerSupport      Capability = "support:answer"
	CapViewAnalytics      Capability = "analytics:view"
	CapBroadcastNotify    Capability = "notifications:broadcast"
	CapAssignWork         Capability = "work:assign"
)

// roleCapabilities is the single role-to-capability mapping
var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapViewAllOrders, CapRefundOrder, CapExportOrders,
		CapManageUsers, CapManageContent, CapModerateReviews,
		CapAnswerSupport, CapViewAnalytics, CapBroadcastNotify,
		CapAssignWork,
	},
	RoleManager: {
		CapViewAllOrders, CapExportOrders,
		CapManageContent, CapModerateReviews,
		CapAnswerSupport, CapViewAnalytics, CapBroadcastNotify,
		CapAssignWork,
	},
	RoleUser: {},
}

// Can reports whether the role grants the capability
func (r Role) Can(capability Capability) bool {
	for _, c := range roleCapabilities[r] {
		if c == capability {
			return true
		}
	}
	return false
}

// Capabilities returns all capabilities granted to the role
func (r Role) Capabilities() []Capability {
	caps := roleCapabilities[r]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}
