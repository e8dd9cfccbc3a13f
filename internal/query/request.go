package query

import "encoding/json"

// Role is the organizational role a question is asked on behalf of.
type Role int

const (
	RoleFinance Role = iota
	RolePlanner
	RoleManager
)

// Roles lists every role in selector order.
func Roles() []Role {
	return []Role{RoleFinance, RolePlanner, RoleManager}
}

func (r Role) String() string {
	switch r {
	case RoleFinance:
		return "Finance"
	case RolePlanner:
		return "Planner"
	case RoleManager:
		return "Manager"
	default:
		return "Unknown"
	}
}

// ParseRole parses a role name, ignoring case.
func ParseRole(s string) (Role, error) {
	return parseNamed("role", s, Roles(), RoleFinance)
}

// MarshalJSON implements json.Marshaler.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Role) UnmarshalJSON(data []byte) error {
	v, err := decodeNamed(data, ParseRole)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Region is the geographic scope of a question.
type Region int

// The zero Region is Global, the default filter.
const (
	RegionGlobal Region = iota
	RegionIndia
)

// Regions lists every region in selector order.
func Regions() []Region {
	return []Region{RegionIndia, RegionGlobal}
}

func (r Region) String() string {
	switch r {
	case RegionIndia:
		return "India"
	case RegionGlobal:
		return "Global"
	default:
		return "Unknown"
	}
}

// ParseRegion parses a region name, ignoring case.
func ParseRegion(s string) (Region, error) {
	return parseNamed("region", s, Regions(), RegionGlobal)
}

// MarshalJSON implements json.Marshaler.
func (r Region) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Region) UnmarshalJSON(data []byte) error {
	v, err := decodeNamed(data, ParseRegion)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Request is one question plus its contextual filters.
// Text is sent verbatim; an empty question is not rejected here.
type Request struct {
	Text   string `json:"user_input"`
	Role   Role   `json:"user_role"`
	Region Region `json:"region"`
}
