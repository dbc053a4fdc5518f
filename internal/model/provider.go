package model

// Provider is a healthcare-provider directory entry.
// Qualification and Speciality hold comma-separated lists as plain text.
type Provider struct {
	ProviderID    string  `json:"providerID"`
	Active        bool    `json:"active"`
	Name          string  `json:"name" validate:"required"`
	Qualification string  `json:"qualification" validate:"required"`
	Speciality    string  `json:"speciality" validate:"required"`
	Phone         string  `json:"phone" validate:"required,integer"`
	Department    *string `json:"department"`
	Organization  string  `json:"organization" validate:"required"`
	Location      *string `json:"location"`
	Address       string  `json:"address" validate:"required"`
}

// Clone returns a deep copy of p.
func (p *Provider) Clone() *Provider {
	if p == nil {
		return nil
	}
	c := *p
	c.Department = cloneString(p.Department)
	c.Location = cloneString(p.Location)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// JSON field names of a provider record
const (
	FieldProviderID    = "providerID"
	FieldActive        = "active"
	FieldName          = "name"
	FieldQualification = "qualification"
	FieldSpeciality    = "speciality"
	FieldPhone         = "phone"
	FieldDepartment    = "department"
	FieldOrganization  = "organization"
	FieldLocation      = "location"
	FieldAddress       = "address"
)

// ProviderFields lists every field a stored record carries.
var ProviderFields = []string{
	FieldProviderID,
	FieldActive,
	FieldName,
	FieldQualification,
	FieldSpeciality,
	FieldPhone,
	FieldDepartment,
	FieldOrganization,
	FieldLocation,
	FieldAddress,
}

// IsProviderField reports whether name is a field of a stored record.
func IsProviderField(name string) bool {
	for _, f := range ProviderFields {
		if f == name {
			return true
		}
	}
	return false
}

// CreateProviderRequest is the input schema for creating a provider.
// Required keys must be present but may be empty here; emptiness is
// rejected later by the creation completeness check.
type CreateProviderRequest struct {
	Active        *bool   `json:"active"`
	Name          *string `json:"name" binding:"required"`
	Qualification *string `json:"qualification" binding:"required"`
	Speciality    *string `json:"speciality" binding:"required"`
	Phone         *string `json:"phone" binding:"required,len=10"`
	Department    *string `json:"department"`
	Organization  *string `json:"organization" binding:"required"`
	Location      *string `json:"location"`
	Address       *string `json:"address" binding:"required"`
}

// ToProvider merges the request with an identifier into a full record.
func (r *CreateProviderRequest) ToProvider(providerID string) *Provider {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &Provider{
		ProviderID:    providerID,
		Active:        active,
		Name:          deref(r.Name),
		Qualification: deref(r.Qualification),
		Speciality:    deref(r.Speciality),
		Phone:         deref(r.Phone),
		Department:    cloneString(r.Department),
		Organization:  deref(r.Organization),
		Location:      cloneString(r.Location),
		Address:       deref(r.Address),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ProviderUpdate is a typed partial update; nil fields are left untouched.
// The identifier is deliberately absent.
type ProviderUpdate struct {
	Active        *bool
	Name          *string
	Qualification *string
	Speciality    *string
	Phone         *string
	Department    *string
	Organization  *string
	Location      *string
	Address       *string
}

// Apply overwrites every set field on p in place.
func (u *ProviderUpdate) Apply(p *Provider) {
	if u.Active != nil {
		p.Active = *u.Active
	}
	setString(&p.Name, u.Name)
	setString(&p.Qualification, u.Qualification)
	setString(&p.Speciality, u.Speciality)
	setString(&p.Phone, u.Phone)
	setString(&p.Organization, u.Organization)
	setString(&p.Address, u.Address)
	if u.Department != nil {
		p.Department = cloneString(u.Department)
	}
	if u.Location != nil {
		p.Location = cloneString(u.Location)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Fields returns the names of the fields u sets.
func (u *ProviderUpdate) Fields() []string {
	var fields []string
	if u.Active != nil {
		fields = append(fields, FieldActive)
	}
	for name, v := range map[string]*string{
		FieldName:          u.Name,
		FieldQualification: u.Qualification,
		FieldSpeciality:    u.Speciality,
		FieldPhone:         u.Phone,
		FieldDepartment:    u.Department,
		FieldOrganization:  u.Organization,
		FieldLocation:      u.Location,
		FieldAddress:       u.Address,
	} {
		if v != nil {
			fields = append(fields, name)
		}
	}
	return fields
}
