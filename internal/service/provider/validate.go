package provider

import (
	"fmt"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/pkg/errors"
	"github.com/jwalitptl/provider-directory/pkg/validator"
)

const (
	msgEmptyFields = "Empty fields. Validation Error"
	msgWrongType   = "Wrong input type. Validation Error"
)

var recordValidator = validator.New()

// ValidateCreate checks a complete record before it is first stored: every
// required field is non-empty and phone parses as an integer. Phone length
// is the input schema's concern and is not checked again here.
func ValidateCreate(p *model.Provider) error {
	if err := recordValidator.Validate(p); err != nil {
		return errors.Validation(msgEmptyFields, err)
	}
	return nil
}

// ValidateUpdate type-checks a filtered partial update and converts it to a
// ProviderUpdate: active must be a boolean, every other field a string.
// Emptiness and phone format are not checked.
func ValidateUpdate(fields map[string]interface{}) (*model.ProviderUpdate, error) {
	u := &model.ProviderUpdate{}
	for name, value := range fields {
		if name == model.FieldActive {
			b, ok := value.(bool)
			if !ok {
				return nil, errors.Validation(msgWrongType, fmt.Errorf("%s must be a boolean", name))
			}
			u.Active = &b
			continue
		}

		s, ok := value.(string)
		if !ok {
			return nil, errors.Validation(msgWrongType, fmt.Errorf("%s must be a string", name))
		}
		switch name {
		case model.FieldName:
			u.Name = &s
		case model.FieldQualification:
			u.Qualification = &s
		case model.FieldSpeciality:
			u.Speciality = &s
		case model.FieldPhone:
			u.Phone = &s
		case model.FieldDepartment:
			u.Department = &s
		case model.FieldOrganization:
			u.Organization = &s
		case model.FieldLocation:
			u.Location = &s
		case model.FieldAddress:
			u.Address = &s
		}
	}
	return u, nil
}

// filterUpdate keeps only fields a stored record has, minus the identifier.
func filterUpdate(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		if name == model.FieldProviderID || !model.IsProviderField(name) {
			continue
		}
		out[name] = value
	}
	return out
}
