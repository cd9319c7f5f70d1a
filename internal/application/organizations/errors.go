package organizations

import "errors"

var (
	ErrInvalidType             = errors.New("Organization type must be FIRM or COMPANY")
	ErrNameRequired            = errors.New("Arabic and English names are required")
	ErrInvalidLicenseFormat    = errors.New("Invalid license number format")
	ErrInvalidSocpaNumber      = errors.New("Invalid SOCPA number format")
	ErrInvalidRegistrationType = errors.New("Registration type must be PARTNER or EMPLOYEE")
	ErrRegistrantRequired      = errors.New("Registrant details are required for audit firms")
	ErrInvalidRegistrantEmail  = errors.New("Invalid registrant email")
	ErrInvalidSubdomain        = errors.New("English name must contain letters or digits")
	ErrInvalidEmailDomain      = errors.New("Invalid email domain")
	ErrInvalidDocument         = errors.New("Document name, path and a valid category are required")
	ErrNoUpdateFields          = errors.New("No valid update fields provided")

	ErrDuplicateRegistration           = errors.New("An organization with this registration number already exists")
	ErrDuplicateCommercialRegistration = errors.New("Commercial registration already registered")
	ErrSubdomainTaken                  = errors.New("Subdomain is already taken")

	ErrCreatorNotFound       = errors.New("User not found")
	ErrOrganizationNotFound  = errors.New("Organization not found")
	ErrFirmNotFound          = errors.New("Audit firm not found")
	ErrNoCurrentOrganization = errors.New("User is not associated with any organization")
	ErrMemberNotFound        = errors.New("Member not found")

	ErrForbidden        = errors.New("User is Forbidden from performing this action")
	ErrCannotRevokeSelf = errors.New("You cannot revoke your own membership")
	ErrReasonRequired   = errors.New("A reason is required")
	ErrHasActiveMembers = errors.New("Cannot delete firm with active members")
)
