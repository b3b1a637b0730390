package doctor

import "errors"

// ErrDoctorNotFound signals that a doctor id does not resolve.
var ErrDoctorNotFound = errors.New("doctor not found")
