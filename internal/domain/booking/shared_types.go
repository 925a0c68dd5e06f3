// internal/domain/booking/shared_types.go
package booking

// Status tracks where a booking request sits in its lifecycle. Follow-ups
// apply only while a request is QUOTED.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusQuoted    Status = "QUOTED"
	StatusBooked    Status = "BOOKED"
	StatusCancelled Status = "CANCELLED"
)

// ResponseMethod records which channel a client used to get back to us.
type ResponseMethod string

const (
	MethodEmail    ResponseMethod = "EMAIL"
	MethodPhone    ResponseMethod = "PHONE"
	MethodInPerson ResponseMethod = "IN_PERSON"
	MethodSMS      ResponseMethod = "SMS"
	MethodWhatsApp ResponseMethod = "WHATSAPP"
	MethodNone     ResponseMethod = "NONE"
)

// ValidResponseMethod reports whether m is a channel a client can actually
// respond through (NONE is the zero state, not a response).
func ValidResponseMethod(m ResponseMethod) bool {
	switch m {
	case MethodEmail, MethodPhone, MethodInPerson, MethodSMS, MethodWhatsApp:
		return true
	default:
		return false
	}
}
