package util

// Collections
const (
	UserCollection        = "userinfos"
	AppointmentCollection = "appointments"
)

// Cache keys
const (
	PublicDoctorsKey  = "DOCTORS:PUBLIC"
	RevokedTokenKey   = "REVOKED:"
	RevokedUserKey    = "REVOKED_USER:"
	LoginAttemptsKey  = "LOGIN_FAIL:"
	MaxLoginAttempts  = 5
	LoginAttemptsSpan = 15
)

// Roles
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Appointment statuses
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Error codes
const (
	EMAIL_EXISTS = "EMAIL_EXISTS"
)

// Messages
const (
	EMAIL_REQUIRED             = "Email is required"
	EMAIL_ALREADY_REGISTERED   = "Email already registered"
	MISSING_REQUIRED_FIELDS    = "Missing required fields"
	NAME_EMAIL_PASSWORD_NEEDED = "Name, email and password are required"
	PASSWORD_TOO_SHORT         = "Password must be at least 8 characters"
	USER_NOT_FOUND             = "User not found"
	AUTHENTICATION_FAILED      = "Authentication failed"
	TOO_MANY_LOGIN_ATTEMPTS    = "Too many failed login attempts, try again later"
	DOCTOR_NOT_FOUND           = "Doctor not found"
	PATIENT_NOT_FOUND          = "Patient not found"
	APPOINTMENT_NOT_FOUND      = "Appointment not found"
	INVALID_STATUS_VALUE       = "Invalid status value"
	INVALID_STATUS_TRANSITION  = "Status transition is not allowed"
	APPOINTMENT_CHANGED        = "Appointment was changed by another request, reload and retry"
	INVALID_USER_ID            = "Invalid userId"
	INVALID_DOCTOR_ID          = "Invalid doctorId"
	INVALID_DATE               = "Invalid date value"
	INVALID_NUMBER             = "Invalid numeric value"
	SYMPTOMS_REQUIRED          = "Symptoms text is required"
	AI_DISABLED                = "AI assistant is currently disabled. OPENAI_API_KEY is not configured on the server."
	AI_ERROR                   = "AI assistant error"
	AI_FALLBACK_REPLY          = "Sorry, I could not generate a response right now. Please try again later."
	GENERIC_ERROR              = "An error occurred"
	MISSING_TOKEN              = "Missing bearer token"
	INVALID_TOKEN              = "Invalid or expired token"
	ACCESS_DENIED              = "You do not have access to this resource"
	PATIENT_CAN_ONLY_BOOK_SELF = "Patients can only book appointments for themselves"
	DOCTOR_NOT_ASSIGNED        = "This appointment is not assigned to you"
	SERVICE_UNHEALTHY          = "Database unavailable"
	LOGGED_OUT                 = "Logged out successfully"
	DOCTOR_CREATED             = "Doctor created"
	DOCTOR_DELETED             = "Doctor deleted"
	APPOINTMENT_BOOKED         = "Appointment booked"
	USER_ADDED                 = "Added."
	LOGIN_SUCCESS              = "Success."
)
