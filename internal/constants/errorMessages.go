package constants

const (
	MsgUserNotFound     = "User not found"
	MsgRequestNotFound  = "Service request not found"
	MsgMatchNotFound    = "No match on record for this request"
	MsgClaimNotFound    = "Financial claim not found"
	MsgOTPNotFound      = "No one-time code on record"
	MsgOTPExpired       = "One-time code has expired"
	MsgOTPUsed          = "One-time code was already used"
	MsgRequestNotActive = "Service request is not active"
	MsgMatchDecided     = "Match has already been accepted or declined"
	MsgTooManyOTPIssues = "Too many one-time codes requested"
	MsgNotAPIN          = "Account is not a person-in-need"
	MsgNotACV           = "Account is not a corporate volunteer"
	MsgNotACSR          = "Account is not a support representative"
	MsgNotRequestOwner  = "Account does not own this service request"
	MsgBadCredentials   = "Username or password is wrong"
)
