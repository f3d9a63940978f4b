package services

import (
	"errors"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
)

// Policy errors: the record being written is fine, the actor or the
// moment is not. Repositories never return these; services do.
var (
	ErrNotPIN             = errors.New(constants.MsgNotAPIN)
	ErrNotCV              = errors.New(constants.MsgNotACV)
	ErrNotCSR             = errors.New(constants.MsgNotACSR)
	ErrNotRequestOwner    = errors.New(constants.MsgNotRequestOwner)
	ErrRequestNotActive   = errors.New(constants.MsgRequestNotActive)
	ErrOTPExpired         = errors.New(constants.MsgOTPExpired)
	ErrOTPUsed            = errors.New(constants.MsgOTPUsed)
	ErrTooManyOTPRequests = errors.New(constants.MsgTooManyOTPIssues)
	ErrBadCredentials     = errors.New(constants.MsgBadCredentials)
)
