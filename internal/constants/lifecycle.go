package constants

// ServiceType enumerates the kinds of help a PIN can ask for.
type ServiceType string

const (
	ServiceHealthcare      ServiceType = "HEALTHCARE"
	ServiceEscort          ServiceType = "ESCORT"
	ServiceTherapyEscort   ServiceType = "THERAPY_ESCORT"
	ServiceDialysisEscort  ServiceType = "DIALYSIS_ESCORT"
	ServiceVaccineEscort   ServiceType = "VACCINE_ESCORT"
	ServiceMobilityEscort  ServiceType = "MOBILITY_ESCORT"
	ServiceCommunityEscort ServiceType = "COMMUNITY_ESCORT"
)

// ServiceTypes lists every valid service type, in display order.
func ServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceHealthcare,
		ServiceEscort,
		ServiceTherapyEscort,
		ServiceDialysisEscort,
		ServiceVaccineEscort,
		ServiceMobilityEscort,
		ServiceCommunityEscort,
	}
}

func (s ServiceType) String() string { return string(s) }

// IsValid reports whether s is a known service type.
func (s ServiceType) IsValid() bool {
	for _, t := range ServiceTypes() {
		if s == t {
			return true
		}
	}
	return false
}

// RequestStatus is the lifecycle state of a service request.
// Requests only ever move forward: PENDING -> ACTIVE -> COMPLETED.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestActive    RequestStatus = "ACTIVE"
	RequestCompleted RequestStatus = "COMPLETED"
)

func (s RequestStatus) String() string { return string(s) }

// CanTransitionTo reports whether moving from s to next is a legal
// forward step. There is no reverse path and no skipping.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestPending:
		return next == RequestActive
	case RequestActive:
		return next == RequestCompleted
	}
	return false
}

// MatchDecision records where a volunteer offer stands. A match starts
// OFFERED and is settled exactly once, to ACCEPTED or DECLINED.
type MatchDecision string

const (
	MatchOffered  MatchDecision = "OFFERED"
	MatchAccepted MatchDecision = "ACCEPTED"
	MatchDeclined MatchDecision = "DECLINED"
)

func (d MatchDecision) String() string { return string(d) }

// IsDecided reports whether the volunteer has answered the offer.
func (d MatchDecision) IsDecided() bool {
	return d == MatchAccepted || d == MatchDeclined
}
