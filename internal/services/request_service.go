package services

import (
	"context"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	"github.com/cpenseur/CSIT314-Null/internal/logging"
	"github.com/cpenseur/CSIT314-Null/internal/metrics"
	"github.com/cpenseur/CSIT314-Null/internal/models/dtos"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"
)

// RequestService owns the service request lifecycle from filing to
// completion, including the duplicate shortcut for recurring
// appointments.
type RequestService struct {
	requests *repositories.RequestRepository
	users    *repositories.UserRepository
	metrics  *metrics.MetricsRegistry
}

// NewRequestService creates a new request service
func NewRequestService(requests *repositories.RequestRepository, users *repositories.UserRepository, m *metrics.MetricsRegistry) *RequestService {
	return &RequestService{
		requests: requests,
		users:    users,
		metrics:  m,
	}
}

// Create files a request on behalf of a PIN. The store mints the public
// reference and the request starts PENDING.
func (svc *RequestService) Create(ctx context.Context, input dtos.CreateRequestInput) (*gormModels.ServiceRequest, error) {
	start := time.Now()

	owner, err := svc.users.GetByID(ctx, input.PINID)
	if err != nil {
		return nil, err
	}
	if !owner.IsPIN() {
		return nil, ErrNotPIN
	}

	req := &gormModels.ServiceRequest{
		PINID:           input.PINID,
		ServiceType:     input.ServiceType,
		AppointmentDate: input.AppointmentDate,
		PickupLocation:  input.PickupLocation,
		ServiceLocation: input.ServiceLocation,
		Description:     input.Description,
		Status:          constants.RequestPending,
	}

	err = svc.requests.Create(ctx, req)
	svc.metrics.ObserveOp("request_create", start, err)
	if err != nil {
		return nil, err
	}

	svc.metrics.RequestsCreatedTotal.Inc()
	logging.Info("service request filed",
		"reference", req.RequestID,
		"pin_id", req.PINID,
		"service_type", req.ServiceType,
	)
	return req, nil
}

// Duplicate files a fresh request copied from an existing one: same
// owner, service type, locations and description; new appointment date,
// new reference, PENDING status. The source row is left untouched.
func (svc *RequestService) Duplicate(ctx context.Context, requestID string, newAppointment time.Time) (*gormModels.ServiceRequest, error) {
	start := time.Now()

	src, err := svc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	dup := &gormModels.ServiceRequest{
		PINID:           src.PINID,
		ServiceType:     src.ServiceType,
		AppointmentDate: newAppointment,
		PickupLocation:  src.PickupLocation,
		ServiceLocation: src.ServiceLocation,
		Description:     src.Description,
		Status:          constants.RequestPending,
	}

	err = svc.requests.Create(ctx, dup)
	svc.metrics.ObserveOp("request_duplicate", start, err)
	if err != nil {
		return nil, err
	}

	svc.metrics.RequestsCreatedTotal.Inc()
	logging.Info("service request duplicated",
		"source", src.RequestID,
		"reference", dup.RequestID,
	)
	return dup, nil
}

// Complete closes out an ACTIVE request after the service happened.
func (svc *RequestService) Complete(ctx context.Context, requestID string) (*gormModels.ServiceRequest, error) {
	req, err := svc.requests.UpdateStatus(ctx, requestID, constants.RequestCompleted)
	if err != nil {
		return nil, err
	}
	logging.Info("service request completed", "reference", req.RequestID)
	return req, nil
}

// Get retrieves a request by primary key.
func (svc *RequestService) Get(ctx context.Context, requestID string) (*gormModels.ServiceRequest, error) {
	return svc.requests.GetByID(ctx, requestID)
}

// GetByReference retrieves a request by its public reference.
func (svc *RequestService) GetByReference(ctx context.Context, ref string) (*gormModels.ServiceRequest, error) {
	return svc.requests.GetByReference(ctx, ref)
}

// ListForPIN retrieves everything one PIN has filed.
func (svc *RequestService) ListForPIN(ctx context.Context, pinID string) ([]gormModels.ServiceRequest, error) {
	return svc.requests.ListByPIN(ctx, pinID)
}

// ListByStatus retrieves requests in one lifecycle state; volunteers
// browse the PENDING slice.
func (svc *RequestService) ListByStatus(ctx context.Context, status constants.RequestStatus) ([]gormModels.ServiceRequest, error) {
	return svc.requests.ListByStatus(ctx, status)
}

// Remove deletes a request and its entire sub-tree.
func (svc *RequestService) Remove(ctx context.Context, requestID string) error {
	start := time.Now()
	err := svc.requests.Delete(ctx, requestID)
	svc.metrics.ObserveOp("request_delete", start, err)
	if err != nil {
		return err
	}
	logging.Info("service request removed", "request_id", requestID)
	return nil
}
