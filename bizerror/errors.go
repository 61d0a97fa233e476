package bizerror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidPassword = errors.New("invalid password")

	ErrQualityGateBlocked    = errors.New("quality sign-off is required before leaving a production stage")
	ErrCancelReasonRequired  = errors.New("cancellation reason must not be empty")
	ErrAreasInvalid          = errors.New("selected areas are invalid")
	ErrInvalidStage          = errors.New("stage is not part of the project flow")
	ErrProjectStatusInvalid  = errors.New("operation is not valid for the current project status")
	ErrIdentifierExisted     = errors.New("project identifier already existed")
	ErrLastSystemUserDeleted = errors.New("the last system user can not be deleted")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}
