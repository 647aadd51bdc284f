// Package errors: 타자연습 백엔드 전체에서 사용되는 에러 타입들을 정의한다.
// 도메인 에러(검증 실패, 대상 없음 등)는 값으로 표현하고, HTTP 매핑은 server 레이어가 담당한다.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ValidationError: 입력 검증 실패 에러 (HTTP 400으로 매핑됨)
type ValidationError struct {
	Field   string // 문제가 된 요청 필드
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error field=%s: %s", e.Field, e.Message)
}

// NewValidationError: 검증 에러를 생성한다.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError: 조회 대상이 존재하지 않을 때의 에러 (HTTP 404로 매핑됨)
type NotFoundError struct {
	Entity string // user, text, result 등
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s not found id=%s", e.Entity, e.ID)
}

// NewNotFoundError: 대상 없음 에러를 생성한다.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// CacheError: 캐시 작업 중 발생한 에러
// 캐시는 가용성 보조 수단이므로 호출부는 이 에러를 로그만 남기고 무시해도 된다.
type CacheError struct {
	Operation string // get, set, delete 등
	Key       string // 캐시 키
	Err       error  // 원인 에러
}

func (e *CacheError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cache error operation=%s key=%s", e.Operation, e.Key)
	}
	return fmt.Sprintf("cache error operation=%s key=%s: %v", e.Operation, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// NewCacheError: 캐시 에러를 생성한다.
func NewCacheError(operation, key string, cause error) *CacheError {
	return &CacheError{Operation: operation, Key: key, Err: cause}
}

// ServiceError: 내부 서비스 로직/영속성 에러 (HTTP 500으로 매핑됨)
type ServiceError struct {
	Service   string // 서비스 이름
	Operation string // 작업 이름
	Err       error  // 원인 에러
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("service error service=%s operation=%s", e.Service, e.Operation)
	}
	return fmt.Sprintf("service error service=%s operation=%s: %v", e.Service, e.Operation, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError: 서비스 에러를 생성한다.
func NewServiceError(service, operation string, cause error) *ServiceError {
	return &ServiceError{Service: service, Operation: operation, Err: cause}
}

// IsNotFound: 에러 체인에 NotFoundError가 포함되어 있는지 확인한다.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return stderrors.As(err, &nf)
}

// IsValidation: 에러 체인에 ValidationError가 포함되어 있는지 확인한다.
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}
