package permission

import (
	"github.com/pkg/errors"
)

var (
	ErrEmptyReferenceSet           = errors.New("empty reference set")
	ErrReferenceNotAuthorized      = errors.New("reference not authorized")
	ErrInvalidPermissions          = errors.New("invalid permissions")
	ErrPermissionNotRegistered     = errors.New("permission not registered")
	ErrPermissionAlreadyRegistered = errors.New("permission already registered")
)
