package hub

import (
	"github.com/pkg/errors"
)

var (
	ErrModuleAlreadyRegistered = errors.New("module already registered")
	ErrModuleNotRegistered     = errors.New("module not registered")
	ErrInvalidDescription      = errors.New("description too long")
)
