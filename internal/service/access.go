package service

import (
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
)

// AccessControl answers whether an account holds the admin role.
type AccessControl interface {
	HasAdminRole(account common.Address) bool
}

// SingleAdmin grants the admin role to exactly one configured account.
// With no account configured every admin operation is denied.
type SingleAdmin struct {
	admin   common.Address
	enabled bool
}

func NewSingleAdmin(admin common.Address, enabled bool) *SingleAdmin {
	return &SingleAdmin{admin: admin, enabled: enabled}
}

func (a *SingleAdmin) HasAdminRole(account common.Address) bool {
	return a.enabled && account == a.admin
}

// PauseSwitch is a toggleable pause gate. The zero value is paused; use
// NewPauseSwitch for a gate that starts active.
type PauseSwitch struct {
	active atomic.Bool
}

func NewPauseSwitch() *PauseSwitch {
	s := &PauseSwitch{}
	s.active.Store(true)
	return s
}

func (s *PauseSwitch) IsActive() bool { return s.active.Load() }

func (s *PauseSwitch) Pause()  { s.active.Store(false) }
func (s *PauseSwitch) Resume() { s.active.Store(true) }
