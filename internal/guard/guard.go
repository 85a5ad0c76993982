// Package guard decides whether the signed-in user may enter a protected view.
package guard

import (
	"go.uber.org/zap"

	"maintenanceManagement/internal/session"
	"maintenanceManagement/models"
)

// LoginPath is where every denial redirects.
const LoginPath = "/login"

// Navigator performs the redirect that follows a denial.
type Navigator interface {
	Navigate(path string)
}

// Guard is consulted before a protected view is entered.
type Guard interface {
	CanActivate(p session.Provider, nav Navigator) bool
	Role() models.Role
}

// Allow reports whether p carries the wanted role. A nil provider or an
// unset role is denied.
func Allow(p session.Provider, want models.Role) bool {
	if p == nil {
		return false
	}
	role, ok := p.UserRole()
	return ok && role == want
}

// AdminGuard lets only admins through.
type AdminGuard struct {
	Logger *zap.Logger
}

func (g AdminGuard) CanActivate(p session.Provider, nav Navigator) bool {
	return activate(g.Logger, models.RoleAdmin, p, nav)
}

func (AdminGuard) Role() models.Role { return models.RoleAdmin }

// OperarioGuard lets only operators through.
type OperarioGuard struct {
	Logger *zap.Logger
}

func (g OperarioGuard) CanActivate(p session.Provider, nav Navigator) bool {
	return activate(g.Logger, models.RoleOperario, p, nav)
}

func (OperarioGuard) Role() models.Role { return models.RoleOperario }

// activate is evaluated on every call; nothing is cached between navigations.
func activate(logger *zap.Logger, want models.Role, p session.Provider, nav Navigator) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	var user string
	if p != nil {
		user, _ = p.Username()
	}
	if Allow(p, want) {
		logger.Debug("guard granted", zap.String("role", string(want)), zap.String("user", user))
		return true
	}
	logger.Warn("guard denied", zap.String("role", string(want)), zap.String("user", user))
	if nav != nil {
		nav.Navigate(LoginPath)
	}
	return false
}

var (
	_ Guard = AdminGuard{}
	_ Guard = OperarioGuard{}
)
