package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vitikova/user-service/internal/events"
	"github.com/vitikova/user-service/internal/logging"
	"github.com/vitikova/user-service/internal/models"
	"github.com/vitikova/user-service/internal/repo"
)

// resolveRoles validates role names against the closed role set and loads
// their rows. Empty input defaults to the plain USER role.
func resolveRoles(ctx context.Context, r *repo.GormRepo, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		names = []string{string(models.RoleUser)}
	}
	roleNames := make([]models.RoleName, 0, len(names))
	for _, n := range names {
		name := models.RoleName(n)
		if !name.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, n)
		}
		roleNames = append(roleNames, name)
	}
	return r.ResolveRoles(ctx, roleNames)
}

// publishUserEvent sends a lifecycle event; failures are logged and never
// fail the calling request.
func publishUserEvent(ctx context.Context, p *events.Producer, eventType string, user *models.User) {
	if p == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event := map[string]any{
		"type":   eventType,
		"userID": user.ID,
		"login":  user.Login,
	}
	if err := p.PublishEvent(pubCtx, fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "type", eventType, "error", err)
	}
}
