package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/internal/config"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/clients/gmailclient"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg         *config.Config
	GmailClient *gmailclient.Client
	Database    db.Database
	Logger      *zap.Logger
	Ctx         context.Context
}

// Actor returns the operator identity from config as a service-layer actor
func (app *AppContext) Actor() services.Actor {
	return services.Actor{
		ID:   app.Cfg.Operator.ID,
		Role: app.Cfg.Operator.Role,
	}
}

// Mailer returns the gmail client as an AlertMailer, or nil when no gmail
// sender is configured
func (app *AppContext) Mailer() services.AlertMailer {
	if app.GmailClient == nil {
		return nil
	}
	return app.GmailClient
}
