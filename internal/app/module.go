package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fitdesk/gymcrm/internal/app/api/server"
	"github.com/fitdesk/gymcrm/internal/app/service/categorization"
	"github.com/fitdesk/gymcrm/internal/app/service/member"
	"github.com/fitdesk/gymcrm/internal/app/service/statistics"
	"github.com/fitdesk/gymcrm/internal/app/service/streak"
	"github.com/fitdesk/gymcrm/internal/platform/db"
	"github.com/fitdesk/gymcrm/pkg/config"
	"github.com/fitdesk/gymcrm/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	categorization.Module,
	streak.Module,
	member.Module,
	statistics.Module,
)
