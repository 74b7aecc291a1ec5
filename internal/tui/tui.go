package tui

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/service"
	"github.com/MKhiriev/go-care-keeper/models"
)

var ErrUserQuit = errors.New("вышел из программы")

type TUI struct {
	status     QueueStatus
	records    VitalRecorder
	foreground ForegroundHook
	buildInfo  models.AppBuildInfo
	logger     *logger.Logger
}

func New(services *service.ClientServices, foreground ForegroundHook, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if services == nil || services.Status == nil || services.Records == nil {
		return nil, errNoServices
	}

	return &TUI{
		status:     services.Status,
		records:    services.Records,
		foreground: foreground,
		buildInfo:  buildInfo,
		logger:     logger,
	}, nil
}

// Run shows the status console until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	model := newStatusModel(ctx, t.status, t.records, t.foreground, t.buildInfo, clipboard.WriteAll)
	finalModel, err := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}

	if result, ok := finalModel.(statusModel); ok && result.quitByUser {
		return ErrUserQuit
	}
	return nil
}
