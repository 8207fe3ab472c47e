package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/klokku/workload/internal/config"
	"github.com/klokku/workload/internal/event_bus"
	"github.com/klokku/workload/pkg/calendar"
	"github.com/klokku/workload/pkg/load"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	NonWorkingWeekdays(ctx context.Context) []calendar.Weekday
	LoadThresholds(ctx context.Context) load.Thresholds
	WorkingDaySet(ctx context.Context) calendar.WorkingDaySet
}

// ConfigProvider serves the workload settings of the application configuration and swaps
// them when a reload is published on the event bus.
type ConfigProvider struct {
	mu         sync.RWMutex
	days       calendar.WorkingDaySet
	thresholds load.Thresholds
}

func NewConfigProvider(cfg config.Workload) (*ConfigProvider, error) {
	p := &ConfigProvider{}
	if err := p.apply(cfg.ToEvent()); err != nil {
		return nil, err
	}
	return p, nil
}

// Subscribe makes the provider follow event_bus.SettingsUpdated events.
func (p *ConfigProvider) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	return event_bus.SubscribeTyped(bus, event_bus.SettingsUpdatedType, func(e event_bus.EventT[event_bus.SettingsUpdated]) error {
		return p.apply(e.Data)
	})
}

func (p *ConfigProvider) apply(s event_bus.SettingsUpdated) error {
	weekdays := make([]calendar.Weekday, 0, len(s.NonWorkingWeekdays))
	for _, ordinal := range s.NonWorkingWeekdays {
		weekdays = append(weekdays, calendar.Weekday(ordinal))
	}
	days, err := calendar.NewWorkingDaySet(weekdays...)
	if err != nil {
		return fmt.Errorf("invalid non-working weekdays %v: %w", s.NonWorkingWeekdays, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.days = days
	p.thresholds = load.Thresholds{LowMin: s.LowMin, NormalMin: s.NormalMin, HighMin: s.HighMin}
	log.Infof("workload settings: non-working weekdays %v, thresholds %+v", days.NonWorkingWeekdays(), p.thresholds)
	return nil
}

func (p *ConfigProvider) NonWorkingWeekdays(ctx context.Context) []calendar.Weekday {
	return p.WorkingDaySet(ctx).NonWorkingWeekdays()
}

func (p *ConfigProvider) LoadThresholds(ctx context.Context) load.Thresholds {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.thresholds
}

func (p *ConfigProvider) WorkingDaySet(ctx context.Context) calendar.WorkingDaySet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.days
}
