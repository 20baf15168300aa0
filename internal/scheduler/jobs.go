// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"time"

	"github.com/olegiv/mvs-cms/internal/visitor"
)

// VisitorTickJob is the name of the synthetic visitor increment job.
const VisitorTickJob = "visitor-tick"

// EverySchedule formats interval as a cron descriptor.
func EverySchedule(interval time.Duration) string {
	return "@every " + interval.String()
}

// AddVisitorTick adds one synthetic visit to counter every interval.
func (s *Scheduler) AddVisitorTick(counter *visitor.Counter, interval time.Duration) error {
	return s.Add(VisitorTickJob, "Adds one visit to the footer counter", EverySchedule(interval),
		func(ctx context.Context) error {
			n, err := counter.Tick(ctx)
			if err != nil {
				return err
			}
			s.logger.Debug("visitor counter ticked", "count", n)
			return nil
		})
}
